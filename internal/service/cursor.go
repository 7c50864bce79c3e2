package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
)

// cursorToken is the decoded form of the opaque cursor handed to clients.
// The fingerprint binds a cursor to the exact filter combination it was
// issued for so a cursor cannot silently page through a different view.
type cursorToken struct {
	SortValue   string `json:"v"`
	LastID      string `json:"id"`
	Fingerprint string `json:"fp"`
}

func filterFingerprint(status, search, sortBy, sortOrder string) string {
	return strings.Join([]string{status, strings.ToLower(search), sortBy, sortOrder}, "|")
}

func encodeCursor(last *models.TeacherRecord, sortBy, fingerprint string) string {
	token := cursorToken{
		SortValue:   last.SortValue(sortBy),
		LastID:      last.UserID,
		Fingerprint: fingerprint,
	}
	raw, _ := json.Marshal(token)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(raw string) (*cursorToken, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	var token cursorToken
	if err := json.Unmarshal(decoded, &token); err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	if token.LastID == "" {
		return nil, fmt.Errorf("decode cursor: missing position")
	}
	return &token, nil
}
