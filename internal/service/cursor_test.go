package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
)

func TestCursorRoundTrip(t *testing.T) {
	record := &models.TeacherRecord{
		UserID:    "t1",
		Name:      "Alice",
		CreatedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
	}
	fp := filterFingerprint("pending", "ali", "created_at", "desc")

	raw := encodeCursor(record, "created_at", fp)
	token, err := decodeCursor(raw)
	require.NoError(t, err)
	assert.Equal(t, "t1", token.LastID)
	assert.Equal(t, "2024-05-01T12:30:00Z", token.SortValue)
	assert.Equal(t, fp, token.Fingerprint)

	raw = encodeCursor(record, "name", fp)
	token, err = decodeCursor(raw)
	require.NoError(t, err)
	assert.Equal(t, "Alice", token.SortValue)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := decodeCursor("%%%")
	assert.Error(t, err)

	_, err = decodeCursor("bm90IGpzb24")
	assert.Error(t, err)
}

func TestFilterFingerprintNormalisesSearch(t *testing.T) {
	assert.Equal(t,
		filterFingerprint("pending", "Alice", "name", "asc"),
		filterFingerprint("pending", "alice", "name", "asc"))
	assert.NotEqual(t,
		filterFingerprint("pending", "alice", "name", "asc"),
		filterFingerprint("verified", "alice", "name", "asc"))
}
