package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// VerificationStatus gates whether a teacher is publicly listed.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Valid reports whether the status is one of the known tri-state values.
func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// AvailabilitySlot is a single weekly teaching slot.
type AvailabilitySlot struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// AvailabilitySlots stores the ordered slot list as a JSONB column.
type AvailabilitySlots []AvailabilitySlot

// Value implements driver.Valuer.
func (a AvailabilitySlots) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *AvailabilitySlots) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("availability slots: unsupported scan type %T", src)
	}
	return json.Unmarshal(raw, a)
}

// TeacherRecord is a teacher's credentials profile plus verification state.
// Keyed by the owning account id; at most one per account.
type TeacherRecord struct {
	UserID             string             `db:"user_id" json:"user_id"`
	Email              string             `db:"email" json:"email"`
	Name               string             `db:"name" json:"name"`
	Age                *int               `db:"age" json:"age,omitempty"`
	Qualification      string             `db:"qualification" json:"qualification"`
	WorkExperience     *string            `db:"work_experience" json:"work_experience,omitempty"`
	TeachingField      string             `db:"teaching_field" json:"teaching_field"`
	Subjects           pq.StringArray     `db:"subjects" json:"subjects"`
	Languages          pq.StringArray     `db:"languages" json:"languages"`
	HourlyRate         *float64           `db:"hourly_rate" json:"hourly_rate,omitempty"`
	CertificateLink    *string            `db:"certificate_link" json:"certificate_link,omitempty"`
	Availability       AvailabilitySlots  `db:"availability" json:"availability"`
	VerificationStatus VerificationStatus `db:"verification_status" json:"verification_status"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// SortValue returns the record's value for a whitelisted sort column,
// serialised the way list cursors carry it.
func (t *TeacherRecord) SortValue(sortBy string) string {
	switch sortBy {
	case "name":
		return t.Name
	case "qualification":
		return t.Qualification
	default:
		return t.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
}

// TeacherCursor identifies the position of the last record of the
// previous page in the (sort column, user_id) keyset order.
type TeacherCursor struct {
	SortValue string
	LastID    string
}

// TeacherFilter captures the admin listing parameters. Cursor must have
// been issued for the same status/search/sort combination.
type TeacherFilter struct {
	Status    *VerificationStatus
	Search    string
	SortBy    string
	SortOrder string
	Cursor    *TeacherCursor
	PageSize  int
}

// TeacherRegistrationRequest is the credentials payload submitted when a
// teacher account registers its profile.
type TeacherRegistrationRequest struct {
	Name            string             `json:"name" validate:"required,max=120"`
	Age             *int               `json:"age" validate:"omitempty,gte=18,lte=100"`
	Qualification   string             `json:"qualification" validate:"required,max=200"`
	WorkExperience  string             `json:"work_experience" validate:"omitempty,max=2000"`
	TeachingField   string             `json:"teaching_field" validate:"required,max=120"`
	Subjects        []string           `json:"subjects" validate:"omitempty,dive,required"`
	Languages       []string           `json:"languages" validate:"omitempty,dive,required"`
	HourlyRate      *float64           `json:"hourly_rate" validate:"omitempty,gt=0"`
	CertificateLink string             `json:"certificate_link" validate:"omitempty,url"`
	Availability    []AvailabilitySlot `json:"availability" validate:"omitempty,dive"`
}

// VerificationListQuery is the raw admin listing query before cursor
// decoding and validation.
type VerificationListQuery struct {
	Status    string `form:"status" validate:"omitempty,oneof=all pending verified rejected"`
	Search    string `form:"search" validate:"omitempty,max=120"`
	SortBy    string `form:"sort" validate:"omitempty,oneof=name qualification created_at"`
	SortOrder string `form:"order" validate:"omitempty,oneof=asc desc"`
	Cursor    string `form:"cursor"`
	PageSize  int    `form:"limit" validate:"omitempty,gte=1"`
}

// VerificationDecisionRequest carries an admin's approve or reject call.
type VerificationDecisionRequest struct {
	Status VerificationStatus `json:"status" validate:"required,oneof=verified rejected"`
}

// TeacherPage is one page of the admin verification listing.
type TeacherPage struct {
	Teachers []TeacherRecord
	Page     PageInfo
}

// VerificationStats are global per-status counts, computed over the full
// record set independently of the paginated listing.
type VerificationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
	Rejected int `json:"rejected"`
}
