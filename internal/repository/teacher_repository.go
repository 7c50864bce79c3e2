package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
)

const teacherColumns = "user_id, email, name, age, qualification, work_experience, teaching_field, subjects, languages, hourly_rate, certificate_link, availability, verification_status, created_at, updated_at"

// TeacherRepository manages persistence for teacher records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns at most filter.PageSize records matching the filter,
// starting strictly after the cursor position in (sort column, user_id)
// keyset order. Search matches name, email and teaching field across the
// whole filtered set.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherRecord, error) {
	base := "FROM teachers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("verification_status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(email) LIKE $%d OR LOWER(teaching_field) LIKE $%d)", idx, idx, idx))
		args = append(args, search)
	}

	column := sortColumn(filter.SortBy)
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	if filter.Cursor != nil {
		op := ">"
		if order == "DESC" {
			op = "<"
		}
		cast := ""
		if column == "created_at" {
			cast = "::timestamptz"
		}
		conditions = append(conditions, fmt.Sprintf("(%s, user_id) %s ($%d%s, $%d)", column, op, len(args)+1, cast, len(args)+2))
		args = append(args, filter.Cursor.SortValue, filter.Cursor.LastID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	size := filter.PageSize
	if size <= 0 {
		size = 10
	}

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s, user_id %s LIMIT %d", teacherColumns, base, column, order, order, size)
	var teachers []models.TeacherRecord
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}

	return teachers, nil
}

func sortColumn(sortBy string) string {
	allowedSorts := map[string]string{
		"name":          "name",
		"qualification": "qualification",
		"created_at":    "created_at",
	}
	if column, ok := allowedSorts[sortBy]; ok {
		return column
	}
	return "created_at"
}

// CountByStatus computes global per-status counts over the full record set.
func (r *TeacherRepository) CountByStatus(ctx context.Context) (models.VerificationStats, error) {
	const query = `SELECT verification_status, COUNT(*) AS count FROM teachers GROUP BY verification_status`

	var rows []struct {
		Status models.VerificationStatus `db:"verification_status"`
		Count  int                       `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return models.VerificationStats{}, fmt.Errorf("count teachers by status: %w", err)
	}

	var stats models.VerificationStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case models.VerificationPending:
			stats.Pending = row.Count
		case models.VerificationVerified:
			stats.Verified = row.Count
		case models.VerificationRejected:
			stats.Rejected = row.Count
		}
	}
	return stats, nil
}

// FindByID fetches a teacher record by the owning account id.
func (r *TeacherRepository) FindByID(ctx context.Context, userID string) (*models.TeacherRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE user_id = $1", teacherColumns)
	var teacher models.TeacherRecord
	if err := r.db.GetContext(ctx, &teacher, query, userID); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create inserts a teacher record unless one already exists for the
// account. Returns false when the record was already present.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.TeacherRecord) (bool, error) {
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now
	if teacher.VerificationStatus == "" {
		teacher.VerificationStatus = models.VerificationPending
	}

	const query = `INSERT INTO teachers (user_id, email, name, age, qualification, work_experience, teaching_field, subjects, languages, hourly_rate, certificate_link, availability, verification_status, created_at, updated_at)
		VALUES (:user_id, :email, :name, :age, :qualification, :work_experience, :teaching_field, :subjects, :languages, :hourly_rate, :certificate_link, :availability, :verification_status, :created_at, :updated_at)
		ON CONFLICT (user_id) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, teacher)
	if err != nil {
		return false, fmt.Errorf("create teacher: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create teacher: %w", err)
	}
	return affected > 0, nil
}

// UpdateStatus transitions verification_status. Any source state is
// accepted; re-transitioning verified/rejected records is permitted.
func (r *TeacherRepository) UpdateStatus(ctx context.Context, userID string, status models.VerificationStatus) error {
	const query = `UPDATE teachers SET verification_status = $2, updated_at = $3 WHERE user_id = $1`
	res, err := r.db.ExecContext(ctx, query, userID, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update verification status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update verification status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListVerifiedByField returns verified teachers for a teaching field,
// used by the learner browse surface.
func (r *TeacherRepository) ListVerifiedByField(ctx context.Context, field string) ([]models.TeacherRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE verification_status = $1 AND teaching_field = $2 ORDER BY name ASC", teacherColumns)
	var teachers []models.TeacherRecord
	if err := r.db.SelectContext(ctx, &teachers, query, models.VerificationVerified, field); err != nil {
		return nil, fmt.Errorf("list verified teachers: %w", err)
	}
	return teachers, nil
}

// ListAll returns the full roster, newest first. Used by exports.
func (r *TeacherRepository) ListAll(ctx context.Context) ([]models.TeacherRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers ORDER BY created_at DESC, user_id DESC", teacherColumns)
	var teachers []models.TeacherRecord
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list all teachers: %w", err)
	}
	return teachers, nil
}
