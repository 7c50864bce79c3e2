package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
)

const sessionRequestColumns = "id, teacher_id, learner_id, learner_email, requested_date, requested_time, topic, status, created_at"

// BookingRepository manages persistence for session requests.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a new session request.
func (r *BookingRepository) Create(ctx context.Context, request *models.SessionRequest) error {
	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.SessionRequestPending
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO session_requests (id, teacher_id, learner_id, learner_email, requested_date, requested_time, topic, status, created_at)
		VALUES (:id, :teacher_id, :learner_id, :learner_email, :requested_date, :requested_time, :topic, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, request); err != nil {
		return fmt.Errorf("create session request: %w", err)
	}
	return nil
}

// ListByTeacher returns requests addressed to a teacher, newest first.
func (r *BookingRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.SessionRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM session_requests WHERE teacher_id = $1 ORDER BY created_at DESC", sessionRequestColumns)
	var requests []models.SessionRequest
	if err := r.db.SelectContext(ctx, &requests, query, teacherID); err != nil {
		return nil, fmt.Errorf("list session requests by teacher: %w", err)
	}
	return requests, nil
}

// ListByLearner returns requests created by a learner, newest first.
func (r *BookingRepository) ListByLearner(ctx context.Context, learnerID string) ([]models.SessionRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM session_requests WHERE learner_id = $1 ORDER BY created_at DESC", sessionRequestColumns)
	var requests []models.SessionRequest
	if err := r.db.SelectContext(ctx, &requests, query, learnerID); err != nil {
		return nil, fmt.Errorf("list session requests by learner: %w", err)
	}
	return requests, nil
}
