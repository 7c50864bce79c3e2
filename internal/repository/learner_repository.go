package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// LearnerRepository manages the learner marker entities created at role
// selection.
type LearnerRepository struct {
	db *sqlx.DB
}

// NewLearnerRepository constructs a LearnerRepository.
func NewLearnerRepository(db *sqlx.DB) *LearnerRepository {
	return &LearnerRepository{db: db}
}

// Create inserts the marker row for an account. Re-selection is a no-op.
func (r *LearnerRepository) Create(ctx context.Context, userID string) error {
	const query = `INSERT INTO learners (user_id, created_at) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("create learner: %w", err)
	}
	return nil
}

// Exists reports whether the account has the learner marker.
func (r *LearnerRepository) Exists(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT 1 FROM learners WHERE user_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check learner: %w", err)
	}
	return true, nil
}
