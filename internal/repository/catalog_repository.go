package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
)

// CatalogRepository reads the browsing reference data.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories returns all learning categories ordered by name.
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.LearningCategory, error) {
	const query = `SELECT id, name, description FROM learning_categories ORDER BY name ASC`
	var categories []models.LearningCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list learning categories: %w", err)
	}
	return categories, nil
}

// ListFields returns all learning fields ordered by name.
func (r *CatalogRepository) ListFields(ctx context.Context) ([]models.LearningField, error) {
	const query = `SELECT id, category_id, name, description, teacher_count FROM learning_fields ORDER BY name ASC`
	var fields []models.LearningField
	if err := r.db.SelectContext(ctx, &fields, query); err != nil {
		return nil, fmt.Errorf("list learning fields: %w", err)
	}
	return fields, nil
}
