package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
)

type catalogRepository interface {
	ListCategories(ctx context.Context) ([]models.LearningCategory, error)
	ListFields(ctx context.Context) ([]models.LearningField, error)
}

// CatalogService serves the learning category and field reference data
// behind the browse pages.
type CatalogService struct {
	repo   catalogRepository
	logger *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo catalogRepository, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, logger: logger}
}

// Categories lists all learning categories.
func (s *CatalogService) Categories(ctx context.Context) ([]models.LearningCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	if categories == nil {
		categories = []models.LearningCategory{}
	}
	return categories, nil
}

// Fields lists all learning fields.
func (s *CatalogService) Fields(ctx context.Context) ([]models.LearningField, error) {
	fields, err := s.repo.ListFields(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fields")
	}
	if fields == nil {
		fields = []models.LearningField{}
	}
	return fields, nil
}
