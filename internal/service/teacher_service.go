package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
)

type teacherWriteRepository interface {
	Create(ctx context.Context, teacher *models.TeacherRecord) (bool, error)
	FindByID(ctx context.Context, userID string) (*models.TeacherRecord, error)
	ListVerifiedByField(ctx context.Context, field string) ([]models.TeacherRecord, error)
}

// TeacherService covers the teacher-facing profile flows and the learner
// browse surface.
type TeacherService struct {
	repo      teacherWriteRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherWriteRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Register submits the caller's credentials profile. At most one record
// per account; resubmission conflicts instead of overwriting.
func (s *TeacherService) Register(ctx context.Context, userID, email string, req models.TeacherRegistrationRequest) (*models.TeacherRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	record := &models.TeacherRecord{
		UserID:             userID,
		Email:              email,
		Name:               req.Name,
		Age:                req.Age,
		Qualification:      req.Qualification,
		TeachingField:      req.TeachingField,
		Subjects:           pq.StringArray(req.Subjects),
		Languages:          pq.StringArray(req.Languages),
		HourlyRate:         req.HourlyRate,
		Availability:       models.AvailabilitySlots(req.Availability),
		VerificationStatus: models.VerificationPending,
	}
	if req.WorkExperience != "" {
		exp := req.WorkExperience
		record.WorkExperience = &exp
	}
	if req.CertificateLink != "" {
		link := req.CertificateLink
		record.CertificateLink = &link
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher profile")
	}
	if !created {
		return nil, appErrors.Clone(appErrors.ErrConflict, "teacher profile already submitted")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, verificationStatsCachePattern)
	}

	s.logger.Info("teacher profile submitted",
		zap.String("user_id", userID),
		zap.String("teaching_field", record.TeachingField))

	return record, nil
}

// GetOwn loads the caller's own teacher record.
func (s *TeacherService) GetOwn(ctx context.Context, userID string) (*models.TeacherRecord, error) {
	record, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no teacher profile for this account")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}
	return record, nil
}

// GetVerified loads a single teacher for the learner-facing profile
// page. Records that are not verified stay hidden and read as absent.
func (s *TeacherService) GetVerified(ctx context.Context, teacherID string) (*models.TeacherRecord, error) {
	record, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if record.VerificationStatus != models.VerificationVerified {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	return record, nil
}

// BrowseVerified lists verified teachers for a teaching field. Only
// verified records are ever exposed outside the admin surface.
func (s *TeacherService) BrowseVerified(ctx context.Context, field string) ([]models.TeacherRecord, error) {
	if field == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "field parameter is required")
	}
	teachers, err := s.repo.ListVerifiedByField(ctx, field)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	if teachers == nil {
		teachers = []models.TeacherRecord{}
	}
	return teachers, nil
}
