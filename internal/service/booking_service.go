package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
)

type bookingRepository interface {
	Create(ctx context.Context, request *models.SessionRequest) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.SessionRequest, error)
	ListByLearner(ctx context.Context, learnerID string) ([]models.SessionRequest, error)
}

type bookingTeacherRepository interface {
	FindByID(ctx context.Context, userID string) (*models.TeacherRecord, error)
}

// BookingService handles session requests from learners to teachers.
// Requests are append only; scheduling and decisions happen off platform.
type BookingService struct {
	repo      bookingRepository
	teachers  bookingTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(repo bookingRepository, teachers bookingTeacherRepository, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BookingService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// Book files a session request against a verified teacher.
func (s *BookingService) Book(ctx context.Context, learnerID, learnerEmail string, req models.BookSessionRequest) (*models.SessionRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if teacher.VerificationStatus != models.VerificationVerified {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "teacher is not accepting bookings")
	}

	request := &models.SessionRequest{
		TeacherID:     req.TeacherID,
		LearnerID:     learnerID,
		LearnerEmail:  learnerEmail,
		RequestedDate: req.RequestedDate,
		RequestedTime: req.RequestedTime,
		Topic:         req.Topic,
		Status:        models.SessionRequestPending,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session request")
	}

	s.logger.Info("session requested",
		zap.String("request_id", request.ID),
		zap.String("teacher_id", req.TeacherID),
		zap.String("learner_id", learnerID))

	return request, nil
}

// Incoming lists the caller's inbound requests, newest first.
func (s *BookingService) Incoming(ctx context.Context, teacherID string) ([]models.SessionRequest, error) {
	requests, err := s.repo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session requests")
	}
	if requests == nil {
		requests = []models.SessionRequest{}
	}
	return requests, nil
}

// Mine lists the caller's own outbound requests, newest first.
func (s *BookingService) Mine(ctx context.Context, learnerID string) ([]models.SessionRequest, error) {
	requests, err := s.repo.ListByLearner(ctx, learnerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session requests")
	}
	if requests == nil {
		requests = []models.SessionRequest{}
	}
	return requests, nil
}
