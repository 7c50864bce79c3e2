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

type profileUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	SetRole(ctx context.Context, id string, role models.UserRole) (bool, error)
	IsAdmin(ctx context.Context, id string) (bool, error)
}

type learnerMarkerRepository interface {
	Create(ctx context.Context, userID string) error
}

// ProfileService covers the account-facing flows after authentication,
// role selection and profile lookup.
type ProfileService struct {
	users     profileUserRepository
	learners  learnerMarkerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(users profileUserRepository, learners learnerMarkerRepository, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{users: users, learners: learners, validator: validate, logger: logger}
}

// SelectRole assigns the account's role exactly once. A second attempt
// conflicts even when it names the same role.
func (s *ProfileService) SelectRole(ctx context.Context, userID string, req models.SelectRoleRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}

	assigned, err := s.users.SetRole(ctx, userID, req.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign role")
	}
	if !assigned {
		// Zero rows either means the account is missing or the role was
		// already chosen. Load the account to tell the two apart.
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, "role has already been selected")
	}

	if req.Role == models.RoleLearner {
		if err := s.learners.Create(ctx, userID); err != nil {
			s.logger.Warn("failed to create learner profile", zap.String("user_id", userID), zap.Error(err))
		}
	}

	s.logger.Info("role selected", zap.String("user_id", userID), zap.String("role", string(req.Role)))

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}

	info := &models.UserInfo{ID: user.ID, Email: user.Email}
	if user.Role != nil {
		info.Role = *user.Role
	}
	return info, nil
}

// Me returns the authenticated account's profile.
func (s *ProfileService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load account")
	}

	admin, err := s.users.IsAdmin(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve role")
	}
	if admin {
		role := models.RoleAdmin
		user.Role = &role
	}

	return user, nil
}
