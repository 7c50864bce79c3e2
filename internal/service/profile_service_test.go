package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
)

type mockProfileUsers struct {
	users  map[string]*models.User
	admins map[string]bool
}

func (m *mockProfileUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfileUsers) SetRole(ctx context.Context, id string, role models.UserRole) (bool, error) {
	u, ok := m.users[id]
	if !ok || u.Role != nil {
		return false, nil
	}
	u.Role = &role
	return true, nil
}

func (m *mockProfileUsers) IsAdmin(ctx context.Context, id string) (bool, error) {
	return m.admins[id], nil
}

type mockLearners struct {
	created []string
}

func (m *mockLearners) Create(ctx context.Context, userID string) error {
	m.created = append(m.created, userID)
	return nil
}

func TestProfileServiceSelectRoleOnce(t *testing.T) {
	users := &mockProfileUsers{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "a@example.com", Active: true},
	}}
	learners := &mockLearners{}
	svc := NewProfileService(users, learners, validator.New(), zap.NewNop())

	info, err := svc.SelectRole(context.Background(), "u1", models.SelectRoleRequest{Role: models.RoleLearner})
	require.NoError(t, err)
	assert.Equal(t, models.RoleLearner, info.Role)
	assert.Equal(t, []string{"u1"}, learners.created)

	// second attempt conflicts, even with the same role
	_, err = svc.SelectRole(context.Background(), "u1", models.SelectRoleRequest{Role: models.RoleLearner})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceSelectRoleTeacherSkipsLearnerMarker(t *testing.T) {
	users := &mockProfileUsers{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "a@example.com", Active: true},
	}}
	learners := &mockLearners{}
	svc := NewProfileService(users, learners, validator.New(), zap.NewNop())

	info, err := svc.SelectRole(context.Background(), "u1", models.SelectRoleRequest{Role: models.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, info.Role)
	assert.Empty(t, learners.created)
}

func TestProfileServiceSelectRoleRejectsAdmin(t *testing.T) {
	users := &mockProfileUsers{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "a@example.com", Active: true},
	}}
	svc := NewProfileService(users, &mockLearners{}, validator.New(), zap.NewNop())

	_, err := svc.SelectRole(context.Background(), "u1", models.SelectRoleRequest{Role: models.RoleAdmin})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceSelectRoleUnknownAccount(t *testing.T) {
	users := &mockProfileUsers{users: map[string]*models.User{}}
	svc := NewProfileService(users, &mockLearners{}, validator.New(), zap.NewNop())

	_, err := svc.SelectRole(context.Background(), "ghost", models.SelectRoleRequest{Role: models.RoleLearner})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceMeElevatesAdmin(t *testing.T) {
	role := models.RoleLearner
	users := &mockProfileUsers{
		users:  map[string]*models.User{"u1": {ID: "u1", Email: "a@example.com", Role: &role, Active: true}},
		admins: map[string]bool{"u1": true},
	}
	svc := NewProfileService(users, &mockLearners{}, validator.New(), zap.NewNop())

	user, err := svc.Me(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, user.Role)
	assert.Equal(t, models.RoleAdmin, *user.Role)
}
