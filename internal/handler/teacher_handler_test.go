package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	"github.com/hyperskill-app/hyperskill-api/internal/service"
)

type fakeTeacherRepo struct {
	records map[string]*models.TeacherRecord
}

func (f *fakeTeacherRepo) Create(ctx context.Context, teacher *models.TeacherRecord) (bool, error) {
	if _, ok := f.records[teacher.UserID]; ok {
		return false, nil
	}
	cp := *teacher
	f.records[teacher.UserID] = &cp
	return true, nil
}

func (f *fakeTeacherRepo) FindByID(ctx context.Context, userID string) (*models.TeacherRecord, error) {
	if r, ok := f.records[userID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeTeacherRepo) ListVerifiedByField(ctx context.Context, field string) ([]models.TeacherRecord, error) {
	var out []models.TeacherRecord
	for _, r := range f.records {
		if r.VerificationStatus == models.VerificationVerified && r.TeachingField == field {
			out = append(out, *r)
		}
	}
	return out, nil
}

func newTeacherFixture() *TeacherHandler {
	repo := &fakeTeacherRepo{records: map[string]*models.TeacherRecord{
		"t-verified": {
			UserID:             "t-verified",
			Email:              "vera@example.com",
			Name:               "Vera",
			Qualification:      "MSc",
			TeachingField:      "Mathematics",
			VerificationStatus: models.VerificationVerified,
		},
		"t-pending": {
			UserID:             "t-pending",
			Email:              "pat@example.com",
			Name:               "Pat",
			Qualification:      "BSc",
			TeachingField:      "Mathematics",
			VerificationStatus: models.VerificationPending,
		},
	}}
	svc := service.NewTeacherService(repo, nil, validator.New(), zap.NewNop())
	return NewTeacherHandler(svc)
}

func getTeacherDetail(handler *TeacherHandler, id string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/teachers/"+id, nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: id}}
	handler.Detail(c)
	return w
}

func TestTeacherHandlerDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTeacherFixture()

	w := getTeacherDetail(handler, "t-verified")
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.TeacherRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Vera", envelope.Data.Name)
	assert.Equal(t, models.VerificationVerified, envelope.Data.VerificationStatus)
}

func TestTeacherHandlerDetailHidesUnverified(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTeacherFixture()

	assert.Equal(t, http.StatusNotFound, getTeacherDetail(handler, "t-pending").Code)
	assert.Equal(t, http.StatusNotFound, getTeacherDetail(handler, "ghost").Code)
}
