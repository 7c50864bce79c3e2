package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	"github.com/hyperskill-app/hyperskill-api/internal/service"
	"github.com/hyperskill-app/hyperskill-api/pkg/response"
)

type fakeVerificationRepo struct {
	records []models.TeacherRecord
}

func (f *fakeVerificationRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherRecord, error) {
	out := f.records
	if filter.Cursor != nil {
		out = nil
	}
	if len(out) > filter.PageSize {
		out = out[:filter.PageSize]
	}
	return out, nil
}

func (f *fakeVerificationRepo) CountByStatus(ctx context.Context) (models.VerificationStats, error) {
	return models.VerificationStats{Total: len(f.records), Pending: len(f.records)}, nil
}

func (f *fakeVerificationRepo) FindByID(ctx context.Context, userID string) (*models.TeacherRecord, error) {
	for i := range f.records {
		if f.records[i].UserID == userID {
			cp := f.records[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeVerificationRepo) UpdateStatus(ctx context.Context, userID string, status models.VerificationStatus) error {
	for i := range f.records {
		if f.records[i].UserID == userID {
			f.records[i].VerificationStatus = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeVerificationRepo) ListAll(ctx context.Context) ([]models.TeacherRecord, error) {
	return f.records, nil
}

func newAdminFixture(records int) *AdminHandler {
	repo := &fakeVerificationRepo{}
	for i := 0; i < records; i++ {
		repo.records = append(repo.records, models.TeacherRecord{
			UserID:             fmt.Sprintf("t%02d", i),
			Email:              fmt.Sprintf("t%02d@example.com", i),
			Name:               fmt.Sprintf("Teacher %02d", i),
			Qualification:      "MSc",
			TeachingField:      "Mathematics",
			VerificationStatus: models.VerificationPending,
			CreatedAt:          time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}
	svc := service.NewVerificationService(repo, nil, nil, validator.New(), zap.NewNop(), service.VerificationConfig{PageSize: 10, MaxPageSize: 50})
	return NewAdminHandler(svc)
}

func TestAdminHandlerListTeachers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminFixture(12)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/teachers?status=pending", nil)
	c.Request = req

	handler.ListTeachers(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 10, envelope.Pagination.PageSize)
	assert.True(t, envelope.Pagination.HasMore)
	assert.NotEmpty(t, envelope.Pagination.NextCursor)
}

func TestAdminHandlerListTeachersStatusAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminFixture(3)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/teachers?status=all", nil)
	c.Request = req

	handler.ListTeachers(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.TeacherRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 3)
}

func TestAdminHandlerListTeachersStaleCursor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminFixture(12)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/teachers?status=pending", nil)
	c.Request = req
	handler.ListTeachers(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	cursor := envelope.Pagination.NextCursor
	require.NotEmpty(t, cursor)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ = http.NewRequest(http.MethodGet, "/admin/teachers?status=verified&cursor="+cursor, nil)
	c.Request = req
	handler.ListTeachers(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandlerStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminFixture(4)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/teachers/stats", nil)
	c.Request = req

	handler.Stats(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.VerificationStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 4, envelope.Data.Total)
}

func TestAdminHandlerDecide(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminFixture(2)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewBufferString(`{"status":"verified"}`)
	req, _ := http.NewRequest(http.MethodPatch, "/admin/teachers/t00/status", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "t00"}}

	handler.Decide(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.TeacherRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.VerificationVerified, envelope.Data.VerificationStatus)
}

func TestAdminHandlerDecideNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminFixture(1)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := bytes.NewBufferString(`{"status":"rejected"}`)
	req, _ := http.NewRequest(http.MethodPatch, "/admin/teachers/ghost/status", body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.Decide(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAdminFixture(2)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/admin/teachers/export?format=csv", nil)
	c.Request = req

	handler.Export(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "Teacher 00")
}
