package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
)

type mockAdminRepo struct {
	records    []models.TeacherRecord
	lastFilter models.TeacherFilter
	listErr    error
	stats      models.VerificationStats
	statsCalls int
	statuses   map[string]models.VerificationStatus
}

func (m *mockAdminRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherRecord, error) {
	m.lastFilter = filter
	if m.listErr != nil {
		return nil, m.listErr
	}

	matched := make([]models.TeacherRecord, 0, len(m.records))
	for _, r := range m.records {
		if status, ok := m.statuses[r.UserID]; ok {
			r.VerificationStatus = status
		}
		if filter.Status != nil && r.VerificationStatus != *filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Cursor != nil {
			// created_at desc keyset, mirrors the SQL predicate
			if r.SortValue(filter.SortBy) >= filter.Cursor.SortValue {
				continue
			}
		}
		matched = append(matched, r)
	}
	if len(matched) > filter.PageSize {
		matched = matched[:filter.PageSize]
	}
	return matched, nil
}

func (m *mockAdminRepo) CountByStatus(ctx context.Context) (models.VerificationStats, error) {
	m.statsCalls++
	return m.stats, nil
}

func (m *mockAdminRepo) FindByID(ctx context.Context, userID string) (*models.TeacherRecord, error) {
	for i := range m.records {
		if m.records[i].UserID == userID {
			cp := m.records[i]
			if status, ok := m.statuses[userID]; ok {
				cp.VerificationStatus = status
			}
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAdminRepo) UpdateStatus(ctx context.Context, userID string, status models.VerificationStatus) error {
	for i := range m.records {
		if m.records[i].UserID == userID {
			if m.statuses == nil {
				m.statuses = make(map[string]models.VerificationStatus)
			}
			m.statuses[userID] = status
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockAdminRepo) ListAll(ctx context.Context) ([]models.TeacherRecord, error) {
	return m.records, nil
}

type mockNotifier struct {
	sent []DecisionNotification
}

func (m *mockNotifier) NotifyDecision(n DecisionNotification) {
	m.sent = append(m.sent, n)
}

func seedRecords(n int) []models.TeacherRecord {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	records := make([]models.TeacherRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.TeacherRecord{
			UserID:             fmt.Sprintf("t%02d", i),
			Email:              fmt.Sprintf("t%02d@example.com", i),
			Name:               fmt.Sprintf("Teacher %02d", i),
			Qualification:      "MSc",
			TeachingField:      "Mathematics",
			VerificationStatus: models.VerificationPending,
			CreatedAt:          base.Add(-time.Duration(i) * time.Hour),
		})
	}
	return records
}

func newVerificationService(repo *mockAdminRepo, notifier *mockNotifier) *VerificationService {
	var n decisionNotifier
	if notifier != nil {
		n = notifier
	}
	return NewVerificationService(repo, nil, n, validator.New(), zap.NewNop(), VerificationConfig{
		PageSize:    10,
		MaxPageSize: 50,
	})
}

func TestVerificationServiceListPagesThrough(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(15)}
	svc := newVerificationService(repo, nil)

	first, err := svc.List(context.Background(), models.VerificationListQuery{})
	require.NoError(t, err)
	assert.Len(t, first.Teachers, 10)
	assert.True(t, first.Page.HasMore)
	require.NotEmpty(t, first.Page.NextCursor)
	assert.Nil(t, repo.lastFilter.Cursor)

	second, err := svc.List(context.Background(), models.VerificationListQuery{Cursor: first.Page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, second.Teachers, 5)
	assert.False(t, second.Page.HasMore)
	assert.Empty(t, second.Page.NextCursor)
	require.NotNil(t, repo.lastFilter.Cursor)
	assert.Equal(t, "t09", repo.lastFilter.Cursor.LastID)

	// no overlap between pages
	seen := make(map[string]bool)
	for _, r := range append(first.Teachers, second.Teachers...) {
		assert.False(t, seen[r.UserID])
		seen[r.UserID] = true
	}
	assert.Len(t, seen, 15)
}

func TestVerificationServiceListRejectsStaleCursor(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(15)}
	svc := newVerificationService(repo, nil)

	first, err := svc.List(context.Background(), models.VerificationListQuery{Status: "pending"})
	require.NoError(t, err)
	require.NotEmpty(t, first.Page.NextCursor)

	_, err = svc.List(context.Background(), models.VerificationListQuery{
		Status: "verified",
		Cursor: first.Page.NextCursor,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStaleCursor.Code, appErrors.FromError(err).Code)

	// same filters again, the cursor stays valid
	_, err = svc.List(context.Background(), models.VerificationListQuery{
		Status: "pending",
		Cursor: first.Page.NextCursor,
	})
	assert.NoError(t, err)
}

func TestVerificationServiceListStatusAll(t *testing.T) {
	records := seedRecords(3)
	records[1].VerificationStatus = models.VerificationVerified
	records[2].VerificationStatus = models.VerificationRejected
	repo := &mockAdminRepo{records: records}
	svc := newVerificationService(repo, nil)

	page, err := svc.List(context.Background(), models.VerificationListQuery{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, page.Teachers, 3)
	assert.Nil(t, repo.lastFilter.Status)

	// "all" and an omitted status are the same listing, so cursors
	// minted under one spelling resume under the other
	repo.records = seedRecords(15)
	first, err := svc.List(context.Background(), models.VerificationListQuery{Status: "all"})
	require.NoError(t, err)
	require.NotEmpty(t, first.Page.NextCursor)

	second, err := svc.List(context.Background(), models.VerificationListQuery{Cursor: first.Page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, second.Teachers, 5)
}

func TestVerificationServiceListRejectsMalformedCursor(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(3)}
	svc := newVerificationService(repo, nil)

	_, err := svc.List(context.Background(), models.VerificationListQuery{Cursor: "not-a-cursor"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVerificationServiceListClampsPageSize(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(5)}
	svc := newVerificationService(repo, nil)

	_, err := svc.List(context.Background(), models.VerificationListQuery{PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastFilter.PageSize)
}

func TestVerificationServiceListValidatesParameters(t *testing.T) {
	repo := &mockAdminRepo{}
	svc := newVerificationService(repo, nil)

	_, err := svc.List(context.Background(), models.VerificationListQuery{Status: "bogus"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.List(context.Background(), models.VerificationListQuery{SortBy: "password_hash"})
	require.Error(t, err)
}

func TestVerificationServiceStats(t *testing.T) {
	repo := &mockAdminRepo{stats: models.VerificationStats{Total: 10, Pending: 3, Verified: 5, Rejected: 2}}
	svc := newVerificationService(repo, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.Total, stats.Pending+stats.Verified+stats.Rejected)
	assert.Equal(t, 1, repo.statsCalls)
}

func TestVerificationServiceDecide(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(2)}
	notifier := &mockNotifier{}
	svc := newVerificationService(repo, notifier)

	record, err := svc.Decide(context.Background(), "t00", models.VerificationDecisionRequest{Status: models.VerificationVerified})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, record.VerificationStatus)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "t00", notifier.sent[0].TeacherID)
	assert.Equal(t, models.VerificationVerified, notifier.sent[0].Status)

	// already decided records can be decided again
	record, err = svc.Decide(context.Background(), "t00", models.VerificationDecisionRequest{Status: models.VerificationRejected})
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, record.VerificationStatus)
}

func TestVerificationServiceApprovedRecordAppearsInVerifiedListing(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(4)}
	svc := newVerificationService(repo, nil)

	_, err := svc.Decide(context.Background(), "t02", models.VerificationDecisionRequest{Status: models.VerificationVerified})
	require.NoError(t, err)

	verified, err := svc.List(context.Background(), models.VerificationListQuery{Status: "verified"})
	require.NoError(t, err)
	require.Len(t, verified.Teachers, 1)
	assert.Equal(t, "t02", verified.Teachers[0].UserID)

	pending, err := svc.List(context.Background(), models.VerificationListQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, pending.Teachers, 3)
	for _, r := range pending.Teachers {
		assert.NotEqual(t, "t02", r.UserID)
	}
}

func TestVerificationServiceDecideNotFound(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(1)}
	svc := newVerificationService(repo, nil)

	_, err := svc.Decide(context.Background(), "missing", models.VerificationDecisionRequest{Status: models.VerificationVerified})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestVerificationServiceDecideValidatesStatus(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(1)}
	svc := newVerificationService(repo, nil)

	_, err := svc.Decide(context.Background(), "t00", models.VerificationDecisionRequest{Status: "pending"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestVerificationServiceExportCSV(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(2)}
	svc := newVerificationService(repo, nil)

	payload, contentType, filename, err := svc.Export(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, filename, ".csv")
	assert.Contains(t, string(payload), "Teacher 00")
	assert.Contains(t, string(payload), "Qualification")
}

func TestVerificationServiceExportUnknownFormat(t *testing.T) {
	repo := &mockAdminRepo{records: seedRecords(1)}
	svc := newVerificationService(repo, nil)

	_, _, _, err := svc.Export(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
