package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hyperskill-app/hyperskill-api/internal/models"
	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
	"github.com/hyperskill-app/hyperskill-api/pkg/export"
)

const (
	verificationStatsCacheKey     = "verification:stats"
	verificationStatsCachePattern = "verification:stats*"

	defaultSortBy    = "created_at"
	defaultSortOrder = "desc"
)

type teacherAdminRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherRecord, error)
	CountByStatus(ctx context.Context) (models.VerificationStats, error)
	FindByID(ctx context.Context, userID string) (*models.TeacherRecord, error)
	UpdateStatus(ctx context.Context, userID string, status models.VerificationStatus) error
	ListAll(ctx context.Context) ([]models.TeacherRecord, error)
}

type decisionNotifier interface {
	NotifyDecision(n DecisionNotification)
}

// VerificationConfig tunes listing page sizes and stats caching.
type VerificationConfig struct {
	PageSize      int
	MaxPageSize   int
	StatsCacheTTL time.Duration
}

// VerificationService implements the admin review workflow over teacher
// applications: cursor-paginated listing, global stats, decisions and
// roster exports.
type VerificationService struct {
	repo      teacherAdminRepository
	cache     *CacheService
	notifier  decisionNotifier
	validator *validator.Validate
	logger    *zap.Logger
	config    VerificationConfig
}

// NewVerificationService constructs a VerificationService.
func NewVerificationService(repo teacherAdminRepository, cache *CacheService, notifier decisionNotifier, validate *validator.Validate, logger *zap.Logger, config VerificationConfig) *VerificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.PageSize <= 0 {
		config.PageSize = 10
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = 50
	}
	return &VerificationService{
		repo:      repo,
		cache:     cache,
		notifier:  notifier,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// List returns one page of applications. Filtering, search and sorting
// apply to the whole record set; the cursor resumes strictly after the
// previous page and is rejected when its filter fingerprint differs from
// the current query.
func (s *VerificationService) List(ctx context.Context, query models.VerificationListQuery) (*models.TeacherPage, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid listing parameters")
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	sortOrder := strings.ToLower(query.SortOrder)
	if sortOrder == "" {
		sortOrder = defaultSortOrder
	}

	size := query.PageSize
	if size <= 0 {
		size = s.config.PageSize
	}
	if size > s.config.MaxPageSize {
		size = s.config.MaxPageSize
	}

	// "all" and an omitted status are the same listing, so they share a
	// fingerprint and cursors stay valid across the two spellings.
	statusFilter := query.Status
	if statusFilter == "all" {
		statusFilter = ""
	}

	filter := models.TeacherFilter{
		Search:    query.Search,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		PageSize:  size,
	}
	if statusFilter != "" {
		status := models.VerificationStatus(statusFilter)
		filter.Status = &status
	}

	fingerprint := filterFingerprint(statusFilter, query.Search, sortBy, sortOrder)

	if query.Cursor != "" {
		token, err := decodeCursor(query.Cursor)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed cursor")
		}
		if token.Fingerprint != fingerprint {
			return nil, appErrors.Clone(appErrors.ErrStaleCursor, "cursor does not match the requested filters")
		}
		filter.Cursor = &models.TeacherCursor{SortValue: token.SortValue, LastID: token.LastID}
	}

	teachers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	if teachers == nil {
		teachers = []models.TeacherRecord{}
	}

	page := models.PageInfo{
		PageSize: size,
		HasMore:  len(teachers) == size,
	}
	if page.HasMore {
		last := &teachers[len(teachers)-1]
		page.NextCursor = encodeCursor(last, sortBy, fingerprint)
	}

	return &models.TeacherPage{Teachers: teachers, Page: page}, nil
}

// Stats returns global per-status counts. Counts cover the whole record
// set regardless of any listing filter; served from cache when fresh.
func (s *VerificationService) Stats(ctx context.Context) (*models.VerificationStats, error) {
	if s.cache != nil {
		var cached models.VerificationStats
		if err := s.cache.GetJSON(ctx, verificationStatsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute stats")
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, verificationStatsCacheKey, stats, s.config.StatsCacheTTL)
	}

	return &stats, nil
}

// Get loads a single application.
func (s *VerificationService) Get(ctx context.Context, teacherID string) (*models.TeacherRecord, error) {
	record, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return record, nil
}

// Decide approves or rejects an application. Decisions may revisit
// already decided records; each decision queues a notification and
// invalidates the cached stats.
func (s *VerificationService) Decide(ctx context.Context, teacherID string, req models.VerificationDecisionRequest) (*models.TeacherRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	if err := s.repo.UpdateStatus(ctx, teacherID, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update verification status")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, verificationStatsCachePattern)
	}

	record, err := s.repo.FindByID(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload application")
	}

	if s.notifier != nil {
		s.notifier.NotifyDecision(DecisionNotification{
			TeacherID: record.UserID,
			Email:     record.Email,
			Name:      record.Name,
			Status:    record.VerificationStatus,
		})
	}

	s.logger.Info("verification decision recorded",
		zap.String("teacher_id", teacherID),
		zap.String("status", string(req.Status)))

	return record, nil
}

// Export renders the full roster as CSV or PDF.
func (s *VerificationService) Export(ctx context.Context, format string) ([]byte, string, string, error) {
	teachers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}

	data := export.Dataset{
		Headers: []string{"Name", "Email", "Qualification", "Teaching Field", "Subjects", "Status", "Submitted"},
		Rows:    make([][]string, 0, len(teachers)),
	}
	for _, t := range teachers {
		data.Rows = append(data.Rows, []string{
			t.Name,
			t.Email,
			t.Qualification,
			t.TeachingField,
			strings.Join(t.Subjects, ", "),
			string(t.VerificationStatus),
			t.CreatedAt.UTC().Format("2006-01-02"),
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch strings.ToLower(format) {
	case "csv", "":
		payload, err := export.NewCSVExporter().Render(data)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", fmt.Sprintf("teacher-roster-%s.csv", stamp), nil
	case "pdf":
		payload, err := export.NewPDFExporter().Render(data, "Teacher Roster")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", fmt.Sprintf("teacher-roster-%s.pdf", stamp), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+format)
	}
}
