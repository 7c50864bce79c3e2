package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/hyperskill-app/hyperskill-api/pkg/errors"
)

// CacheStore is the subset of the cache repository used by services.
type CacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService layers metrics and failure tolerance over the raw cache
// store. Cache trouble degrades to misses, it never fails a request.
type CacheService struct {
	store   CacheStore
	metrics *MetricsService
	logger  *zap.Logger
	enabled bool
}

func NewCacheService(store CacheStore, metrics *MetricsService, logger *zap.Logger, enabled bool) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		store:   store,
		metrics: metrics,
		logger:  logger,
		enabled: enabled && store != nil,
	}
}

// GetJSON loads key into dest. Returns ErrCacheMiss when absent or disabled.
func (s *CacheService) GetJSON(ctx context.Context, key string, dest interface{}) error {
	if !s.enabled {
		return appErrors.ErrCacheMiss
	}

	start := time.Now()
	err := s.store.Get(ctx, key, dest)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false, time.Since(start))
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return appErrors.ErrCacheMiss
	}
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(true, time.Since(start))
	}
	return nil
}

// SetJSON stores value under key with the given TTL. Failures are logged,
// not surfaced.
func (s *CacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !s.enabled {
		return
	}
	if err := s.store.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every key matching pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) {
	if !s.enabled {
		return
	}
	if err := s.store.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
