package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/internal/repository"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
)

const auditCachePrefix = "moderation:audit:"

// AuditService owns the local decision trail: every finalised decision is
// recorded here, and listings are served with a short-lived cache in front
// of Postgres.
type AuditService struct {
	repo     *repository.AuditRepository
	cache    *repository.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAuditService constructs the service.
func NewAuditService(repo *repository.AuditRepository, cache *repository.CacheRepository, cacheTTL time.Duration, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// RecordDecision persists a decision audit and invalidates cached listings.
func (s *AuditService) RecordDecision(ctx context.Context, audit *models.DecisionAudit) error {
	if err := s.repo.Create(ctx, audit); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, auditCachePrefix+"*"); err != nil {
			s.logger.Warn("audit cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}

// List returns decision audits matching the filter, latest first.
func (s *AuditService) List(ctx context.Context, filter models.DecisionAuditFilter) ([]models.DecisionAudit, error) {
	key := auditListCacheKey(filter)

	if s.cache != nil {
		var cached []models.DecisionAudit
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if err != appErrors.ErrCacheMiss {
			s.logger.Warn("audit cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	audits, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, audits, s.cacheTTL); err != nil {
			s.logger.Warn("audit cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return audits, nil
}

func auditListCacheKey(filter models.DecisionAuditFilter) string {
	return fmt.Sprintf("%slist:%s:%s:%s:%d:%d",
		auditCachePrefix, filter.EntityType, filter.AdminID, filter.Decision, filter.Limit, filter.Offset)
}
