package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/internal/revision"
	"github.com/eduhubvn/moderation-api/internal/store"
	"github.com/eduhubvn/moderation-api/internal/upstream"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
)

type pendingFetcher interface {
	GetPending(ctx context.Context, entity models.EntityType) ([]upstream.PendingItem, error)
}

type snapshotMirror interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// QueueService owns the pending-queue slices. It is the only component that
// writes to the store; views and the approval service read or subscribe.
type QueueService struct {
	upstream pendingFetcher
	store    *store.Store
	mirror   snapshotMirror
	metrics  *MetricsService
	logger   *zap.Logger
}

// QueueServiceOption configures the service.
type QueueServiceOption func(*QueueService)

// WithSnapshotMirror mirrors published snapshots into Redis for inspection.
func WithSnapshotMirror(mirror snapshotMirror) QueueServiceOption {
	return func(s *QueueService) {
		s.mirror = mirror
	}
}

// NewQueueService constructs the synchronizer.
func NewQueueService(fetcher pendingFetcher, st *store.Store, metrics *MetricsService, logger *zap.Logger, opts ...QueueServiceOption) *QueueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &QueueService{
		upstream: fetcher,
		store:    st,
		metrics:  metrics,
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Refresh fetches the full authoritative pending list and replaces the
// store slice for the entity type. On fetch failure the previously published
// snapshot stays in place: stale-but-valid beats empty.
func (s *QueueService) Refresh(ctx context.Context, entity models.EntityType) (store.Snapshot, error) {
	if !entity.Valid() {
		return store.Snapshot{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown entity type %q", entity))
	}

	start := time.Now()
	items, err := s.upstream.GetPending(ctx, entity)
	if err != nil {
		prior, _ := s.store.Get(entity)
		s.logger.Warn("pending-queue refresh failed, keeping prior snapshot",
			zap.String("entity", string(entity)),
			zap.Error(err),
		)
		return prior, err
	}

	queue := make([]models.RevisionRequest, 0, len(items))
	for _, item := range items {
		req, err := revision.Normalize(entity, item.Kind, item.Payload)
		if err != nil {
			s.metrics.RecordNormalizationFailure(entity)
			placeholder, ok := invalidPlaceholder(entity, item)
			if !ok {
				s.logger.Error("dropping unidentifiable upstream item",
					zap.String("entity", string(entity)),
					zap.Error(err),
				)
				continue
			}
			s.logger.Error("upstream payload failed normalization",
				zap.String("entity", string(entity)),
				zap.String("id", placeholder.ID),
				zap.Error(err),
			)
			queue = append(queue, placeholder)
			continue
		}
		queue = append(queue, *req)
	}

	snapshot := store.Snapshot{Items: queue, SyncedAt: time.Now().UTC()}
	s.store.Publish(entity, snapshot)
	s.metrics.SetQueueDepth(entity, len(queue))
	s.metrics.ObserveRefresh(entity, time.Since(start))

	if s.mirror != nil {
		if err := s.mirror.Set(ctx, "moderation:queue:"+string(entity), snapshot, 0); err != nil {
			s.logger.Warn("queue snapshot mirror failed", zap.String("entity", string(entity)), zap.Error(err))
		}
	}

	return snapshot, nil
}

// Current returns the published snapshot for the entity type, refreshing
// first when no snapshot has been published yet (initial mount).
func (s *QueueService) Current(ctx context.Context, entity models.EntityType) (store.Snapshot, error) {
	if snapshot, ok := s.store.Get(entity); ok {
		return snapshot, nil
	}
	return s.Refresh(ctx, entity)
}

// invalidPlaceholder keeps a request whose payload failed normalization
// visible in the queue, so consoles can render an explicit invalid-data state
// instead of a silently shorter list.
func invalidPlaceholder(entity models.EntityType, item upstream.PendingItem) (models.RevisionRequest, bool) {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(item.Payload, &probe); err != nil || probe.ID == "" {
		return models.RevisionRequest{}, false
	}
	return models.RevisionRequest{
		ID:         probe.ID,
		EntityType: entity,
		Kind:       item.Kind,
		Status:     models.RevisionStatusPending,
		Invalid:    true,
	}, true
}
