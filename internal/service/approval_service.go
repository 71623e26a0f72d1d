package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/internal/revision"
	"github.com/eduhubvn/moderation-api/internal/store"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
)

type decisionBackend interface {
	Approve(ctx context.Context, entity models.EntityType, id string) error
	Reject(ctx context.Context, entity models.EntityType, id, adminNote string) error
	RefreshSubmitterProfile(ctx context.Context, submitterID string) error
}

type queueRefresher interface {
	Refresh(ctx context.Context, entity models.EntityType) (store.Snapshot, error)
}

type auditRecorder interface {
	RecordDecision(ctx context.Context, audit *models.DecisionAudit) error
}

// ApprovalService drives revision requests through the strict
// Pending -> Approved / Pending -> Rejected lifecycle. The upstream backend
// is authoritative: the local queue is never patched optimistically, only
// replaced by a post-decision refresh.
type ApprovalService struct {
	backend decisionBackend
	queue   queueRefresher
	store   *store.Store
	audit   auditRecorder
	metrics *MetricsService
	logger  *zap.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewApprovalService constructs the state machine.
func NewApprovalService(backend decisionBackend, queue queueRefresher, st *store.Store, audit auditRecorder, metrics *MetricsService, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{
		backend:  backend,
		queue:    queue,
		store:    st,
		audit:    audit,
		metrics:  metrics,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Approve finalises a pending request as approved.
func (s *ApprovalService) Approve(ctx context.Context, entity models.EntityType, id, adminID string) error {
	return s.decide(ctx, entity, id, adminID, models.RevisionStatusApproved, "")
}

// Reject finalises a pending request as rejected. An empty or
// whitespace-only note fails fast with MissingRejectionReason before any
// backend call; a valid note travels verbatim.
func (s *ApprovalService) Reject(ctx context.Context, entity models.EntityType, id, note, adminID string) error {
	if strings.TrimSpace(note) == "" {
		return appErrors.ErrMissingRejectionReason
	}
	return s.decide(ctx, entity, id, adminID, models.RevisionStatusRejected, note)
}

func (s *ApprovalService) decide(ctx context.Context, entity models.EntityType, id, adminID string, decision models.RevisionStatus, note string) error {
	request, ok := s.store.Find(entity, id)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no pending %s request %s", entity, id))
	}
	if request.Invalid {
		return appErrors.Clone(appErrors.ErrNormalization, "request payload is invalid; it cannot be decided")
	}
	if request.Status != models.RevisionStatusPending {
		return appErrors.Clone(appErrors.ErrConflict, "request has already been reviewed")
	}

	key := string(entity) + "/" + id
	if !s.acquire(key) {
		return appErrors.ErrAlreadyInFlight
	}
	defer s.release(key)

	var err error
	if decision == models.RevisionStatusApproved {
		err = s.backend.Approve(ctx, entity, id)
	} else {
		err = s.backend.Reject(ctx, entity, id, note)
	}
	if err != nil {
		// The request stays Pending locally; the user may retry.
		return err
	}

	s.metrics.RecordDecision(entity, decision)
	s.emitAudit(ctx, &request, adminID, decision, note)

	// The decision already landed upstream. Completing the refresh and the
	// profile refetch must survive the initiating client disconnecting.
	detached := context.WithoutCancel(ctx)

	if _, err := s.queue.Refresh(detached, entity); err != nil {
		s.logger.Warn("post-decision refresh failed, queue stays stale until next sync",
			zap.String("entity", string(entity)),
			zap.String("id", id),
			zap.Error(err),
		)
	}

	if cfg, ok := revision.Config(entity); ok && cfg.RefreshesSubmitterProfile {
		if err := s.backend.RefreshSubmitterProfile(detached, request.Submitter.ID); err != nil {
			s.logger.Warn("submitter profile refresh failed",
				zap.String("submitter", request.Submitter.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// acquire marks a decision in flight for the request. A second concurrent
// submission is rejected locally and never reaches the network.
func (s *ApprovalService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return false
	}
	s.inFlight[key] = struct{}{}
	return true
}

func (s *ApprovalService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, key)
}

func (s *ApprovalService) emitAudit(ctx context.Context, request *models.RevisionRequest, adminID string, decision models.RevisionStatus, note string) {
	if s.audit == nil {
		return
	}
	audit := &models.DecisionAudit{
		AdminID:    adminID,
		EntityType: request.EntityType,
		RequestID:  request.ID,
		Kind:       request.Kind,
		Decision:   decision,
	}
	if note != "" {
		audit.AdminNote = &note
	}
	if request.Original != nil {
		audit.Original, _ = json.Marshal(request.Original)
	}
	if request.Proposed != nil {
		audit.Proposed, _ = json.Marshal(request.Proposed)
	}
	if err := s.audit.RecordDecision(ctx, audit); err != nil {
		s.logger.Warn("failed to persist decision audit", zap.Error(err))
	}
}
