package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eduhubvn/moderation-api/internal/models"
)

// ChangeEvent is one typed message on the moderation events channel. The
// main EduHub backend publishes these when a submission lands or changes.
type ChangeEvent struct {
	Type string `json:"type"`
}

// eventRoutes maps inbound event types 1:1 onto the entity queue to refresh.
// Owning this table is the listener's whole job; the transport lives outside.
var eventRoutes = map[string]models.EntityType{
	"DEGREE_SUBMITTED":           models.EntityDegree,
	"DEGREE_UPDATED":             models.EntityDegree,
	"CERTIFICATION_SUBMITTED":    models.EntityCertification,
	"CERTIFICATION_UPDATED":      models.EntityCertification,
	"OWNED_COURSE_SUBMITTED":     models.EntityOwnedCourse,
	"OWNED_COURSE_UPDATED":       models.EntityOwnedCourse,
	"ATTENDED_COURSE_SUBMITTED":  models.EntityAttendedCourse,
	"ATTENDED_COURSE_UPDATED":    models.EntityAttendedCourse,
	"RESEARCH_PROJECT_SUBMITTED": models.EntityResearchProject,
	"RESEARCH_PROJECT_UPDATED":   models.EntityResearchProject,
	"INSTITUTION_REGISTERED":     models.EntityInstitution,
	"INSTITUTION_UPDATED":        models.EntityInstitution,
	"PARTNER_REGISTERED":         models.EntityPartner,
	"PARTNER_UPDATED":            models.EntityPartner,
}

// NotificationListener subscribes to the Redis events channel and turns
// change notifications into queue refreshes.
type NotificationListener struct {
	client         *redis.Client
	queue          queueRefresher
	logger         *zap.Logger
	channel        string
	refreshTimeout time.Duration
}

// NewNotificationListener constructs the listener. Each event-driven refresh
// is bounded by refreshTimeout so one slow upstream call never stalls the
// event loop indefinitely.
func NewNotificationListener(client *redis.Client, queue queueRefresher, channel string, refreshTimeout time.Duration, logger *zap.Logger) *NotificationListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	if refreshTimeout <= 0 {
		refreshTimeout = 15 * time.Second
	}
	return &NotificationListener{
		client:         client,
		queue:          queue,
		logger:         logger,
		channel:        channel,
		refreshTimeout: refreshTimeout,
	}
}

// Run blocks consuming events until the context is cancelled.
func (l *NotificationListener) Run(ctx context.Context) error {
	sub := l.client.Subscribe(ctx, l.channel)
	defer sub.Close()

	ch := sub.Channel()
	l.logger.Info("change-notification listener started", zap.String("channel", l.channel))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			l.Handle(ctx, msg.Payload)
		}
	}
}

// Handle routes a single raw event payload to the matching queue refresh.
func (l *NotificationListener) Handle(ctx context.Context, payload string) {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		l.logger.Warn("undecodable change event", zap.String("payload", payload), zap.Error(err))
		return
	}
	entity, ok := eventRoutes[event.Type]
	if !ok {
		l.logger.Warn("unrouted change event", zap.String("type", event.Type))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, l.refreshTimeout)
	defer cancel()
	if _, err := l.queue.Refresh(ctx, entity); err != nil {
		l.logger.Warn("event-driven refresh failed",
			zap.String("type", event.Type),
			zap.String("entity", string(entity)),
			zap.Error(err),
		)
	}
}
