package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/eduhubvn/moderation-api/internal/models"
)

// AuditRepository persists the local trail of administrator decisions.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new decision audit row.
func (r *AuditRepository) Create(ctx context.Context, audit *models.DecisionAudit) error {
	if audit.ID == "" {
		audit.ID = uuid.NewString()
	}
	if audit.DecidedAt.IsZero() {
		audit.DecidedAt = time.Now().UTC()
	}
	const query = `INSERT INTO decision_audits
	(id, admin_id, entity_type, request_id, kind, decision, admin_note, original, proposed, decided_at)
	VALUES (:id, :admin_id, :entity_type, :request_id, :kind, :decision, :admin_note, :original, :proposed, :decided_at)`
	if _, err := r.db.NamedExecContext(ctx, query, audit); err != nil {
		return fmt.Errorf("create decision audit: %w", err)
	}
	return nil
}

// List returns audits matching the filter (latest decisions first).
func (r *AuditRepository) List(ctx context.Context, filter models.DecisionAuditFilter) ([]models.DecisionAudit, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 3)
	builder.WriteString(`SELECT id, admin_id, entity_type, request_id, kind, decision, admin_note, original, proposed, decided_at
	FROM decision_audits`)

	conditions := make([]string, 0, 3)
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", len(args)))
	}
	if filter.AdminID != "" {
		args = append(args, filter.AdminID)
		conditions = append(conditions, fmt.Sprintf("admin_id = $%d", len(args)))
	}
	if filter.Decision != "" {
		args = append(args, filter.Decision)
		conditions = append(conditions, fmt.Sprintf("decision = $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY decided_at DESC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var audits []models.DecisionAudit
	if err := r.db.SelectContext(ctx, &audits, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list decision audits: %w", err)
	}
	return audits, nil
}
