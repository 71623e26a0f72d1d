package models

import "time"

// DecisionAudit records one administrator decision for the local audit trail.
type DecisionAudit struct {
	ID         string         `db:"id" json:"id"`
	AdminID    string         `db:"admin_id" json:"adminId"`
	EntityType EntityType     `db:"entity_type" json:"entityType"`
	RequestID  string         `db:"request_id" json:"requestId"`
	Kind       RevisionKind   `db:"kind" json:"kind"`
	Decision   RevisionStatus `db:"decision" json:"decision"`
	AdminNote  *string        `db:"admin_note" json:"adminNote,omitempty"`
	Original   []byte         `db:"original" json:"original,omitempty"`
	Proposed   []byte         `db:"proposed" json:"proposed,omitempty"`
	DecidedAt  time.Time      `db:"decided_at" json:"decidedAt"`
}

// DecisionAuditFilter constrains audit listing queries.
type DecisionAuditFilter struct {
	EntityType EntityType
	AdminID    string
	Decision   RevisionStatus
	Limit      int
	Offset     int
}
