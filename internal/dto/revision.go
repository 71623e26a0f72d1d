package dto

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/internal/revision"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
)

var validate = validator.New()

// RejectRevisionRequest is the body of a reject decision. The note travels to
// the upstream backend exactly as typed.
type RejectRevisionRequest struct {
	AdminNote string `json:"adminNote" validate:"required"`
}

// Validate checks structural constraints only; whitespace-only notes are a
// domain rule enforced by the approval service.
func (r *RejectRevisionRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "adminNote is required")
	}
	return nil
}

// RevisionListResponse wraps one pending-queue view.
type RevisionListResponse struct {
	EntityType models.EntityType        `json:"entityType"`
	Items      []models.RevisionRequest `json:"items"`
	SyncedAt   time.Time                `json:"syncedAt"`
}

// RevisionDetailResponse is the side-by-side view for one request.
type RevisionDetailResponse struct {
	Request models.RevisionRequest `json:"request"`
	Diff    []revision.DiffRow     `json:"diff,omitempty"`
}

// AuditListQuery carries audit listing filters from the query string.
type AuditListQuery struct {
	EntityType string `form:"entityType"`
	AdminID    string `form:"adminId"`
	Decision   string `form:"decision"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// ToFilter maps the query onto the repository filter.
func (q *AuditListQuery) ToFilter() models.DecisionAuditFilter {
	return models.DecisionAuditFilter{
		EntityType: models.EntityType(q.EntityType),
		AdminID:    q.AdminID,
		Decision:   models.RevisionStatus(q.Decision),
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
}

// ExportLinkRequest asks for a signed decision-report download.
type ExportLinkRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// Validate checks the requested format.
func (r *ExportLinkRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	return nil
}
