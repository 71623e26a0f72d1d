package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduhubvn/moderation-api/internal/dto"
	"github.com/eduhubvn/moderation-api/internal/models"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
	"github.com/eduhubvn/moderation-api/pkg/response"
)

type auditService interface {
	List(ctx context.Context, filter models.DecisionAuditFilter) ([]models.DecisionAudit, error)
}

// AuditHandler serves the local decision trail.
type AuditHandler struct {
	audits auditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(audits auditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// List godoc
// @Summary List administrator decisions
// @Tags Audit
// @Produce json
// @Param entityType query string false "Entity type"
// @Param adminId query string false "Admin id"
// @Param decision query string false "APPROVED or REJECTED"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	var query dto.AuditListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	audits, err := h.audits.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, audits, nil)
}
