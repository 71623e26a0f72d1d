package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduhubvn/moderation-api/internal/dto"
	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/internal/service"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
	"github.com/eduhubvn/moderation-api/pkg/response"
)

type exportService interface {
	IssueLink(format string) (*service.ExportLink, error)
	Download(ctx context.Context, token string, filter models.DecisionAuditFilter) (*service.ExportFile, error)
}

// ExportHandler issues signed decision-report links and serves the downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// IssueLink godoc
// @Summary Create a signed download link for a decision report
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportLinkRequest true "Export format"
// @Success 201 {object} response.Envelope
// @Router /exports/decisions [post]
func (h *ExportHandler) IssueLink(c *gin.Context) {
	var body dto.ExportLinkRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid export payload"))
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	link, err := h.exports.IssueLink(body.Format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, link)
}

// Download godoc
// @Summary Download a decision report via a signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Param entityType query string false "Entity type filter"
// @Param decision query string false "Decision filter"
// @Success 200 {file} file
// @Router /exports/decisions/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	var query dto.AuditListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	file, err := h.exports.Download(c.Request.Context(), token, query.ToFilter())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
