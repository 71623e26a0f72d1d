package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduhubvn/moderation-api/internal/dto"
	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/internal/revision"
	"github.com/eduhubvn/moderation-api/internal/service"
	"github.com/eduhubvn/moderation-api/internal/store"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
	"github.com/eduhubvn/moderation-api/pkg/response"
)

type queueService interface {
	Current(ctx context.Context, entity models.EntityType) (store.Snapshot, error)
	Refresh(ctx context.Context, entity models.EntityType) (store.Snapshot, error)
}

type approvalService interface {
	Approve(ctx context.Context, entity models.EntityType, id, adminID string) error
	Reject(ctx context.Context, entity models.EntityType, id, note, adminID string) error
}

// RevisionHandler exposes REST endpoints for the pending queues and the
// approve/reject workflow.
type RevisionHandler struct {
	queue     queueService
	approvals approvalService
}

// NewRevisionHandler constructs the handler.
func NewRevisionHandler(queue queueService, approvals approvalService) *RevisionHandler {
	return &RevisionHandler{queue: queue, approvals: approvals}
}

// List godoc
// @Summary List pending revision requests
// @Tags Revisions
// @Produce json
// @Param entityType path string true "Entity type"
// @Param q query string false "Free-text filter"
// @Param subType query string false "Sub-type filter"
// @Param action query string false "CREATE or UPDATE"
// @Param dateSort query string false "OLDEST or NEWEST"
// @Success 200 {object} response.Envelope
// @Router /revisions/{entityType} [get]
func (h *RevisionHandler) List(c *gin.Context) {
	entity, err := entityParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snapshot, err := h.queue.Current(c.Request.Context(), entity)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := service.ParseQueueFilter(
		c.Query("q"),
		c.Query("subType"),
		c.Query("action"),
		c.Query("dateSort"),
	)

	response.JSON(c, http.StatusOK, dto.RevisionListResponse{
		EntityType: entity,
		Items:      service.ApplyQueueFilter(snapshot.Items, filter),
		SyncedAt:   snapshot.SyncedAt,
	}, nil)
}

// Detail godoc
// @Summary Get one revision request with its field diff
// @Tags Revisions
// @Produce json
// @Param entityType path string true "Entity type"
// @Param id path string true "Request id"
// @Success 200 {object} response.Envelope
// @Router /revisions/{entityType}/{id} [get]
func (h *RevisionHandler) Detail(c *gin.Context) {
	entity, err := entityParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snapshot, err := h.queue.Current(c.Request.Context(), entity)
	if err != nil {
		response.Error(c, err)
		return
	}

	id := c.Param("id")
	for _, item := range snapshot.Items {
		if item.ID != id {
			continue
		}
		detail := dto.RevisionDetailResponse{Request: item}
		// Invalid requests render without a diff; the console shows the
		// invalid-data state instead.
		if !item.Invalid {
			detail.Diff = revision.ComputeDiff(item.Original, item.Proposed, revision.Describe(entity))
		}
		response.JSON(c, http.StatusOK, detail, nil)
		return
	}

	response.Error(c, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no pending %s request %s", entity, id)))
}

// Refresh godoc
// @Summary Force a pending-queue refresh from the upstream backend
// @Tags Revisions
// @Produce json
// @Param entityType path string true "Entity type"
// @Success 200 {object} response.Envelope
// @Router /revisions/{entityType}/refresh [post]
func (h *RevisionHandler) Refresh(c *gin.Context) {
	entity, err := entityParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snapshot, err := h.queue.Refresh(c.Request.Context(), entity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.RevisionListResponse{
		EntityType: entity,
		Items:      snapshot.Items,
		SyncedAt:   snapshot.SyncedAt,
	}, nil)
}

// Approve godoc
// @Summary Approve a pending revision request
// @Tags Revisions
// @Produce json
// @Param entityType path string true "Entity type"
// @Param id path string true "Request id"
// @Success 200 {object} response.Envelope
// @Router /revisions/{entityType}/{id}/approve [post]
func (h *RevisionHandler) Approve(c *gin.Context) {
	entity, err := entityParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.approvals.Approve(c.Request.Context(), entity, c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"status": models.RevisionStatusApproved}, nil)
}

// Reject godoc
// @Summary Reject a pending revision request
// @Tags Revisions
// @Accept json
// @Produce json
// @Param entityType path string true "Entity type"
// @Param id path string true "Request id"
// @Param payload body dto.RejectRevisionRequest true "Rejection note"
// @Success 200 {object} response.Envelope
// @Router /revisions/{entityType}/{id}/reject [post]
func (h *RevisionHandler) Reject(c *gin.Context) {
	entity, err := entityParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var body dto.RejectRevisionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rejection payload"))
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.approvals.Reject(c.Request.Context(), entity, c.Param("id"), body.AdminNote, claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"status": models.RevisionStatusRejected}, nil)
}

func entityParam(c *gin.Context) (models.EntityType, error) {
	entity := models.EntityType(strings.ToUpper(strings.TrimSpace(c.Param("entityType"))))
	if !entity.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown entity type %q", c.Param("entityType")))
	}
	return entity, nil
}
