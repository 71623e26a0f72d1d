package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/eduhubvn/moderation-api/internal/middleware"
	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/internal/store"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
)

type queueStub struct {
	snapshot   store.Snapshot
	currentErr error
	refreshed  int
}

func (q *queueStub) Current(_ context.Context, _ models.EntityType) (store.Snapshot, error) {
	return q.snapshot, q.currentErr
}

func (q *queueStub) Refresh(_ context.Context, _ models.EntityType) (store.Snapshot, error) {
	q.refreshed++
	return q.snapshot, nil
}

type approvalStub struct {
	approved []string
	rejected []string
	notes    []string
	err      error
}

func (a *approvalStub) Approve(_ context.Context, entity models.EntityType, id, _ string) error {
	a.approved = append(a.approved, string(entity)+"/"+id)
	return a.err
}

func (a *approvalStub) Reject(_ context.Context, entity models.EntityType, id, note, _ string) error {
	a.rejected = append(a.rejected, string(entity)+"/"+id)
	a.notes = append(a.notes, note)
	return a.err
}

func newRevisionRouter(queue queueService, approvals approvalService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &models.JWTClaims{UserID: "admin-1", CanApprove: true})
	})
	h := NewRevisionHandler(queue, approvals)
	r.GET("/revisions/:entityType", h.List)
	r.GET("/revisions/:entityType/:id", h.Detail)
	r.POST("/revisions/:entityType/refresh", h.Refresh)
	r.POST("/revisions/:entityType/:id/approve", h.Approve)
	r.POST("/revisions/:entityType/:id/reject", h.Reject)
	return r
}

func sampleSnapshot() store.Snapshot {
	return store.Snapshot{
		Items: []models.RevisionRequest{
			{
				ID:         "deg-1",
				EntityType: models.EntityDegree,
				Kind:       models.RevisionKindUpdate,
				Original:   models.Record{"name": "BSc Computer Science"},
				Proposed:   models.Record{"name": "MSc Computer Science"},
				Status:     models.RevisionStatusPending,
				CreatedAt:  time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
			},
		},
		SyncedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestRevisionHandler_List(t *testing.T) {
	router := newRevisionRouter(&queueStub{snapshot: sampleSnapshot()}, &approvalStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/revisions/degree?q=computer", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			EntityType string                   `json:"entityType"`
			Items      []models.RevisionRequest `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "DEGREE", body.Data.EntityType)
	require.Len(t, body.Data.Items, 1)
}

func TestRevisionHandler_ListUnknownEntity(t *testing.T) {
	router := newRevisionRouter(&queueStub{snapshot: sampleSnapshot()}, &approvalStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/revisions/gadget", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRevisionHandler_DetailIncludesDiff(t *testing.T) {
	router := newRevisionRouter(&queueStub{snapshot: sampleSnapshot()}, &approvalStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/revisions/degree/deg-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Diff []struct {
				Label   string `json:"label"`
				Changed bool   `json:"changed"`
			} `json:"diff"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.Diff)

	changed := false
	for _, row := range body.Data.Diff {
		if row.Label == "Degree name" {
			changed = row.Changed
		}
	}
	require.True(t, changed)
}

func TestRevisionHandler_DetailInvalidRequestHasNoDiff(t *testing.T) {
	snapshot := store.Snapshot{Items: []models.RevisionRequest{{
		ID:         "broken-1",
		EntityType: models.EntityDegree,
		Status:     models.RevisionStatusPending,
		Invalid:    true,
	}}}
	router := newRevisionRouter(&queueStub{snapshot: snapshot}, &approvalStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/revisions/degree/broken-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data struct {
			Request models.RevisionRequest `json:"request"`
			Diff    []json.RawMessage      `json:"diff"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Data.Request.Invalid)
	require.Empty(t, body.Data.Diff)
}

func TestRevisionHandler_DetailNotFound(t *testing.T) {
	router := newRevisionRouter(&queueStub{snapshot: sampleSnapshot()}, &approvalStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/revisions/degree/missing", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRevisionHandler_Approve(t *testing.T) {
	approvals := &approvalStub{}
	router := newRevisionRouter(&queueStub{snapshot: sampleSnapshot()}, approvals)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/revisions/degree/deg-1/approve", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"DEGREE/deg-1"}, approvals.approved)
}

func TestRevisionHandler_ApproveInFlightConflict(t *testing.T) {
	approvals := &approvalStub{err: appErrors.ErrAlreadyInFlight}
	router := newRevisionRouter(&queueStub{snapshot: sampleSnapshot()}, approvals)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/revisions/degree/deg-1/approve", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
}

func TestRevisionHandler_RejectRequiresNote(t *testing.T) {
	approvals := &approvalStub{}
	router := newRevisionRouter(&queueStub{snapshot: sampleSnapshot()}, approvals)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/revisions/degree/deg-1/reject", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, approvals.rejected)
}

func TestRevisionHandler_RejectPassesNoteThrough(t *testing.T) {
	approvals := &approvalStub{}
	router := newRevisionRouter(&queueStub{snapshot: sampleSnapshot()}, approvals)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/revisions/degree/deg-1/reject",
		strings.NewReader(`{"adminNote":"  transcript is  incomplete "}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"  transcript is  incomplete "}, approvals.notes)
}

func TestRevisionHandler_Refresh(t *testing.T) {
	queue := &queueStub{snapshot: sampleSnapshot()}
	router := newRevisionRouter(queue, &approvalStub{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/revisions/degree/refresh", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, queue.refreshed)
}
