package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/internal/revision"
	"github.com/eduhubvn/moderation-api/pkg/config"
	appErrors "github.com/eduhubvn/moderation-api/pkg/errors"
)

// PendingItem is one raw element of an upstream pending list. The payload
// shape varies per entity type and is resolved by the normalizer.
type PendingItem struct {
	Kind    models.RevisionKind `json:"kind"`
	Payload json.RawMessage     `json:"payload"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Client talks to the EduHub backend that owns revision requests. It is the
// single source of truth; this service never mutates moderation state locally.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New constructs an upstream client.
func New(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// GetPending fetches the full authoritative pending list for the entity type.
func (c *Client) GetPending(ctx context.Context, entity models.EntityType) ([]PendingItem, error) {
	cfg, ok := revision.Config(entity)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown entity type %q", entity))
	}
	url := fmt.Sprintf("%s/moderation/%s/pending", c.baseURL, cfg.Path)

	data, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	var items []PendingItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status,
			fmt.Sprintf("decode pending list for %s", entity))
	}
	return items, nil
}

// Approve asks the backend to approve the request. Non-2xx or success:false
// responses are failures with no state change.
func (c *Client) Approve(ctx context.Context, entity models.EntityType, id string) error {
	cfg, ok := revision.Config(entity)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown entity type %q", entity))
	}
	url := fmt.Sprintf("%s/moderation/%s/%s/approve", c.baseURL, cfg.Path, id)
	_, err := c.do(ctx, http.MethodPost, url, map[string]string{"id": id})
	return err
}

// Reject asks the backend to reject the request. The admin note travels
// verbatim; emptiness validation happens before this call is ever made.
func (c *Client) Reject(ctx context.Context, entity models.EntityType, id, adminNote string) error {
	cfg, ok := revision.Config(entity)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown entity type %q", entity))
	}
	url := fmt.Sprintf("%s/moderation/%s/%s/reject", c.baseURL, cfg.Path, id)
	_, err := c.do(ctx, http.MethodPost, url, map[string]string{"id": id, "adminNote": adminNote})
	return err
}

// RefreshSubmitterProfile triggers a refetch of the submitter's full profile
// so profile-embedded views stay consistent after an approval.
func (c *Client) RefreshSubmitterProfile(ctx context.Context, submitterID string) error {
	if submitterID == "" {
		return nil
	}
	url := fmt.Sprintf("%s/profiles/%s/refresh", c.baseURL, submitterID)
	_, err := c.do(ctx, http.MethodPost, url, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "upstream call failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "read upstream response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("upstream returned non-2xx",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return nil, appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("upstream responded with status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode upstream envelope")
	}
	if !env.Success {
		message := env.Message
		if message == "" {
			message = "upstream reported failure"
		}
		return nil, appErrors.Clone(appErrors.ErrUpstream, message)
	}
	return env.Data, nil
}
