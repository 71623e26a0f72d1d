package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eduhubvn/moderation-api/internal/models"
	"github.com/eduhubvn/moderation-api/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(config.UpstreamConfig{BaseURL: server.URL, Timeout: 2 * time.Second}, nil)
	return client, server
}

func TestClientGetPending(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/moderation/degrees/pending", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "data": [
			{"kind": "UPDATE", "payload": {"id": "req-1"}},
			{"kind": "CREATE", "payload": {"id": "req-2"}}
		]}`))
	})

	items, err := client.GetPending(context.Background(), models.EntityDegree)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, models.RevisionKindUpdate, items[0].Kind)
	require.Equal(t, models.RevisionKindCreate, items[1].Kind)
}

func TestClientRejectCarriesNoteVerbatim(t *testing.T) {
	var captured map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/moderation/degrees/req-1/reject", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"success": true}`))
	})

	// Interior whitespace survives; only the emptiness check trims.
	err := client.Reject(context.Background(), models.EntityDegree, "req-1", "incomplete  transcript")
	require.NoError(t, err)
	require.Equal(t, "req-1", captured["id"])
	require.Equal(t, "incomplete  transcript", captured["adminNote"])
}

func TestClientApproveNon2xxIsFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.Approve(context.Background(), models.EntityDegree, "req-1")
	require.Error(t, err)
}

func TestClientApproveSuccessFalseIsFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "message": "already processed"}`))
	})

	err := client.Approve(context.Background(), models.EntityDegree, "req-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already processed")
}

func TestClientUnknownEntity(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for unknown entity type")
	})

	_, err := client.GetPending(context.Background(), models.EntityType("MYSTERY"))
	require.Error(t, err)
}

func TestClientRefreshSubmitterProfileNoopOnEmptyID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty submitter id")
	})

	require.NoError(t, client.RefreshSubmitterProfile(context.Background(), ""))
}
