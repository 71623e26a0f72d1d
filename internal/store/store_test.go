package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eduhubvn/moderation-api/internal/models"
)

func snapshotOf(ids ...string) Snapshot {
	items := make([]models.RevisionRequest, 0, len(ids))
	for _, id := range ids {
		items = append(items, models.RevisionRequest{
			ID:         id,
			EntityType: models.EntityDegree,
			Status:     models.RevisionStatusPending,
		})
	}
	return Snapshot{Items: items, SyncedAt: time.Now().UTC()}
}

func TestStorePublishReplacesSlice(t *testing.T) {
	s := New()
	s.Publish(models.EntityDegree, snapshotOf("a", "b"))
	s.Publish(models.EntityDegree, snapshotOf("b"))

	snapshot, ok := s.Get(models.EntityDegree)
	require.True(t, ok)
	require.Len(t, snapshot.Items, 1)
	require.Equal(t, "b", snapshot.Items[0].ID)
}

func TestStoreSlicesAreIndependent(t *testing.T) {
	s := New()
	s.Publish(models.EntityDegree, snapshotOf("a"))
	s.Publish(models.EntityPartner, snapshotOf("p"))

	degree, ok := s.Get(models.EntityDegree)
	require.True(t, ok)
	require.Equal(t, "a", degree.Items[0].ID)

	partner, ok := s.Get(models.EntityPartner)
	require.True(t, ok)
	require.Equal(t, "p", partner.Items[0].ID)
}

func TestStoreFind(t *testing.T) {
	s := New()
	s.Publish(models.EntityDegree, snapshotOf("a", "b"))

	item, ok := s.Find(models.EntityDegree, "b")
	require.True(t, ok)
	require.Equal(t, "b", item.ID)

	_, ok = s.Find(models.EntityDegree, "missing")
	require.False(t, ok)

	_, ok = s.Find(models.EntityPartner, "a")
	require.False(t, ok)
}

func TestStoreSubscribeReceivesCurrentAndNext(t *testing.T) {
	s := New()
	s.Publish(models.EntityDegree, snapshotOf("a"))

	ch, cancel := s.Subscribe(models.EntityDegree)
	defer cancel()

	first := <-ch
	require.Equal(t, "a", first.Items[0].ID)

	s.Publish(models.EntityDegree, snapshotOf("b"))
	second := <-ch
	require.Equal(t, "b", second.Items[0].ID)
}

func TestStoreSlowSubscriberSeesLatestSnapshot(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe(models.EntityDegree)
	defer cancel()

	// Subscriber never drains between publishes; the buffered snapshot is
	// replaced rather than blocking the writer.
	s.Publish(models.EntityDegree, snapshotOf("stale"))
	s.Publish(models.EntityDegree, snapshotOf("fresh"))

	latest := <-ch
	require.Equal(t, "fresh", latest.Items[0].ID)
}

func TestStoreCancelClosesChannel(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe(models.EntityDegree)
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Publishing after cancellation must not panic.
	s.Publish(models.EntityDegree, snapshotOf("a"))
	cancel()
}
