package store

import (
	"sync"
	"time"

	"github.com/eduhubvn/moderation-api/internal/models"
)

// Snapshot is one published pending-queue state for an entity type. Snapshots
// are replaced whole; subscribers never observe a partially updated queue.
type Snapshot struct {
	Items    []models.RevisionRequest `json:"items"`
	SyncedAt time.Time                `json:"syncedAt"`
}

// Store holds the per-entity-type pending-queue snapshots. The queue service
// is the sole writer; every other component reads or subscribes.
type Store struct {
	mu     sync.RWMutex
	slices map[models.EntityType]Snapshot
	subs   map[models.EntityType][]chan Snapshot
}

// New constructs an empty store.
func New() *Store {
	return &Store{
		slices: make(map[models.EntityType]Snapshot),
		subs:   make(map[models.EntityType][]chan Snapshot),
	}
}

// Publish replaces the slice for the entity type and fans the new snapshot out
// to subscribers. A slow subscriber only ever misses intermediate snapshots,
// never the latest one.
func (s *Store) Publish(entity models.EntityType, snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slices[entity] = snapshot
	for _, ch := range s.subs[entity] {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale buffered snapshot and push the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// Get returns the current snapshot for the entity type.
func (s *Store) Get(entity models.EntityType) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.slices[entity]
	return snapshot, ok
}

// Find looks up a single request by id inside the current snapshot.
func (s *Store) Find(entity models.EntityType, id string) (models.RevisionRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.slices[entity]
	if !ok {
		return models.RevisionRequest{}, false
	}
	for _, item := range snapshot.Items {
		if item.ID == id {
			return item, true
		}
	}
	return models.RevisionRequest{}, false
}

// Subscribe registers a read-only subscriber for the entity type. The
// returned cancel func must be called to release the subscription; after
// cancellation the channel is closed and no further snapshots arrive.
func (s *Store) Subscribe(entity models.EntityType) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	s.subs[entity] = append(s.subs[entity], ch)
	if snapshot, ok := s.slices[entity]; ok {
		ch <- snapshot
	}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			subs := s.subs[entity]
			for i, sub := range subs {
				if sub == ch {
					s.subs[entity] = append(subs[:i], subs[i+1:]...)
					break
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}
