package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/anxmeshhh/PrepIQ/internal/model"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory with a TTL and a periodic
// sweeper. Sessions are stored serialized so reads never alias a value a
// concurrent writer is mutating.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	onEvict func(id string)
}

// NewMemoryStore creates an in-memory store. Sessions idle for longer than
// ttl are evicted by the sweeper started with Start.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
	}
}

// OnEvict registers a hook called with the id of every expired session.
// Must be called before Start.
func (s *MemoryStore) OnEvict(fn func(id string)) {
	s.onEvict = fn
}

// Start begins the eviction sweeper in a goroutine
func (s *MemoryStore) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go s.run(ctx, interval)
}

func (s *MemoryStore) run(ctx context.Context, interval time.Duration) {
	log.Printf("session sweeper started (ttl=%s interval=%s)", s.ttl, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	var expired []string
	for id, e := range s.entries {
		if now.After(e.expiresAt) {
			expired = append(expired, id)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, id := range expired {
		log.Printf("evicted expired session %s", id)
		if s.onEvict != nil {
			s.onEvict(id)
		}
	}
}

func (s *MemoryStore) Put(_ context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries[session.ID] = &memoryEntry{
		data:      data,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, ErrNotFound
	}

	var session model.Session
	if err := json.Unmarshal(e.data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}
