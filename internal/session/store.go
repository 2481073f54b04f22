package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"fusionstudio/internal/composer"
	"fusionstudio/internal/domain"
)

// entry pairs a controller with its last-touched timestamp for TTL expiry.
type entry struct {
	controller *composer.Controller
	touched    time.Time
}

// Store keeps composer controllers in process memory, keyed by session ID.
// Sessions expire after the configured TTL; there is deliberately no
// persistence across process restarts.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	build   func() *composer.Controller
	now     func() time.Time
}

// NewStore constructs a Store. build is invoked once per created session to
// wire a fresh controller.
func NewStore(ttl time.Duration, build func() *composer.Controller) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		build:   build,
		now:     time.Now,
	}
}

// Create allocates a new session and returns its ID.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.entries[id] = &entry{controller: s.build(), touched: s.now()}
	s.mu.Unlock()
	return id
}

// Get returns the controller for a session, refreshing its TTL.
func (s *Store) Get(id string) (*composer.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.ttl > 0 && s.now().Sub(e.touched) > s.ttl {
		delete(s.entries, id)
		return nil, domain.ErrSessionNotFound
	}
	e.touched = s.now()
	return e.controller, nil
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if e.touched.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until stop is closed.
func (s *Store) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-stop:
				return
			}
		}
	}()
}
