// Package dedupe holds the process-scoped guard against the gateway
// redelivering the same interaction.
package dedupe

import (
	"sync"
	"time"
)

// DefaultTTL is how long an interaction id stays in the window.
const DefaultTTL = 60 * time.Second

// Seen is a bounded time-to-live set of already-handled interaction
// ids. Entries expire after the TTL; Sweep is run on a schedule.
type Seen struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
	now     func() time.Time
}

func NewSeen(ttl time.Duration) *Seen {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Seen{
		ttl:     ttl,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Remember records an id and reports whether it was new. A false
// return means the id was already handled inside the TTL window.
func (s *Seen) Remember(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiry, ok := s.entries[id]; ok && now.Before(expiry) {
		return false
	}

	s.entries[id] = now.Add(s.ttl)
	return true
}

// Sweep drops expired entries.
func (s *Seen) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, expiry := range s.entries {
		if !now.Before(expiry) {
			delete(s.entries, id)
		}
	}
}

// Len reports the current entry count.
func (s *Seen) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
