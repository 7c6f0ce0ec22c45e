package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTTL   = 12 * time.Hour
	DefaultLimit = 1000

	sweepInterval = time.Minute
)

type entry struct {
	console  *Console
	lastSeen time.Time
}

// Store keeps one Console per session id. Sessions idle for longer than the
// TTL are dropped; once limit sessions exist, the least recently used one
// makes room for a new visitor.
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*entry
	ttl       time.Duration
	limit     int
	lastSweep time.Time
	now       func() time.Time
	factory   func() *Console
}

func NewStore(ttl time.Duration, limit int, factory func() *Console) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
		factory:  factory,
	}
}

// Get returns the console for id. Unknown, malformed or expired ids get a
// fresh console under a new id; created reports when that happened.
func (s *Store) Get(id string) (console *Console, sessionID string, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.evictExpired(now)
		s.lastSweep = now
	}

	if _, err := uuid.Parse(id); err == nil {
		if e, ok := s.sessions[id]; ok {
			if now.Sub(e.lastSeen) <= s.ttl {
				e.lastSeen = now
				return e.console, id, false
			}
			delete(s.sessions, id)
		}
	}

	if len(s.sessions) >= s.limit {
		s.evictOldest()
	}

	sessionID = uuid.NewString()
	e := &entry{console: s.factory(), lastSeen: now}
	s.sessions[sessionID] = e
	return e.console, sessionID, true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// evictExpired must be called with s.mu held.
func (s *Store) evictExpired(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// evictOldest must be called with s.mu held.
func (s *Store) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	delete(s.sessions, oldestID)
}
