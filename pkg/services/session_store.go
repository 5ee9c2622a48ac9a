package services

import (
	"sync"
	"time"

	"csv-chat-api/pkg/models"

	"github.com/google/uuid"
)

type sessionEntry struct {
	table    *models.Table
	lastSeen time.Time
}

// SessionStore holds one table per session id.
// A new upload replaces the session's table wholesale; entries idle past ttl are swept on writes.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore 新しいSessionStoreを作成 (ttl <= 0 で無期限)
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// NewSessionID 新しいセッションIDを発行
func NewSessionID() string {
	return uuid.New().String()
}

// Put stores table under id, replacing any previous table.
func (s *SessionStore) Put(id string, table *models.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	s.sessions[id] = &sessionEntry{table: table, lastSeen: now}
}

// Get returns the session's table, or nil when none is loaded or it has expired.
func (s *SessionStore) Get(id string) *models.Table {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil
	}
	now := s.now()
	if s.expired(entry, now) {
		delete(s.sessions, id)
		return nil
	}
	entry.lastSeen = now
	return entry.table
}

// Delete removes the session's table. It reports whether one was present.
func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(entry *sessionEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}

func (s *SessionStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
		}
	}
}
