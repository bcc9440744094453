package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store keeps the user of every logged in session.
type Store interface {
	Get(ctx context.Context, id string) (*model.User, error)
	// Set stores the user under the session id. A ttl of zero or less means the session never
	// expires.
	Set(ctx context.Context, id string, user *model.User, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	user    model.User
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryStore keeps sessions in the memory of the process. All sessions are lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if entry.expired(s.now()) {
		delete(s.sessions, id)
		return nil, ErrNotFound
	}
	user := entry.user
	return &user, nil
}

// Set also drops every session that has expired.
func (s *MemoryStore) Set(_ context.Context, id string, user *model.User, ttl time.Duration) error {
	entry := memoryEntry{user: *user}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for other, e := range s.sessions {
		if e.expired(now) {
			delete(s.sessions, other)
		}
	}
	if ttl > 0 {
		entry.expires = now.Add(ttl)
	}
	s.sessions[id] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
