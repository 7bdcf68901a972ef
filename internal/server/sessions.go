package server

import (
	"os"
	"sync"
	"time"
)

type session struct {
	dir       string
	expiresAt time.Time
}

// sessionStore tracks upload directories and removes them once they expire.
type sessionStore struct {
	mu    sync.Mutex
	items map[string]session
	ttl   time.Duration
	// onRemove runs after a session directory is deleted.
	onRemove func(dir string)
}

func newSessionStore(ttl time.Duration, onRemove func(dir string)) *sessionStore {
	return &sessionStore{
		items:    make(map[string]session),
		ttl:      ttl,
		onRemove: onRemove,
	}
}

func (s *sessionStore) put(id, dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())
	s.items[id] = session{dir: dir, expiresAt: time.Now().Add(s.ttl)}
}

func (s *sessionStore) get(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())
	v, ok := s.items[id]
	if !ok {
		return "", false
	}
	return v.dir, true
}

// remove deletes the session and its directory. It reports whether the session existed.
func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[id]
	if !ok {
		return false
	}
	delete(s.items, id)
	s.removeDirLocked(v.dir)
	return true
}

func (s *sessionStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
			s.removeDirLocked(v.dir)
		}
	}
}

func (s *sessionStore) removeDirLocked(dir string) {
	_ = os.RemoveAll(dir)
	if s.onRemove != nil {
		s.onRemove(dir)
	}
}
