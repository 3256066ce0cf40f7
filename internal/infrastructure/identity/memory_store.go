package identity

import (
	"context"
	"sync"
	"time"
)

var _ SessionStore = (*MemorySessionStore)(nil)

// MemorySessionStore sesiones de refresco en proceso (STORAGE_DRIVER=memory y tests).
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// NewMemorySessionStore crea un store vacío.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]memorySession{}, now: time.Now}
}

func (s *MemorySessionStore) Save(_ context.Context, tokenHash, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenHash] = memorySession{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Consume(_ context.Context, tokenHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[tokenHash]
	if !ok {
		return "", nil
	}
	delete(s.sessions, tokenHash)
	if !s.now().Before(sess.expiresAt) {
		return "", nil
	}
	return sess.userID, nil
}

func (s *MemorySessionStore) Revoke(ctx context.Context, tokenHash string) error {
	_, err := s.Consume(ctx, tokenHash)
	return err
}

func (s *MemorySessionStore) RevokeUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, sess := range s.sessions {
		if sess.userID == userID {
			delete(s.sessions, h)
		}
	}
	return nil
}
