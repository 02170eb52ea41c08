package sessionstore

import (
	"context"
	"sync"

	"github.com/gymdesk/authkit/core/session"
)

// Memory is an in-process session.Store. It is the ephemeral scope: state
// does not survive a process restart.
type Memory struct {
	mu   sync.RWMutex
	sess *session.Session
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.sess == nil {
		return nil, session.ErrNotFound
	}

	// Copy so callers cannot mutate stored state without Save.
	sess := *m.sess
	return &sess, nil
}

func (m *Memory) Save(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return session.ErrNilSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *sess
	m.sess = &stored
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sess = nil
	return nil
}
