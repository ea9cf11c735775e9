package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps everything in process.  It is used when Redis is not
// reachable and in tests; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	views    map[string]map[string][]byte
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		views:    make(map[string]map[string][]byte),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}
	if sess.Expired(m.now()) {
		m.mu.Lock()
		delete(m.sessions, id)
		delete(m.views, id)
		m.mu.Unlock()
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemoryStore) Save(_ context.Context, sess Session) error {
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	delete(m.views, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) LoadView(_ context.Context, id, table string, dst any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.views[id][table]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode view %s: %w", table, err)
	}
	return true, nil
}

func (m *MemoryStore) SaveView(_ context.Context, id, table string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode view %s: %w", table, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.views[id] == nil {
		m.views[id] = make(map[string][]byte)
	}
	m.views[id][table] = raw
	return nil
}

func (m *MemoryStore) DropView(_ context.Context, id, table string) error {
	m.mu.Lock()
	delete(m.views[id], table)
	m.mu.Unlock()
	return nil
}
