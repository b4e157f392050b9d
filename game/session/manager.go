package session

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/wricardo/box-puzzle/game/engine"
	"github.com/wricardo/box-puzzle/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// idBytes is the number of random bytes in a generated ID (two hex chars each)
const idBytes = 2

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces time.Now for creation and access times
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// Manager owns the engines of all live sessions. Keys are lower-cased IDs.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*service.Session
	now      func() time.Time
}

// NewManager creates an empty in-memory manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*service.Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func key(id string) string {
	return strings.ToLower(id)
}

// Create starts a session on a fresh engine for config. An empty id is
// replaced by a generated one.
func (m *Manager) Create(id string, config *engine.PuzzleConfig) (*service.Session, error) {
	if strings.ContainsAny(id, " /?#") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	// NewEngine validates the layout, so do it outside the lock
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case id == "":
		id = m.newID()
	case m.sessions[key(id)] != nil:
		return nil, fmt.Errorf("%w: %q", ErrSessionAlreadyExists, id)
	}

	now := m.now()
	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         eng.Config(),
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key(id)] = sess

	log.WithFields(log.Fields{"session": id, "puzzle": config.Name, "variant": eng.Variant()}).Debug("session stored")
	return sess, nil
}

// newID draws short IDs from random UUIDs until one is free. Callers hold
// the write lock.
func (m *Manager) newID() string {
	for {
		u := uuid.New()
		id := hex.EncodeToString(u[:idBytes])
		if m.sessions[id] == nil {
			return id
		}
	}
}

// Get looks a session up, ignoring case
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[key(id)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// List returns every session, oldest first
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	out := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[key(id)]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, key(id))
	return nil
}

// Touch marks a session as used now
func (m *Manager) Touch(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[key(id)]
	if !ok {
		return ErrSessionNotFound
	}
	sess.LastAccessedAt = m.now()
	return nil
}

// Expire removes sessions idle for longer than maxAge and returns their IDs
// in sorted order
func (m *Manager) Expire(maxAge time.Duration) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	var removed []string
	for k, sess := range m.sessions {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, k)
			removed = append(removed, sess.ID)
		}
	}
	sort.Strings(removed)

	if len(removed) > 0 {
		log.WithFields(log.Fields{"removed": len(removed), "remaining": len(m.sessions)}).Info("expired sessions cleaned up")
	}
	return removed
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
