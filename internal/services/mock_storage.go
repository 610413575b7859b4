package services

import (
	"context"
	"errors"
	"sync"

	"github.com/keeper-games/last-algorithm/pkg/state"
)

// MockSessionStore is a mock implementation of SessionStore for testing
type MockSessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*state.Session
	pingError error
	saveError error
}

// Ensure MockSessionStore implements SessionStore interface
var _ SessionStore = (*MockSessionStore)(nil)

// NewMockSessionStore creates a new mock session store
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*state.Session),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockSessionStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError configures the mock to fail on save with the given error
func (m *MockSessionStore) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// Ping mocks the store ping
func (m *MockSessionStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks the store close
func (m *MockSessionStore) Close() error {
	return nil
}

// SaveSession mocks saving a session
func (m *MockSessionStore) SaveSession(ctx context.Context, sessionID string, sess *state.Session) error {
	if sess == nil {
		return errors.New("session cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.sessions[sessionID] = sess
	return nil
}

// LoadSession mocks loading a session
func (m *MockSessionStore) LoadSession(ctx context.Context, sessionID string) (*state.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, exists := m.sessions[sessionID]
	if !exists {
		return nil, nil // Return nil for not found
	}
	return sess, nil
}

// DeleteSession mocks deleting a session
func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
