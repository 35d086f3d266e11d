package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-training/token-exchange/pkg/core"
)

var (
	// ErrStateNotFound is returned when an authorization state is unknown or has expired.
	ErrStateNotFound = errors.New("authorization state not found")
	// ErrNilState is returned when attempting to save a nil authorization state.
	ErrNilState = errors.New("authorization state cannot be nil")
	// ErrEmptyState is returned when the state string is empty.
	ErrEmptyState = errors.New("authorization state string cannot be empty")
	// ErrStateExpired is returned when saving a state whose expiry is already in the past.
	ErrStateExpired = errors.New("authorization state is already expired")
)

// MemoryStore implements the core.StateStore interface using an in-memory map.
// It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]*core.AuthorizationState
	now    func() time.Time
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*core.AuthorizationState),
		now:    time.Now,
	}
}

// SaveState stores an authorization state in memory.
func (m *MemoryStore) SaveState(ctx context.Context, state *core.AuthorizationState) error {
	if state == nil {
		return ErrNilState
	}
	if state.State == "" {
		return ErrEmptyState
	}
	if state.Expired(m.now()) {
		return ErrStateExpired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[state.State] = state
	return nil
}

// ConsumeState removes and returns an authorization state.
// Expired entries are dropped and reported as ErrStateNotFound.
func (m *MemoryStore) ConsumeState(ctx context.Context, state string) (*core.AuthorizationState, error) {
	if state == "" {
		return nil, ErrEmptyState
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, exists := m.states[state]
	if !exists {
		return nil, ErrStateNotFound
	}
	delete(m.states, state)

	if st.Expired(m.now()) {
		return nil, ErrStateNotFound
	}
	return st, nil
}

// DeleteState removes an authorization state without returning it.
func (m *MemoryStore) DeleteState(ctx context.Context, state string) error {
	if state == "" {
		return ErrEmptyState
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.states[state]; !exists {
		return ErrStateNotFound
	}

	delete(m.states, state)
	return nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
