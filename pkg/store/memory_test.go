package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-training/token-exchange/pkg/core"
)

func newState(state string, ttl time.Duration) *core.AuthorizationState {
	now := time.Now()
	return &core.AuthorizationState{
		State:        state,
		CodeVerifier: "verifier-" + state,
		RedirectURI:  "http://localhost:8085/callback",
		CreatedAt:    now.Unix(),
		ExpiresAt:    now.Add(ttl).Unix(),
	}
}

func TestNewMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if store == nil {
		t.Fatal("NewMemoryStore() returned nil")
	}

	if store.states == nil {
		t.Error("states map should be initialized")
	}
}

func TestMemoryStore_SaveState(t *testing.T) {
	tests := []struct {
		name    string
		state   *core.AuthorizationState
		wantErr error
	}{
		{
			name:    "valid state",
			state:   newState("state-123", 10*time.Minute),
			wantErr: nil,
		},
		{
			name:    "state without expiry",
			state:   &core.AuthorizationState{State: "state-forever"},
			wantErr: nil,
		},
		{
			name:    "nil state",
			state:   nil,
			wantErr: ErrNilState,
		},
		{
			name:    "empty state string",
			state:   &core.AuthorizationState{State: ""},
			wantErr: ErrEmptyState,
		},
		{
			name:    "already expired",
			state:   newState("state-old", -time.Minute),
			wantErr: ErrStateExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			err := store.SaveState(context.Background(), tt.state)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SaveState() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if _, ok := store.states[tt.state.State]; !ok {
					t.Error("state was not stored")
				}
			}
		})
	}
}

func TestMemoryStore_ConsumeState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	saved := newState("state-consume", 10*time.Minute)
	if err := store.SaveState(ctx, saved); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	got, err := store.ConsumeState(ctx, "state-consume")
	if err != nil {
		t.Fatalf("ConsumeState() error = %v", err)
	}
	if got.CodeVerifier != saved.CodeVerifier {
		t.Errorf("CodeVerifier = %q, want %q", got.CodeVerifier, saved.CodeVerifier)
	}

	// single use
	if _, err := store.ConsumeState(ctx, "state-consume"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("second ConsumeState() error = %v, want %v", err, ErrStateNotFound)
	}

	if _, err := store.ConsumeState(ctx, ""); !errors.Is(err, ErrEmptyState) {
		t.Errorf("ConsumeState(\"\") error = %v, want %v", err, ErrEmptyState)
	}
}

func TestMemoryStore_ConsumeState_Expired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.SaveState(ctx, newState("state-expiring", time.Minute)); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := store.ConsumeState(ctx, "state-expiring"); !errors.Is(err, ErrStateNotFound) {
		t.Errorf("ConsumeState() error = %v, want %v", err, ErrStateNotFound)
	}
	if len(store.states) != 0 {
		t.Error("expired state should be removed")
	}
}

func TestMemoryStore_DeleteState(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.SaveState(ctx, newState("state-delete", time.Minute)); err != nil {
		t.Fatalf("SaveState() error = %v", err)
	}

	tests := []struct {
		name    string
		state   string
		wantErr error
	}{
		{name: "existing state", state: "state-delete", wantErr: nil},
		{name: "already deleted", state: "state-delete", wantErr: ErrStateNotFound},
		{name: "empty state", state: "", wantErr: ErrEmptyState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.DeleteState(ctx, tt.state); !errors.Is(err, tt.wantErr) {
				t.Errorf("DeleteState() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			state := fmt.Sprintf("state-%d", i)
			if err := store.SaveState(ctx, newState(state, time.Minute)); err != nil {
				t.Errorf("SaveState() error = %v", err)
				return
			}
			if _, err := store.ConsumeState(ctx, state); err != nil {
				t.Errorf("ConsumeState() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if len(store.states) != 0 {
		t.Errorf("expected empty store, got %d entries", len(store.states))
	}
}
