package core

import (
	"context"
	"time"
)

// AuthorizationState is a pending authorization request, keyed by the opaque
// state value sent to the provider and echoed back on the callback.
type AuthorizationState struct {
	State        string `json:"state"`
	CodeVerifier string `json:"code_verifier,omitempty"`
	RedirectURI  string `json:"redirect_uri"`
	CreatedAt    int64  `json:"created_at"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Expired reports whether the state has passed its expiry. A zero ExpiresAt never expires.
func (s *AuthorizationState) Expired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() > s.ExpiresAt
}

// StateStore keeps pending authorization states between the redirect and the callback.
type StateStore interface {
	SaveState(ctx context.Context, state *AuthorizationState) error
	// ConsumeState returns the state and removes it, so each state is usable once.
	ConsumeState(ctx context.Context, state string) (*AuthorizationState, error)
	DeleteState(ctx context.Context, state string) error
	Close() error
}
