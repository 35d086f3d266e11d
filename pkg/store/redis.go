package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-training/token-exchange/pkg/core"
	"github.com/redis/rueidis"
)

// Key prefix for Redis storage
const statePrefix = "oauth_state:"

// RedisStore implements the core.StateStore interface using Redis via rueidis.
// States are written with a TTL matching their expiry so Redis evicts abandoned flows.
type RedisStore struct {
	client rueidis.Client
}

// NewRedisStore creates a new instance of RedisStore with the provided rueidis client.
func NewRedisStore(client rueidis.Client) *RedisStore {
	return &RedisStore{
		client: client,
	}
}

// RedisOptions contains configuration for Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStoreFromOptions creates a new RedisStore with simplified options.
func NewRedisStoreFromOptions(opts RedisOptions) (*RedisStore, error) {
	return NewRedisStoreFromClientOption(rueidis.ClientOption{
		InitAddress: []string{opts.Addr},
		Password:    opts.Password,
		SelectDB:    opts.DB,
	})
}

// NewRedisStoreFromClientOption creates a new RedisStore with full rueidis client options.
func NewRedisStoreFromClientOption(opts rueidis.ClientOption) (*RedisStore, error) {
	client, err := rueidis.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return NewRedisStore(client), nil
}

// Close closes the Redis client connection.
func (r *RedisStore) Close() error {
	r.client.Close()
	return nil
}

// SaveState stores an authorization state in Redis.
func (r *RedisStore) SaveState(ctx context.Context, state *core.AuthorizationState) error {
	if state == nil {
		return ErrNilState
	}
	if state.State == "" {
		return ErrEmptyState
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal authorization state: %w", err)
	}

	key := statePrefix + state.State
	var cmd rueidis.Completed
	if state.ExpiresAt > 0 {
		ttl := time.Until(time.Unix(state.ExpiresAt, 0))
		if ttl <= 0 {
			return ErrStateExpired
		}
		cmd = r.client.B().Set().Key(key).Value(string(data)).ExSeconds(int64(math.Ceil(ttl.Seconds()))).Build()
	} else {
		cmd = r.client.B().Set().Key(key).Value(string(data)).Build()
	}

	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to save authorization state to redis: %w", err)
	}
	return nil
}

// ConsumeState atomically reads and deletes an authorization state with GETDEL.
func (r *RedisStore) ConsumeState(ctx context.Context, state string) (*core.AuthorizationState, error) {
	if state == "" {
		return nil, ErrEmptyState
	}

	cmd := r.client.B().Getdel().Key(statePrefix + state).Build()
	result, err := r.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to consume authorization state from redis: %w", err)
	}

	var st core.AuthorizationState
	if err := json.Unmarshal([]byte(result), &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal authorization state: %w", err)
	}

	// Redis TTL has second granularity
	if st.Expired(time.Now()) {
		return nil, ErrStateNotFound
	}

	return &st, nil
}

// DeleteState removes an authorization state from Redis.
func (r *RedisStore) DeleteState(ctx context.Context, state string) error {
	if state == "" {
		return ErrEmptyState
	}

	cmd := r.client.B().Del().Key(statePrefix + state).Build()
	result, err := r.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return fmt.Errorf("failed to delete authorization state from redis: %w", err)
	}

	if result == 0 {
		return ErrStateNotFound
	}
	return nil
}
