package redis

// Package redis provides Redis-based adapters for the PICT API.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/ports"
)

const defaultStatePrefix = "login_state:"

// StateStore keeps in-flight login state in Redis.
// TTL follows LoginState.ExpiresAt so abandoned logins expire on their own.
type StateStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewStateStore creates a Redis-backed login state store.
func NewStateStore(client redis.UniversalClient) *StateStore {
	return NewStateStoreWithPrefix(client, defaultStatePrefix)
}

// NewStateStoreWithPrefix creates a Redis state store with a custom key prefix.
func NewStateStoreWithPrefix(client redis.UniversalClient, prefix string) *StateStore {
	return &StateStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// Save stores st until its expiry.
func (s *StateStore) Save(ctx context.Context, st domainauth.LoginState) error {
	if st.State == "" {
		return errors.New("state cannot be empty")
	}

	ttl := st.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("login state is expired")
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal login state: %w", err)
	}
	return s.client.Set(ctx, s.prefix+st.State, data, ttl).Err()
}

// Consume atomically reads and deletes the state so a callback can be replayed at most once.
func (s *StateStore) Consume(ctx context.Context, state string) (domainauth.LoginState, error) {
	if state == "" {
		return domainauth.LoginState{}, ports.ErrStateNotFound
	}

	data, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.LoginState{}, ports.ErrStateNotFound
		}
		return domainauth.LoginState{}, fmt.Errorf("redis getdel: %w", err)
	}

	var st domainauth.LoginState
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		return domainauth.LoginState{}, fmt.Errorf("unmarshal login state: %w", err)
	}
	if !s.now().Before(st.ExpiresAt) {
		return domainauth.LoginState{}, ports.ErrStateNotFound
	}
	return st, nil
}
