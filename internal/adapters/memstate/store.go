// Package memstate keeps in-flight login state in process memory. It backs
// single-instance deployments that run without Redis.
package memstate

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/ports"
)

const (
	// DefaultLimit caps pending logins held at once.
	DefaultLimit = 10000
	// DefaultSweepInterval is the minimum time between expiry sweeps.
	DefaultSweepInterval = time.Minute
)

// ErrFull is returned by Save when the store holds Limit unexpired states.
var ErrFull = errors.New("too many pending logins")

// Options configures a Store. Zero values take the defaults.
type Options struct {
	Limit         int
	SweepInterval time.Duration
}

// Store is a mutex-guarded map of login states. Save sweeps expired entries
// at most once per SweepInterval, so the per-request cost stays constant
// while the map is bounded by Limit.
type Store struct {
	mu        sync.Mutex
	states    map[string]domainauth.LoginState
	limit     int
	every     time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// New returns an empty Store with the default limits.
func New() *Store {
	return NewWithOptions(Options{})
}

// NewWithOptions returns an empty Store.
func NewWithOptions(opts Options) *Store {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	return &Store{
		states: make(map[string]domainauth.LoginState),
		limit:  opts.Limit,
		every:  opts.SweepInterval,
		now:    time.Now,
	}
}

// Save implements ports.StateStore.
func (s *Store) Save(_ context.Context, st domainauth.LoginState) error {
	if st.State == "" {
		return errors.New("state cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(st.ExpiresAt) {
		return errors.New("login state is expired")
	}
	if now.Sub(s.lastSweep) >= s.every {
		s.sweep(now)
	}
	if _, exists := s.states[st.State]; !exists && len(s.states) >= s.limit {
		return ErrFull
	}
	s.states[st.State] = st
	return nil
}

func (s *Store) sweep(now time.Time) {
	for k, v := range s.states {
		if !now.Before(v.ExpiresAt) {
			delete(s.states, k)
		}
	}
	s.lastSweep = now
}

// Consume implements ports.StateStore.
func (s *Store) Consume(_ context.Context, state string) (domainauth.LoginState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[state]
	if !ok {
		return domainauth.LoginState{}, ports.ErrStateNotFound
	}
	delete(s.states, state)
	if !s.now().Before(st.ExpiresAt) {
		return domainauth.LoginState{}, ports.ErrStateNotFound
	}
	return st, nil
}

// Len returns the number of stored states, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
