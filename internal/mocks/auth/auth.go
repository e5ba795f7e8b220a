package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"net/url"
	"sync"
	"time"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.StateStore   = (*MemoryStateStore)(nil)
)

// MockAuthProvider simulates an IdP for tests.
type MockAuthProvider struct {
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Principal, error)

	AuthURL     string
	DefaultUser domainauth.Principal

	mu        sync.Mutex
	exchanges []ports.ExchangeInput
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL: "https://mock-idp/authorize",
		DefaultUser: domainauth.Principal{
			Email:       "mock.aluno@ibmec.edu.br",
			DisplayName: "Mock Aluno",
			Department:  "Administração",
			AccessToken: "mock-access-token",
		},
	}
}

// AuthCodeURL appends state and nonce to AuthURL.
func (m *MockAuthProvider) AuthCodeURL(in ports.BeginInput) string {
	base := m.AuthURL
	if base == "" {
		base = "https://mock-idp/authorize"
	}
	q := url.Values{}
	q.Set("state", in.State)
	q.Set("nonce", in.Nonce)
	return base + "?" + q.Encode()
}

// Exchange records the call and returns ExchangeFunc's result or DefaultUser.
func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Principal, error) {
	m.mu.Lock()
	m.exchanges = append(m.exchanges, in)
	m.mu.Unlock()

	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	user := m.DefaultUser
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}

// Exchanges returns the inputs Exchange was called with.
func (m *MockAuthProvider) Exchanges() []ports.ExchangeInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.ExchangeInput(nil), m.exchanges...)
}

// MemoryStateStore is an in-memory login state store for unit tests.
// Unlike memstate.Store it ignores expiry, which keeps tests clock-free.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]domainauth.LoginState
}

// NewMemoryStateStore creates a new in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]domainauth.LoginState)}
}

func (m *MemoryStateStore) Save(_ context.Context, st domainauth.LoginState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.State] = st
	return nil
}

func (m *MemoryStateStore) Consume(_ context.Context, state string) (domainauth.LoginState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[state]
	if !ok {
		return domainauth.LoginState{}, ports.ErrStateNotFound
	}
	delete(m.states, state)
	return st, nil
}

// Has reports whether state is still stored.
func (m *MemoryStateStore) Has(state string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[state]
	return ok
}
