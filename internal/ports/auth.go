package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	// State and Nonce are generated by the caller and persisted before redirecting.
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// AuthCodeURL returns the provider URL the browser is redirected to.
	AuthCodeURL(in BeginInput) string

	// Exchange trades the authorization code for an upstream token, fetches the
	// user's profile and returns it as a Principal. Any non-2xx response from
	// the provider is reported as an upstream auth error.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Principal, error)
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	Nonce string
}

// ErrStateNotFound is returned by StateStore.Consume for unknown, expired or
// already consumed states.
var ErrStateNotFound = errors.New("login state not found")

// StateStore persists in-flight login state between redirect and callback.
type StateStore interface {
	Save(ctx context.Context, st domainauth.LoginState) error
	// Consume returns and deletes the state. Unknown or expired states return an error.
	Consume(ctx context.Context, state string) (domainauth.LoginState, error)
}

// RoleClassifier derives a role from an email address.
type RoleClassifier interface {
	Classify(email string) domainauth.Role
}

// TokenIssuer signs session tokens and verifies them back into subjects.
type TokenIssuer interface {
	Issue(subject domainauth.Subject) (string, error)
	Parse(token string) (domainauth.Subject, error)
}
