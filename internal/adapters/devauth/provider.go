package devauth

// Package devauth provides a simple, config-driven AuthProvider for local development.

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/ports"
)

// Config controls the dev auth provider behavior.
// Email and CallbackURL are required.
type Config struct {
	Email       string
	DisplayName string
	Department  string
	JobTitle    string
	// CallbackURL is our own login callback; the provider redirects straight to it.
	CallbackURL     string
	SessionDuration time.Duration // default 1h when zero
}

// Provider implements ports.AuthProvider for local development.
// It short-circuits the OAuth flow by redirecting back to our own callback
// with the caller's state. Exchange ignores the code and returns the configured identity.
type Provider struct {
	principal       domainauth.Principal
	callbackURL     string
	sessionDuration time.Duration
	now             func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	if strings.TrimSpace(cfg.CallbackURL) == "" {
		return nil, errors.New("dev auth: CallbackURL is required")
	}
	dur := cfg.SessionDuration
	if dur == 0 {
		dur = time.Hour
	}
	name := strings.TrimSpace(cfg.DisplayName)
	if name == "" {
		name = email
	}
	return &Provider{
		principal: domainauth.Principal{
			Email:       email,
			DisplayName: name,
			Department:  cfg.Department,
			JobTitle:    cfg.JobTitle,
		},
		callbackURL:     cfg.CallbackURL,
		sessionDuration: dur,
		now:             time.Now,
	}, nil
}

// AuthCodeURL points the browser at our own callback with a fixed code.
func (p *Provider) AuthCodeURL(in ports.BeginInput) string {
	q := url.Values{}
	q.Set("code", "dev")
	q.Set("state", in.State)
	sep := "?"
	if strings.Contains(p.callbackURL, "?") {
		sep = "&"
	}
	return p.callbackURL + sep + q.Encode()
}

// Exchange ignores the provided code (state validation is handled by the service) and returns the dev identity.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Principal, error) {
	out := p.principal
	out.AccessToken = "dev-access-token"
	out.ExpiresAt = p.now().Add(p.sessionDuration)
	return out, nil
}
