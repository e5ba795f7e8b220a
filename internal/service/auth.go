package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	apperrors "github.com/ibmec/pict-api/internal/errors"
	"github.com/ibmec/pict-api/internal/observability/metrics"
	"github.com/ibmec/pict-api/internal/ports"
)

const defaultStateTTL = 10 * time.Minute

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.AuthProvider
	States     ports.StateStore
	Identities *IdentityService
	Tokens     ports.TokenIssuer
	// FrontendURL is the SPA origin the callback redirects to.
	FrontendURL string
	StateTTL    time.Duration
	Now         func() time.Time
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

// AuthService orchestrates the login flow: provider redirect, callback
// exchange, identity resolution and session token issuance.
type AuthService struct {
	provider    ports.AuthProvider
	states      ports.StateStore
	identities  *IdentityService
	tokens      ports.TokenIssuer
	frontendURL string
	stateTTL    time.Duration
	now         func() time.Time
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	s := &AuthService{
		provider:    opts.Provider,
		states:      opts.States,
		identities:  opts.Identities,
		tokens:      opts.Tokens,
		frontendURL: strings.TrimRight(opts.FrontendURL, "/"),
		stateTTL:    opts.StateTTL,
		now:         opts.Now,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}
	if s.stateTTL <= 0 {
		s.stateTTL = defaultStateTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "auth")
	return s
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
}

// BeginLogin generates state and nonce, persists them and returns the
// provider URL the browser should be sent to.
func (s *AuthService) BeginLogin(ctx context.Context) (*BeginLoginResult, error) {
	st := domainauth.LoginState{
		State:     randomToken(),
		Nonce:     randomToken(),
		ExpiresAt: s.now().Add(s.stateTTL),
	}
	if err := s.states.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save login state: %w", err)
	}
	return &BeginLoginResult{
		AuthURL: s.provider.AuthCodeURL(ports.BeginInput{State: st.State, Nonce: st.Nonce}),
		State:   st.State,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Token       string
	Subject     domainauth.Subject
	RedirectURL string
}

// CompleteLogin runs the callback: consume state, exchange the code, resolve
// the local identity and issue a session token. Any failure aborts before a
// token exists.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (res *CompleteLoginResult, err error) {
	role := ""
	defer func() { s.metrics.ObserveLogin(role, err) }()

	if strings.TrimSpace(in.Code) == "" {
		return nil, apperrors.ValidationField("code", "Código de autorização não fornecido")
	}
	st, err := s.states.Consume(ctx, in.State)
	if err != nil {
		if errors.Is(err, ports.ErrStateNotFound) {
			return nil, &apperrors.AppError{
				Code:    apperrors.ErrCodeValidation,
				Message: "Estado de login inválido ou expirado",
				Field:   "state",
				Cause:   err,
			}
		}
		return nil, fmt.Errorf("consume login state: %w", err)
	}

	principal, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: in.Code, Nonce: st.Nonce})
	if err != nil {
		s.logger.WarnContext(ctx, "provider exchange failed", "error", err)
		return nil, err
	}

	identity, err := s.identities.Resolve(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	role = string(identity.Role)

	subject, err := identity.Subject(principal.AccessToken)
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.Issue(subject)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "login completed",
		"email", subject.Base().Email,
		"role", role,
		"is_new_user", identity.IsNew,
	)
	return &CompleteLoginResult{
		Token:       token,
		Subject:     subject,
		RedirectURL: s.LandingURL(identity.Role, token),
	}, nil
}

// LandingURL returns the SPA dashboard for role with the token attached.
func (s *AuthService) LandingURL(role domainauth.Role, token string) string {
	return s.frontendURL + "/" + string(role) + "/dashboard?token=" + url.QueryEscape(token)
}

// Authenticate verifies a bearer token and returns its subject.
func (s *AuthService) Authenticate(token string) (domainauth.Subject, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.Unauthorized("token ausente")
	}
	subject, err := s.tokens.Parse(token)
	if err != nil {
		s.metrics.IncTokenRejected(err)
		return nil, err
	}
	return subject, nil
}

// randomToken returns 32 bytes of URL-safe randomness, falling back to a
// UUID if the system source fails.
func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
