package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/ibmec/pict-api/internal/domain/auth"
	"github.com/ibmec/pict-api/internal/service"
	"github.com/ibmec/pict-api/internal/sessiontoken"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Authenticator
	BeginLogin(ctx context.Context) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc AuthServiceInterface
	// CallbackPath is where the root-level callback alias forwards to.
	CallbackPath string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// MicrosoftLogin starts the login flow and redirects to the provider.
// GET {prefix}/auth/microsoft-login.
func (h *AuthHandlers) MicrosoftLogin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginLogin(r.Context())
	if err != nil {
		WriteServiceError(w, r, h.logger(), err)
		return
	}
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes the login flow and redirects to the role dashboard
// with the session token attached.
// GET {prefix}/auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if providerErr := q.Get("error"); providerErr != "" {
		h.logger().WarnContext(r.Context(), "provider returned an error",
			"error", providerErr,
			"description", q.Get("error_description"),
		)
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "upstream_auth",
			"message": "Login cancelado ou recusado pelo provedor",
		})
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  q.Get("code"),
		State: q.Get("state"),
	})
	if err != nil {
		WriteServiceError(w, r, h.logger(), err)
		return
	}
	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}

// CallbackAlias forwards /auth/callback to the versioned callback, keeping
// the query string. Some app registrations still point at the root path.
func (h *AuthHandlers) CallbackAlias(w http.ResponseWriter, r *http.Request) {
	target := h.CallbackPath
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Me returns the claims of the caller's token.
// GET {prefix}/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := SubjectFromContext(r.Context())
	if !ok {
		WriteServiceError(w, r, h.logger(), errUnauthenticated)
		return
	}
	WriteJSON(w, http.StatusOK, meResponse(subject))
}

// Logout acknowledges a logout. Tokens are stateless; the client discards its copy.
// GET|POST {prefix}/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, _ *http.Request) {
	WriteMessage(w, http.StatusOK, "Logout realizado com sucesso", nil)
}

func meResponse(subject domainauth.Subject) sessiontoken.Claims {
	c := sessiontoken.ClaimsFromSubject(subject)
	// The upstream credential stays inside the token.
	c.MicrosoftToken = ""
	return c
}
