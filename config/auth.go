package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses the Microsoft identity platform for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// MicrosoftConfig contains the app registration used against login.microsoftonline.com.
type MicrosoftConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	TenantID     string `env:"TENANT_ID"       envDefault:"common"`
	RedirectURL  string `env:"REDIRECT_URI"    envDefault:"http://localhost:8000/api/v1/auth/callback"`
	Scope        string `env:"SCOPE"           envDefault:"User.Read openid profile email"`
	ProfileURL   string `env:"PROFILE_URL"     envDefault:"https://graph.microsoft.com/v1.0/me"`
	// VerifyIDToken enables signature and nonce checks on the returned id_token.
	// Requires OIDC discovery against the tenant issuer at startup.
	VerifyIDToken bool          `env:"VERIFY_ID_TOKEN" envDefault:"false"`
	HTTPTimeout   time.Duration `env:"HTTP_TIMEOUT"    envDefault:"15s"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Email       string `env:"EMAIL"        envDefault:"dev.aluno@ibmec.edu.br"`
	DisplayName string `env:"DISPLAY_NAME" envDefault:"Dev User"`
	Department  string `env:"DEPARTMENT"`
	JobTitle    string `env:"JOB_TITLE"`
}

// SessionConfig controls the signed session tokens handed to the SPA.
type SessionConfig struct {
	// SecretKey signs session tokens (HS256).
	SecretKey string        `env:"SECRET_KEY,required,notEmpty"`
	TTL       time.Duration `env:"SESSION_TTL"    envDefault:"24h"`
	Issuer    string        `env:"SESSION_ISSUER" envDefault:"pict-api"`
	// StateTTL bounds how long a login may sit at the provider before the callback.
	StateTTL time.Duration `env:"LOGIN_STATE_TTL" envDefault:"10m"`
}

// IdentityRulesConfig parameterizes the role decision table.
type IdentityRulesConfig struct {
	// AdminIdentifier grants admin on exact email match or prefix match.
	AdminIdentifier string `env:"ADMIN_IDENTIFIER" envDefault:"202302129633"`
	// AdminDomain is appended to AdminIdentifier for the exact-match rule.
	AdminDomain string `env:"ADMIN_DOMAIN" envDefault:"ibmec.edu.br"`
	// AdvisorDomain is the mail subdomain reserved for faculty.
	AdvisorDomain string `env:"ADVISOR_DOMAIN" envDefault:"professores.ibmec.edu.br"`
	// KeywordAdmin enables the admin grant for emails containing an admin keyword.
	KeywordAdmin  bool     `env:"KEYWORD_ADMIN"  envDefault:"true"`
	AdminKeywords []string `env:"ADMIN_KEYWORDS" envDefault:"admin,coordenador" envSeparator:","`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// Microsoft configuration (used when Mode=oauth).
	Microsoft MicrosoftConfig `envPrefix:"MICROSOFT_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	Session SessionConfig

	Identity IdentityRulesConfig `envPrefix:"IDENTITY_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Session.TTL <= 0 {
		a.Session.TTL = 24 * time.Hour
	}
	if a.Session.StateTTL <= 0 {
		a.Session.StateTTL = 10 * time.Minute
	}
	if a.Microsoft.HTTPTimeout <= 0 {
		a.Microsoft.HTTPTimeout = 15 * time.Second
	}
	a.Microsoft.TenantID = strings.TrimSpace(a.Microsoft.TenantID)
	if a.Microsoft.TenantID == "" {
		a.Microsoft.TenantID = "common"
	}
	a.Identity.AdminIdentifier = strings.TrimSpace(a.Identity.AdminIdentifier)
	a.Identity.AdvisorDomain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(a.Identity.AdvisorDomain), "@"))
	a.Identity.AdminKeywords = normalizeList(a.Identity.AdminKeywords, strings.ToLower)
}

func normalizeList(in []string, fn func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if fn != nil {
			v = fn(v)
		}
		out = append(out, v)
	}
	return out
}
