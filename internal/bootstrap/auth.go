package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/ibmec/pict-api/config"
	"github.com/ibmec/pict-api/internal/adapters/devauth"
	"github.com/ibmec/pict-api/internal/adapters/memstate"
	"github.com/ibmec/pict-api/internal/adapters/oidc"
	redisadapter "github.com/ibmec/pict-api/internal/adapters/redis"
	"github.com/ibmec/pict-api/internal/ports"
	"github.com/ibmec/pict-api/internal/sessiontoken"
)

// AuthConfig contains configuration for the auth adapters.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	KeyPrefix   string
	Logger      *slog.Logger
}

// BuildAuthProvider returns the identity provider for the configured mode.
//
//nolint:ireturn // the provider is chosen at runtime.
func BuildAuthProvider(ctx context.Context, cfg AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		dev := cfg.Auth.DevAuth
		prov, err := devauth.NewProvider(devauth.Config{
			Email:       dev.Email,
			DisplayName: dev.DisplayName,
			Department:  dev.Department,
			JobTitle:    dev.JobTitle,
			CallbackURL: cfg.Auth.Microsoft.RedirectURL,
		})
		if err != nil {
			return nil, fmt.Errorf("dev auth provider: %w", err)
		}
		if cfg.Logger != nil {
			cfg.Logger.WarnContext(ctx, "dev auth enabled; every login resolves to a fixed identity", "email", dev.Email)
		}
		return prov, nil

	case config.AuthModeOAuth:
		ms := cfg.Auth.Microsoft
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			ClientID:      ms.ClientID,
			ClientSecret:  ms.ClientSecret,
			TenantID:      ms.TenantID,
			RedirectURL:   ms.RedirectURL,
			Scope:         ms.Scope,
			ProfileURL:    ms.ProfileURL,
			VerifyIDToken: ms.VerifyIDToken,
			HTTPClient:    &http.Client{Timeout: ms.HTTPTimeout},
		})
		if err != nil {
			return nil, fmt.Errorf("microsoft provider: %w", err)
		}
		return prov, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

// BuildStateStore keeps login state in Redis when available so that any
// replica can complete a login, and in process memory otherwise.
//
//nolint:ireturn // the store is chosen at runtime.
func BuildStateStore(cfg AuthConfig) ports.StateStore {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Info("login state kept in memory; run a single replica")
		}
		return memstate.New()
	}
	return redisadapter.NewStateStoreWithPrefix(cfg.RedisClient, cfg.KeyPrefix+"login_state:")
}

// BuildTokenService creates the session token signer.
func BuildTokenService(cfg config.SessionConfig) (*sessiontoken.Service, error) {
	svc, err := sessiontoken.New(sessiontoken.Options{
		Secret: cfg.SecretKey,
		TTL:    cfg.TTL,
		Issuer: cfg.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("session tokens: %w", err)
	}
	return svc, nil
}
