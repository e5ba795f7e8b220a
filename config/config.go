package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Microsoft login, session tokens and identity rules
//   - database.go: Database and cache configuration
//   - http.go: HTTP server configuration
//   - storage.go: Uploads and JSON side-files
//   - observability.go: Metrics and tracing
//
// The value is built once at startup and handed to components by value;
// nothing reads the environment after LoadConfig returns.
type AppConfig struct {
	// AppName is reported by the health endpoint.
	AppName string `env:"APP_NAME" envDefault:"IBMEC PICT API"`

	// Version is reported by the health endpoint.
	Version string `env:"APP_VERSION" envDefault:"1.0.0"`

	// IsDev controls development mode behavior.
	// Set DEV=true or APP_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`
	Cache    CacheConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// File storage configuration
	Storage StorageConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Postgres.Sanitize()
	c.Cache.Sanitize()
	c.HTTP.Sanitize()
	c.Storage.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}
