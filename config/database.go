package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"pict"`
	Password string `env:"PASSWORD"                envDefault:"pict"`
	Name     string `env:"NAME"                    envDefault:"pict"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`

	// Pool sizing for the process-owned pgxpool.
	MaxConns        int32         `env:"MAX_CONNS"          envDefault:"25"`
	MinConns        int32         `env:"MIN_CONNS"          envDefault:"2"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME"  envDefault:"5m"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"1m"`
}

// Sanitize clamps pool sizing to usable values.
func (d *DBConfig) Sanitize() {
	if d.MaxConns < 1 {
		d.MaxConns = 1
	}
	if d.MinConns < 0 {
		d.MinConns = 0
	}
	if d.MinConns > d.MaxConns {
		d.MinConns = d.MaxConns
	}
}

// RedisConfig contains Redis configuration.
// Redis is optional: when Enabled is false login state is kept in memory
// and the advisor directory is not cached.
type RedisConfig struct {
	Enabled            bool     `env:"ENABLED"              envDefault:"false"`
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}

// CacheConfig contains cache configuration (Redis-based).
type CacheConfig struct {
	// AdvisorsTTL is the TTL for the cached advisor directory.
	AdvisorsTTL time.Duration `env:"CACHE_ADVISORS_TTL" envDefault:"5m"`
	// KeyPrefix namespaces cache keys when Redis is shared.
	KeyPrefix string `env:"CACHE_KEY_PREFIX" envDefault:"pict:"`
}

// Sanitize applies guardrails to cache configuration values.
func (c *CacheConfig) Sanitize() {
	if c.AdvisorsTTL < 0 {
		c.AdvisorsTTL = 0
	}
}
