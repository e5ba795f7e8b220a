package config

import "strings"

const defaultServiceName = "pict-api"

// ObservabilityConfig groups configuration that controls metrics and tracing.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
	Tracing ObservabilityTracingConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
	c.Tracing.Sanitize()
}

// ObservabilityMetricsConfig controls the Prometheus scrape endpoint.
type ObservabilityMetricsConfig struct {
	Enabled bool   `env:"OBSERVABILITY_METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"OBSERVABILITY_METRICS_PATH"    envDefault:"/metrics"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.Path = strings.TrimSpace(c.Path)
	if c.Path == "" {
		c.Path = "/metrics"
	}
	if !strings.HasPrefix(c.Path, "/") {
		c.Path = "/" + c.Path
	}
}

// ObservabilityTracingConfig controls OTLP trace export.
// An empty endpoint disables tracing.
type ObservabilityTracingConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	ServiceName string `env:"OTEL_SERVICE_NAME"           envDefault:"pict-api"`
}

// Sanitize normalises tracing configuration values.
func (c *ObservabilityTracingConfig) Sanitize() {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.ServiceName = strings.TrimSpace(c.ServiceName); c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}
}

// IsEnabled returns true when an exporter endpoint is configured.
func (c *ObservabilityTracingConfig) IsEnabled() bool {
	return c.Endpoint != ""
}
