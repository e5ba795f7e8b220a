package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("env.Parse() error = %v", err)
	}
	cfg.Sanitize()

	if cfg.Auth.Mode != AuthModeOAuth {
		t.Errorf("Auth.Mode = %q, want %q", cfg.Auth.Mode, AuthModeOAuth)
	}
	if cfg.Auth.Session.TTL != 24*time.Hour {
		t.Errorf("Session.TTL = %v, want 24h", cfg.Auth.Session.TTL)
	}
	if cfg.Auth.Microsoft.TenantID != "common" {
		t.Errorf("Microsoft.TenantID = %q, want common", cfg.Auth.Microsoft.TenantID)
	}
	if !cfg.Auth.Identity.KeywordAdmin {
		t.Error("Identity.KeywordAdmin should default to true")
	}
	if want := []string{"admin", "coordenador"}; !reflect.DeepEqual(cfg.Auth.Identity.AdminKeywords, want) {
		t.Errorf("AdminKeywords = %v, want %v", cfg.Auth.Identity.AdminKeywords, want)
	}
	if cfg.HTTP.APIPrefix != "/api/v1" {
		t.Errorf("HTTP.APIPrefix = %q, want /api/v1", cfg.HTTP.APIPrefix)
	}
	wantOrigins := []string{"http://localhost:3000", "https://localhost:3000", "http://localhost:3001"}
	if got := cfg.HTTP.AllowedOrigins(); !reflect.DeepEqual(got, wantOrigins) {
		t.Errorf("HTTP.AllowedOrigins() = %v, want %v", got, wantOrigins)
	}
	if cfg.Postgres.Port != 5432 {
		t.Errorf("Postgres.Port = %d, want 5432", cfg.Postgres.Port)
	}
	if cfg.Cache.AdvisorsTTL != 5*time.Minute {
		t.Errorf("Cache.AdvisorsTTL = %v, want 5m", cfg.Cache.AdvisorsTTL)
	}
	if cfg.Observability.Tracing.IsEnabled() {
		t.Error("tracing should be disabled without an endpoint")
	}
}

func TestAppConfig_MissingSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected error when SECRET_KEY is unset")
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    AuthMode
		wantErr bool
	}{
		{input: "oauth", want: AuthModeOAuth},
		{input: "MOCK", want: AuthModeMock},
		{input: "saml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var m AuthMode
			err := m.UnmarshalText([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && m != tt.want {
				t.Errorf("UnmarshalText(%q) = %q, want %q", tt.input, m, tt.want)
			}
		})
	}
}

func TestHTTPConfig_AllowedOrigins(t *testing.T) {
	h := HTTPConfig{
		FrontendURL:        "https://pict.ibmec.edu.br/",
		CORSAllowedOrigins: []string{"http://localhost:3000", " http://localhost:3001 ", "http://localhost:3000", ""},
	}
	h.Sanitize()

	want := []string{"https://pict.ibmec.edu.br", "http://localhost:3000", "http://localhost:3001"}
	if got := h.AllowedOrigins(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllowedOrigins() = %v, want %v", got, want)
	}
}

func TestHTTPConfig_SanitizePrefix(t *testing.T) {
	tests := map[string]string{
		"/api/v1": "/api/v1",
		"api/v1/": "/api/v1",
		"":        "",
		"/":       "",
		" /v2 ":   "/v2",
	}
	for in, want := range tests {
		h := HTTPConfig{APIPrefix: in}
		h.Sanitize()
		if h.APIPrefix != want {
			t.Errorf("Sanitize(%q) prefix = %q, want %q", in, h.APIPrefix, want)
		}
	}
}

func TestIdentityRules_Sanitize(t *testing.T) {
	a := AuthConfig{
		Identity: IdentityRulesConfig{
			AdvisorDomain: " @Professores.IBMEC.edu.br ",
			AdminKeywords: []string{" Admin", "", "COORDENADOR "},
		},
	}
	a.Sanitize()

	if a.Identity.AdvisorDomain != "professores.ibmec.edu.br" {
		t.Errorf("AdvisorDomain = %q", a.Identity.AdvisorDomain)
	}
	if want := []string{"admin", "coordenador"}; !reflect.DeepEqual(a.Identity.AdminKeywords, want) {
		t.Errorf("AdminKeywords = %v, want %v", a.Identity.AdminKeywords, want)
	}
	if a.Session.StateTTL != 10*time.Minute {
		t.Errorf("StateTTL = %v, want 10m", a.Session.StateTTL)
	}
}

func TestDBConfig_Sanitize(t *testing.T) {
	d := DBConfig{MaxConns: 0, MinConns: 5}
	d.Sanitize()
	if d.MaxConns != 1 || d.MinConns != 1 {
		t.Errorf("Sanitize() = max %d min %d, want 1/1", d.MaxConns, d.MinConns)
	}
}
