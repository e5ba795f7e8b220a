package testutil

import "testing"

func TestDefaultTestDBConfig(t *testing.T) {
	t.Run("defaults to local test database port 55432", func(t *testing.T) {
		for _, k := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"} {
			t.Setenv(k, "")
		}

		cfg := DefaultTestDBConfig()
		want := TestDBConfig{Host: "localhost", Port: "55432", User: "pict", Password: "pict", DBName: "pict"}
		if cfg != want {
			t.Errorf("expected %+v, got %+v", want, cfg)
		}
	})

	t.Run("respects TEST_DB_* environment variables", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "postgres")
		t.Setenv("TEST_DB_PORT", "5432")
		t.Setenv("TEST_DB_USER", "ci")
		t.Setenv("TEST_DB_PASSWORD", "secret")
		t.Setenv("TEST_DB_NAME", "pict_ci")

		cfg := DefaultTestDBConfig()
		if cfg.Host != "postgres" || cfg.Port != "5432" {
			t.Errorf("expected postgres:5432, got %s:%s", cfg.Host, cfg.Port)
		}
		if cfg.User != "ci" || cfg.Password != "secret" || cfg.DBName != "pict_ci" {
			t.Errorf("unexpected credentials %+v", cfg)
		}
	})
}

func TestBuildBaseDSN(t *testing.T) {
	t.Setenv("DB_SSL_MODE", "")
	dsn := buildBaseDSN(TestDBConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n"})
	if dsn != "postgres://u:p@db:5432/n?sslmode=disable" {
		t.Errorf("unexpected dsn %s", dsn)
	}
}
