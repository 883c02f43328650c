package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/teamsheet/internal/platform/logging"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
}

// unsetEnv clears key for the test; t.Setenv restores the original afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTH_PROVIDER", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("NOTIFY_WEBHOOK_URL", "")
	t.Setenv("APP_LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AuthProvider != AuthAnubis {
		t.Fatalf("expected default auth provider %q, got %q", AuthAnubis, cfg.AuthProvider)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("expected default storage driver %q, got %q", StoragePostgres, cfg.StorageDriver)
	}
	if cfg.NotifyWorkers != 4 {
		t.Fatalf("expected 4 notify workers, got %d", cfg.NotifyWorkers)
	}
	if cfg.StatsCacheTTL != 30*time.Second {
		t.Fatalf("unexpected StatsCacheTTL: %s", cfg.StatsCacheTTL)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled by default")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		isolateEnv(t)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "jwt without secret", env: map[string]string{"AUTH_PROVIDER": AuthJWT, "JWT_SECRET": ""}},
		{name: "unknown auth provider", env: map[string]string{"AUTH_PROVIDER": "ldap"}},
		{name: "unknown storage driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "webhook without secret", env: map[string]string{"NOTIFY_WEBHOOK_URL": "https://hooks.example.com/teamsheet", "NOTIFY_WEBHOOK_SECRET": ""}},
		{name: "zero notify workers", env: map[string]string{"NOTIFY_WORKERS": "0"}},
		{name: "negative stats ttl", env: map[string]string{"STATS_CACHE_TTL": "-1s"}},
		{name: "bad log level", env: map[string]string{"APP_LOG_LEVEL": "loud"}},
		{name: "bad log format", env: map[string]string{"APP_LOG_FORMAT": "xml"}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": "", "OTEL_EXPORTER_OTLP_HEADERS": ""}},
		{name: "pyroscope without address", env: map[string]string{"PYROSCOPE_ENABLED": "true", "PYROSCOPE_SERVER_ADDRESS": ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateEnv(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLoad_JWTProvider(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AUTH_PROVIDER", "JWT")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ISSUER", "teamsheet")
	t.Setenv("JWT_LEEWAY", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AuthProvider != AuthJWT {
		t.Fatalf("unexpected AuthProvider: %q", cfg.AuthProvider)
	}
	if cfg.JWTSecret != "s3cret" || cfg.JWTIssuer != "teamsheet" {
		t.Fatalf("unexpected jwt settings: %+v", cfg)
	}
	if cfg.JWTLeeway != time.Minute {
		t.Fatalf("unexpected JWTLeeway: %s", cfg.JWTLeeway)
	}
}

func TestLoad_WebhookSettings(t *testing.T) {
	isolateEnv(t)
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.example.com/teamsheet")
	t.Setenv("NOTIFY_WEBHOOK_SECRET", "hook-secret")
	t.Setenv("NOTIFY_WEBHOOK_MAX_ATTEMPTS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.NotifyWebhookMaxAttempts != 5 {
		t.Fatalf("unexpected NotifyWebhookMaxAttempts: %d", cfg.NotifyWebhookMaxAttempts)
	}
	if cfg.NotifyWebhookTimeout != 5*time.Second {
		t.Fatalf("unexpected NotifyWebhookTimeout: %s", cfg.NotifyWebhookTimeout)
	}
	if !cfg.NotifyCircuitEnabled {
		t.Fatalf("expected webhook circuit enabled by default")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	isolateEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn=\"https://token@api.uptrace.dev?grpc=4317\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "test.env")
	content := "STORAGE_DRIVER=memory\nNOTIFY_WORKERS=7\nAPP_SERVICE_NAME=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("APP_ENV_FILE", path)
	unsetEnv(t, "STORAGE_DRIVER")
	unsetEnv(t, "NOTIFY_WORKERS")
	t.Setenv("APP_SERVICE_NAME", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected storage driver from env file, got %q", cfg.StorageDriver)
	}
	if cfg.NotifyWorkers != 7 {
		t.Fatalf("expected notify workers from env file, got %d", cfg.NotifyWorkers)
	}
	if cfg.ServiceName != "from-env" {
		t.Fatalf("expected process env to win over env file, got %q", cfg.ServiceName)
	}
}
