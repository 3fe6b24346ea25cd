package config

import (
	"testing"
	"time"

	"github.com/riskibarqy/goal-archive/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":3000" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.RankingsBaseURL != "http://localhost:90" {
		t.Fatalf("unexpected RankingsBaseURL: %q", cfg.RankingsBaseURL)
	}
	if cfg.RankingsTimeout != 20*time.Second {
		t.Fatalf("unexpected RankingsTimeout: %s", cfg.RankingsTimeout)
	}
	if cfg.RankingsMaxRetries != 0 || cfg.RankingsCircuitEnabled {
		t.Fatalf("expected no retries and no circuit breaker by default")
	}
	if cfg.RankingsDefaultYear != 2024 {
		t.Fatalf("unexpected RankingsDefaultYear: %d", cfg.RankingsDefaultYear)
	}
	if cfg.RankingsFetchWorkers != 64 {
		t.Fatalf("unexpected RankingsFetchWorkers: %d", cfg.RankingsFetchWorkers)
	}
	if cfg.ViewIdleTTL != 30*time.Minute || cfg.ViewSweepInterval != time.Minute {
		t.Fatalf("unexpected view lifetimes: ttl=%s sweep=%s", cfg.ViewIdleTTL, cfg.ViewSweepInterval)
	}
	if cfg.PyroscopeAppName != "goal-archive-web" {
		t.Fatalf("expected pyroscope app name to follow service name, got %q", cfg.PyroscopeAppName)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `x-other=1, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeRequiresServerAddress(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_BetterStack(t *testing.T) {
	t.Run("requires endpoint when enabled", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("BETTERSTACK_ENABLED", "true")
		t.Setenv("BETTERSTACK_ENDPOINT", "")

		if _, err := Load(); err == nil {
			t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
		}
	})

	t.Run("parses shipping settings", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("BETTERSTACK_ENABLED", "true")
		t.Setenv("BETTERSTACK_ENDPOINT", "in.logs.betterstack.com")
		t.Setenv("BETTERSTACK_TOKEN", " token ")
		t.Setenv("BETTERSTACK_MIN_LEVEL", "error")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.BetterStackEndpoint != "in.logs.betterstack.com" || cfg.BetterStackToken != "token" {
			t.Fatalf("unexpected betterstack target: %q %q", cfg.BetterStackEndpoint, cfg.BetterStackToken)
		}
		if cfg.BetterStackMinLevel != logging.LevelError {
			t.Fatalf("unexpected BetterStackMinLevel: %s", cfg.BetterStackMinLevel)
		}
		if cfg.BetterStackTimeout != 3*time.Second {
			t.Fatalf("unexpected BetterStackTimeout: %s", cfg.BetterStackTimeout)
		}
	})
}

func TestLoad_RankingsSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("RANKINGS_BASE_URL", "https://api.goal-archive.example.com/")
	t.Setenv("RANKINGS_TIMEOUT", "5s")
	t.Setenv("RANKINGS_MAX_RETRIES", "2")
	t.Setenv("RANKINGS_CIRCUIT_ENABLED", "true")
	t.Setenv("RANKINGS_DEFAULT_YEAR", "2023")
	t.Setenv("RANKINGS_FETCH_WORKERS", "8")
	t.Setenv("APP_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RankingsBaseURL != "https://api.goal-archive.example.com" {
		t.Fatalf("expected trailing slash to be trimmed, got %q", cfg.RankingsBaseURL)
	}
	if cfg.RankingsTimeout != 5*time.Second || cfg.RankingsMaxRetries != 2 {
		t.Fatalf("unexpected rankings client settings: timeout=%s retries=%d", cfg.RankingsTimeout, cfg.RankingsMaxRetries)
	}
	if !cfg.RankingsCircuitEnabled {
		t.Fatalf("expected RankingsCircuitEnabled=true")
	}
	if cfg.RankingsDefaultYear != 2023 || cfg.RankingsFetchWorkers != 8 {
		t.Fatalf("unexpected year/workers: %d/%d", cfg.RankingsDefaultYear, cfg.RankingsFetchWorkers)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"RANKINGS_BASE_URL":              "not a url",
		"RANKINGS_MAX_RETRIES":           "-1",
		"RANKINGS_FETCH_WORKERS":         "0",
		"RANKINGS_CIRCUIT_FAILURE_COUNT": "0",
		"RANKINGS_TIMEOUT":               "soon",
		"VIEW_IDLE_TTL":                  "-1m",
		"RANKINGS_DEFAULT_YEAR":          "MMXXIV",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
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
		t.Setenv("APP_ENV", EnvDev)
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
