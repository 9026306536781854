package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	for _, key := range []string{
		"API_FOOTBALL_KEY", "API_KEY", "DB_DRIVER", "DB_URL", "PIPELINE_LOAD_MODE",
		"PIPELINE_WORKERS", "PIPELINE_LEAGUE_ID", "PIPELINE_SEASON", "UPTRACE_ENABLED",
		"PYROSCOPE_ENABLED", "API_FOOTBALL_BASE_URL", "API_FOOTBALL_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBDriver != DBDriverSQLite || cfg.DBURL != "data/football.db" {
		t.Fatalf("unexpected db defaults: driver=%s url=%s", cfg.DBDriver, cfg.DBURL)
	}
	if cfg.PipelineLeagueID != 39 || cfg.PipelineSeason != 2023 {
		t.Fatalf("unexpected league defaults: %d/%d", cfg.PipelineLeagueID, cfg.PipelineSeason)
	}
	if cfg.PipelineLoadMode != LoadModeInsert || cfg.PipelineWorkers != 1 {
		t.Fatalf("unexpected pipeline defaults: mode=%s workers=%d", cfg.PipelineLoadMode, cfg.PipelineWorkers)
	}
	if cfg.APIFootballBaseURL != "https://v3.football.api-sports.io" || cfg.APIFootballTimeout != 30*time.Second {
		t.Fatalf("unexpected api defaults: %s %s", cfg.APIFootballBaseURL, cfg.APIFootballTimeout)
	}
	if cfg.APIFootballKey != "" {
		t.Fatalf("api key must not have a default")
	}
	if !cfg.DBAutoMigrate {
		t.Fatalf("expected DBAutoMigrate=true by default")
	}
}

func TestLoad_APIKeyFallsBackToLegacyName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_KEY", "")
	t.Setenv("API_KEY", " legacy-key ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIFootballKey != "legacy-key" {
		t.Fatalf("unexpected api key: %q", cfg.APIFootballKey)
	}

	t.Setenv("API_FOOTBALL_KEY", "primary-key")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIFootballKey != "primary-key" {
		t.Fatalf("expected API_FOOTBALL_KEY to win, got %q", cfg.APIFootballKey)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "db driver", key: "DB_DRIVER", value: "mysql"},
		{name: "load mode", key: "PIPELINE_LOAD_MODE", value: "merge"},
		{name: "workers", key: "PIPELINE_WORKERS", value: "0"},
		{name: "league", key: "PIPELINE_LEAGUE_ID", value: "abc"},
		{name: "timeout", key: "API_FOOTBALL_TIMEOUT", value: "-1s"},
		{name: "circuit failures", key: "API_FOOTBALL_CIRCUIT_FAILURE_COUNT", value: "0"},
		{name: "auto migrate", key: "DB_AUTO_MIGRATE", value: "sometimes"},
		{name: "log backups", key: "APP_LOG_MAX_BACKUPS", value: "-2"},
		{name: "bot cache ttl", key: "BOT_CACHE_TTL", value: "-5s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_DriverAliases(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("DB_DRIVER", "PostgreSQL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBDriver != DBDriverPostgres {
		t.Fatalf("unexpected driver: %s", cfg.DBDriver)
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
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "football-bot-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "football-bot-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "PIPELINE_SEASON=2021\nTELEGRAM_BOT_TOKEN=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PIPELINE_SEASON", "2022")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	// godotenv treats an empty variable as set, so unset it for this case.
	os.Unsetenv("TELEGRAM_BOT_TOKEN")

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PipelineSeason != 2022 {
		t.Fatalf("environment must win over .env, got season=%d", cfg.PipelineSeason)
	}
	if cfg.TelegramBotToken != "from-file" {
		t.Fatalf("expected token from .env, got %q", cfg.TelegramBotToken)
	}
}
