package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
)

// Config stores runtime configuration for the pipeline binaries.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string

	LogLevel      logging.Level
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int

	APIFootballKey                   string
	APIFootballBaseURL               string
	APIFootballTimeout               time.Duration
	APIFootballCircuitEnabled        bool
	APIFootballCircuitFailureCount   int
	APIFootballCircuitOpenTimeout    time.Duration
	APIFootballCircuitHalfOpenMaxReq int

	TelegramBotToken string
	BotCacheTTL      time.Duration

	DBDriver                string
	DBURL                   string
	DBAutoMigrate           bool
	DBDisablePreparedBinary bool

	RawDataDir       string
	ProcessedDataDir string

	PipelineLeagueID    int
	PipelineSeason      int
	PipelineLoadMode    string
	PipelineWorkers     int
	PipelineMetricsFile string

	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeUploadRate    time.Duration
}

// LoadDotEnv seeds the environment from .env files when present. Variables
// already set in the environment win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logMaxSizeMB, err := getEnvAsInt("APP_LOG_MAX_SIZE_MB", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_MAX_SIZE_MB: %w", err)
	}
	if logMaxSizeMB < 1 {
		return Config{}, fmt.Errorf("APP_LOG_MAX_SIZE_MB must be >= 1")
	}
	logMaxBackups, err := getEnvAsInt("APP_LOG_MAX_BACKUPS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_MAX_BACKUPS: %w", err)
	}
	if logMaxBackups < 0 {
		return Config{}, fmt.Errorf("APP_LOG_MAX_BACKUPS must be >= 0")
	}

	apiTimeout, err := time.ParseDuration(getEnv("API_FOOTBALL_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse API_FOOTBALL_TIMEOUT: %w", err)
	}
	if apiTimeout <= 0 {
		return Config{}, fmt.Errorf("API_FOOTBALL_TIMEOUT must be > 0")
	}
	apiCircuitEnabled, err := strconv.ParseBool(getEnv("API_FOOTBALL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse API_FOOTBALL_CIRCUIT_ENABLED: %w", err)
	}
	apiCircuitFailureCount, err := getEnvAsInt("API_FOOTBALL_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse API_FOOTBALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if apiCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("API_FOOTBALL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	apiCircuitOpenTimeout, err := time.ParseDuration(getEnv("API_FOOTBALL_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse API_FOOTBALL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if apiCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("API_FOOTBALL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	apiCircuitHalfOpenMaxReq, err := getEnvAsInt("API_FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse API_FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if apiCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("API_FOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	botCacheTTL, err := time.ParseDuration(getEnv("BOT_CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BOT_CACHE_TTL: %w", err)
	}
	if botCacheTTL < 0 {
		return Config{}, fmt.Errorf("BOT_CACHE_TTL must be >= 0")
	}

	dbDriver, err := parseDBDriver(getEnv("DB_DRIVER", DBDriverSQLite))
	if err != nil {
		return Config{}, err
	}
	dbAutoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_AUTO_MIGRATE: %w", err)
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	leagueID, err := getEnvAsInt("PIPELINE_LEAGUE_ID", 39)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_LEAGUE_ID: %w", err)
	}
	if leagueID < 1 {
		return Config{}, fmt.Errorf("PIPELINE_LEAGUE_ID must be >= 1")
	}
	season, err := getEnvAsInt("PIPELINE_SEASON", 2023)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_SEASON: %w", err)
	}
	if season < 1 {
		return Config{}, fmt.Errorf("PIPELINE_SEASON must be >= 1")
	}
	loadMode, err := parseLoadMode(getEnv("PIPELINE_LOAD_MODE", LoadModeInsert))
	if err != nil {
		return Config{}, err
	}
	workers, err := getEnvAsInt("PIPELINE_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse PIPELINE_WORKERS: %w", err)
	}
	if workers < 1 {
		return Config{}, fmt.Errorf("PIPELINE_WORKERS must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	apiKey := strings.TrimSpace(getEnv("API_FOOTBALL_KEY", ""))
	if apiKey == "" {
		apiKey = strings.TrimSpace(getEnv("API_KEY", ""))
	}

	cfg := Config{
		AppEnv:                           appEnv,
		ServiceName:                      getEnv("APP_SERVICE_NAME", "football-pipeline"),
		ServiceVersion:                   getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:                         logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFile:                          strings.TrimSpace(getEnv("APP_LOG_FILE", "")),
		LogMaxSizeMB:                     logMaxSizeMB,
		LogMaxBackups:                    logMaxBackups,
		APIFootballKey:                   apiKey,
		APIFootballBaseURL:               strings.TrimRight(strings.TrimSpace(getEnv("API_FOOTBALL_BASE_URL", "https://v3.football.api-sports.io")), "/"),
		APIFootballTimeout:               apiTimeout,
		APIFootballCircuitEnabled:        apiCircuitEnabled,
		APIFootballCircuitFailureCount:   apiCircuitFailureCount,
		APIFootballCircuitOpenTimeout:    apiCircuitOpenTimeout,
		APIFootballCircuitHalfOpenMaxReq: apiCircuitHalfOpenMaxReq,
		TelegramBotToken:                 strings.TrimSpace(getEnv("TELEGRAM_BOT_TOKEN", "")),
		BotCacheTTL:                      botCacheTTL,
		DBDriver:                         dbDriver,
		DBURL:                            strings.TrimSpace(getEnv("DB_URL", "data/football.db")),
		DBAutoMigrate:                    dbAutoMigrate,
		DBDisablePreparedBinary:          dbDisablePreparedBinary,
		RawDataDir:                       strings.TrimSpace(getEnv("RAW_DATA_DIR", "data/raw")),
		ProcessedDataDir:                 strings.TrimSpace(getEnv("PROCESSED_DATA_DIR", "data/processed")),
		PipelineLeagueID:                 leagueID,
		PipelineSeason:                   season,
		PipelineLoadMode:                 loadMode,
		PipelineWorkers:                  workers,
		PipelineMetricsFile:              strings.TrimSpace(getEnv("PIPELINE_METRICS_FILE", "")),
		UptraceEnabled:                   uptraceEnabled,
		UptraceDSN:                       uptraceDSN,
		PyroscopeEnabled:                 pyroscopeEnabled,
		PyroscopeServerAddress:           pyroscopeServerAddress,
		PyroscopeUploadRate:              pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

const (
	LoadModeInsert = "insert"
	LoadModeUpsert = "upsert"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseDBDriver(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case DBDriverSQLite, "sqlite3":
		return DBDriverSQLite, nil
	case DBDriverPostgres, "postgresql", "pg":
		return DBDriverPostgres, nil
	default:
		return "", fmt.Errorf("invalid DB_DRIVER %q: valid values are %s, %s", v, DBDriverSQLite, DBDriverPostgres)
	}
}

func parseLoadMode(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case LoadModeInsert, LoadModeUpsert:
		return value, nil
	default:
		return "", fmt.Errorf("invalid PIPELINE_LOAD_MODE %q: valid values are %s, %s", v, LoadModeInsert, LoadModeUpsert)
	}
}
