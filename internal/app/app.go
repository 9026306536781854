package app

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/football-pipeline/external/apisports"
	"github.com/riskibarqy/football-pipeline/internal/config"
	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	"github.com/riskibarqy/football-pipeline/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/football-pipeline/internal/infrastructure/snapshot"
	"github.com/riskibarqy/football-pipeline/internal/observability"
	idgen "github.com/riskibarqy/football-pipeline/internal/platform/id"
	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-pipeline/internal/platform/resilience"
	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

// App holds the wired pipeline components for one process.
type App struct {
	Config  config.Config
	Logger  *logging.Logger
	Metrics *observability.Metrics

	Pipeline *usecase.PipelineService
	Batch    *usecase.BatchService

	loadMode sqlstore.LoadMode
}

// NewLogger builds the process logger from config.
func NewLogger(cfg config.Config) *logging.Logger {
	return logging.New(logging.Options{
		Level:      cfg.LogLevel,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	}).With("service", cfg.ServiceName, "env", cfg.AppEnv)
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	loadMode, err := sqlstore.ParseLoadMode(cfg.PipelineLoadMode)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  observability.NewMetrics(),
		loadMode: loadMode,
	}

	fetcher := apisports.NewClient(apisports.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.APIFootballTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL: cfg.APIFootballBaseURL,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	a.Pipeline = usecase.NewPipelineService(usecase.PipelineServiceConfig{
		Fetcher:     fetcher,
		RawStore:    snapshot.NewRawStore(cfg.RawDataDir, logger),
		Normalizer:  apisports.NewNormalizer(logger),
		StagedStore: snapshot.NewStagedStore(cfg.ProcessedDataDir, logger),
		OpenRepository: func(ctx context.Context) (fixture.Repository, error) {
			return a.OpenRepository(ctx)
		},
		IDGenerator: idgen.NewULIDGenerator(),
		APIKey:      cfg.APIFootballKey,
		Logger:      logger,
		Metrics:     a.Metrics,
	})
	a.Batch = usecase.NewBatchService(a.Pipeline, cfg.PipelineWorkers, logger)

	return a, nil
}

// OpenRepository connects to the configured fixtures database. The caller
// owns the returned repository.
func (a *App) OpenRepository(ctx context.Context) (*sqlstore.FixtureRepository, error) {
	repo, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver:                      a.Config.DBDriver,
		DSN:                         a.Config.DBURL,
		DisablePreparedBinaryResult: a.Config.DBDisablePreparedBinary,
		AutoMigrate:                 a.Config.DBAutoMigrate,
		LoadMode:                    a.loadMode,
		Logger:                      a.Logger,
		Metrics:                     a.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("open fixture repository: %w", err)
	}
	return repo, nil
}

// Flush writes the metrics textfile when one is configured.
func (a *App) Flush() error {
	if err := a.Metrics.WriteTextfile(a.Config.PipelineMetricsFile); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
