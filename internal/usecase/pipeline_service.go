package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	"github.com/riskibarqy/football-pipeline/internal/domain/rawdata"
	idgen "github.com/riskibarqy/football-pipeline/internal/platform/id"
	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
)

const (
	RunOutcomeSuccess = "success"
	RunOutcomeEmpty   = "empty"
	RunOutcomeFailed  = "failed"
)

// RepositoryOpener acquires the fixtures repository for one run. The caller
// owns the returned repository and must close it.
type RepositoryOpener func(ctx context.Context) (fixture.Repository, error)

// RunMetrics records the outcome of pipeline runs. A nil RunMetrics is ignored.
type RunMetrics interface {
	ObserveRun(outcome string, duration time.Duration, inserted int)
}

type RunInput struct {
	LeagueID int `json:"league_id" yaml:"league"`
	Season   int `json:"season" yaml:"season"`
}

type RunResult struct {
	RunID         string        `json:"run_id"`
	LeagueID      int           `json:"league_id"`
	Season        int           `json:"season"`
	RawPath       string        `json:"raw_path"`
	StagedPath    string        `json:"staged_path"`
	FinishedCount int           `json:"finished_count"`
	InsertedCount int           `json:"inserted_count"`
	TotalCount    int           `json:"total_count"`
	Duration      time.Duration `json:"duration_ns"`
}

type PipelineServiceConfig struct {
	Fetcher        rawdata.Fetcher
	RawStore       rawdata.Store
	Normalizer     fixture.Normalizer
	StagedStore    fixture.StagedWriter
	OpenRepository RepositoryOpener
	IDGenerator    idgen.Generator
	APIKey         string
	Logger         *logging.Logger
	Metrics        RunMetrics
}

// PipelineService runs fetch, raw save, normalize, staged save and load for
// one league season, strictly in that order.
type PipelineService struct {
	fetcher     rawdata.Fetcher
	rawStore    rawdata.Store
	normalizer  fixture.Normalizer
	stagedStore fixture.StagedWriter
	openRepo    RepositoryOpener
	idGen       idgen.Generator
	apiKey      string
	logger      *logging.Logger
	metrics     RunMetrics
}

func NewPipelineService(cfg PipelineServiceConfig) *PipelineService {
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = idgen.NewULIDGenerator()
	}
	return &PipelineService{
		fetcher:     cfg.Fetcher,
		rawStore:    cfg.RawStore,
		normalizer:  cfg.Normalizer,
		stagedStore: cfg.StagedStore,
		openRepo:    cfg.OpenRepository,
		idGen:       idGen,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		logger:      logging.OrNop(cfg.Logger),
		metrics:     cfg.Metrics,
	}
}

// Run aborts on the first fetch, storage or normalize failure. The repository
// is only opened once the staged snapshot exists and is always closed.
func (s *PipelineService) Run(ctx context.Context, in RunInput) (result RunResult, err error) {
	start := time.Now()
	result = RunResult{
		RunID:    s.idGen.NewID(),
		LeagueID: in.LeagueID,
		Season:   in.Season,
	}
	logger := s.logger.With("run_id", result.RunID, "league_id", in.LeagueID, "season", in.Season)

	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run",
		attribute.String("run_id", result.RunID),
		attribute.Int("league_id", in.LeagueID),
		attribute.Int("season", in.Season),
	)
	defer func() {
		result.Duration = time.Since(start)
		s.observe(result, err)
		endSpan(span, err)
	}()

	if in.LeagueID <= 0 || in.Season <= 0 {
		return result, fmt.Errorf("%w: league and season must be greater than zero", ErrInvalidInput)
	}
	if s.apiKey == "" {
		return result, fmt.Errorf("%w: api key is not configured", ErrInvalidInput)
	}

	logger.InfoContext(ctx, "pipeline run started")

	payload, err := s.fetcher.FetchFixtures(ctx, in.LeagueID, in.Season, s.apiKey)
	if err != nil {
		logger.ErrorContext(ctx, "fetch fixtures failed", "error", err)
		return result, errors.Wrap(err, "fetch stage")
	}

	name := rawdata.SnapshotName(in.LeagueID, in.Season, payload.FetchedAt)
	result.RawPath, err = s.rawStore.Save(ctx, payload, name)
	if err != nil {
		logger.ErrorContext(ctx, "save raw snapshot failed", "error", err)
		return result, errors.Wrap(err, "raw store stage")
	}

	rows, err := s.normalizer.NormalizeFile(ctx, result.RawPath)
	if err != nil {
		logger.ErrorContext(ctx, "normalize raw snapshot failed", "raw_path", result.RawPath, "error", err)
		return result, errors.Wrap(err, "normalize stage")
	}
	for _, row := range rows {
		if row.IsFinished() {
			result.FinishedCount++
		}
	}

	result.StagedPath, err = s.stagedStore.Save(ctx, rows, s.stagedStore.PathFor(name))
	if err != nil {
		logger.ErrorContext(ctx, "save staged snapshot failed", "error", err)
		return result, errors.Wrap(err, "staged store stage")
	}

	repo, err := s.openRepo(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "open fixture repository failed", "error", err)
		return result, errors.Wrap(err, "open repository")
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			logger.WarnContext(ctx, "close fixture repository failed", "error", closeErr)
		}
	}()

	result.InsertedCount = repo.LoadSnapshot(ctx, result.StagedPath)
	result.TotalCount, err = repo.Count(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "count fixtures failed", "error", err)
		return result, errors.Wrap(err, "count stage")
	}

	if result.InsertedCount == 0 {
		logger.WarnContext(ctx, "pipeline run inserted no new fixtures",
			"normalized", len(rows),
			"staged_path", result.StagedPath,
			"total", result.TotalCount,
		)
	}

	logger.InfoContext(ctx, "pipeline run finished",
		"raw_path", result.RawPath,
		"staged_path", result.StagedPath,
		"finished", result.FinishedCount,
		"inserted", result.InsertedCount,
		"total", result.TotalCount,
		"duration", time.Since(start),
	)
	return result, nil
}

func (s *PipelineService) observe(result RunResult, err error) {
	if s.metrics == nil {
		return
	}
	outcome := RunOutcomeSuccess
	switch {
	case err != nil:
		outcome = RunOutcomeFailed
	case result.InsertedCount == 0:
		outcome = RunOutcomeEmpty
	}
	s.metrics.ObserveRun(outcome, result.Duration, result.InsertedCount)
}
