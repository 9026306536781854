package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
)

const (
	batchStatusSuccess = "success"
	batchStatusFailed  = "failed"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, in RunInput) (RunResult, error)
}

type BatchResult struct {
	JobCount     int              `json:"job_count"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	WorkerCount  int              `json:"worker_count"`
	Jobs         []BatchJobResult `json:"jobs"`
}

type BatchJobResult struct {
	LeagueID   int        `json:"league_id"`
	Season     int        `json:"season"`
	Status     string     `json:"status"`
	Result     *RunResult `json:"result,omitempty"`
	DurationMs int64      `json:"duration_ms"`
	Message    string     `json:"message,omitempty"`
}

// BatchService fans league seasons out over a bounded worker pool. A failing
// job is reported and never stops the others.
type BatchService struct {
	runner  Runner
	workers int
	logger  *logging.Logger
}

func NewBatchService(runner Runner, workers int, logger *logging.Logger) *BatchService {
	if workers < 1 {
		workers = 1
	}
	return &BatchService{
		runner:  runner,
		workers: workers,
		logger:  logging.OrNop(logger),
	}
}

func (s *BatchService) RunAll(ctx context.Context, jobs []RunInput) (result BatchResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BatchService.RunAll", attribute.Int("jobs", len(jobs)))
	defer func() { endSpan(span, err) }()

	jobs = dedupeJobs(jobs)
	if len(jobs) == 0 {
		return BatchResult{}, fmt.Errorf("%w: at least one league season is required", ErrInvalidInput)
	}

	workerCount := min(s.workers, len(jobs))
	result = BatchResult{
		JobCount:    len(jobs),
		WorkerCount: workerCount,
		Jobs:        make([]BatchJobResult, 0, len(jobs)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan BatchJobResult, len(jobs))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, job := range jobs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := BatchJobResult{LeagueID: job.LeagueID, Season: job.Season}

			runResult, runErr := s.runJob(ctx, job)
			row.DurationMs = time.Since(start).Milliseconds()
			if runErr != nil {
				row.Status = batchStatusFailed
				row.Message = runErr.Error()
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "batch job failed", "league_id", job.LeagueID, "season", job.Season, "error", runErr)
			} else {
				row.Status = batchStatusSuccess
				row.Result = &runResult
				successCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return BatchResult{}, fmt.Errorf("submit job to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Jobs = append(result.Jobs, row)
	}
	sort.SliceStable(result.Jobs, func(i, j int) bool {
		if result.Jobs[i].LeagueID != result.Jobs[j].LeagueID {
			return result.Jobs[i].LeagueID < result.Jobs[j].LeagueID
		}
		return result.Jobs[i].Season < result.Jobs[j].Season
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "batch finished",
		"jobs", result.JobCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"workers", workerCount,
	)
	return result, nil
}

func (s *BatchService) runJob(ctx context.Context, job RunInput) (out RunResult, err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		out, err = s.runner.Run(ctx, job)
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return RunResult{}, recovered.AsError()
	}
	return out, err
}

func dedupeJobs(jobs []RunInput) []RunInput {
	seen := make(map[RunInput]struct{}, len(jobs))
	out := make([]RunInput, 0, len(jobs))
	for _, job := range jobs {
		if _, ok := seen[job]; ok {
			continue
		}
		seen[job] = struct{}{}
		out = append(out, job)
	}
	return out
}
