// Command pipeline fetches, stages and loads football fixtures and answers
// read-only queries over the loaded table.
//
// Usage:
//
//	pipeline run --league 39 --season 2023
//	pipeline batch --jobs jobs.yaml
//	pipeline batch --league 39 --season 2022 --season 2023
//	pipeline load --dir data/processed
//	pipeline fixtures arsenal --limit 5
//	pipeline standings --league 140
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/football-pipeline/internal/app"
	"github.com/riskibarqy/football-pipeline/internal/config"
	"github.com/riskibarqy/football-pipeline/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/football-pipeline/internal/observability"
	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

func main() {
	config.LoadDotEnv()

	root := &cobra.Command{
		Use:           "pipeline",
		Short:         "Football fixtures ETL pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		runCmd(),
		batchCmd(),
		loadCmd(),
		countCmd(),
		fixturesCmd(),
		resultsCmd(),
		standingsCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var leagueID, season int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, stage and load one league season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				in := usecase.RunInput{
					LeagueID: flagOr(cmd, "league", leagueID, a.Config.PipelineLeagueID),
					Season:   flagOr(cmd, "season", season, a.Config.PipelineSeason),
				}
				result, err := a.Pipeline.Run(ctx, in)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().IntVar(&leagueID, "league", 0, "League id (default PIPELINE_LEAGUE_ID)")
	cmd.Flags().IntVar(&season, "season", 0, "Season year (default PIPELINE_SEASON)")
	return cmd
}

func batchCmd() *cobra.Command {
	var (
		jobsFile string
		leagueID int
		seasons  []int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run several league seasons on the worker pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				jobs, err := resolveJobs(jobsFile, flagOr(cmd, "league", leagueID, a.Config.PipelineLeagueID), seasons)
				if err != nil {
					return err
				}
				result, err := a.Batch.RunAll(ctx, jobs)
				if err != nil {
					return err
				}
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				if result.FailedCount > 0 {
					return fmt.Errorf("%d of %d jobs failed", result.FailedCount, result.JobCount)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&jobsFile, "jobs", "", "YAML file listing league/season jobs")
	cmd.Flags().IntVar(&leagueID, "league", 0, "League id for --season jobs (default PIPELINE_LEAGUE_ID)")
	cmd.Flags().IntSliceVar(&seasons, "season", nil, "Season year; repeat for several seasons")
	cmd.MarkFlagsMutuallyExclusive("jobs", "season")
	return cmd
}

func loadCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load every staged snapshot in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRepository(func(ctx context.Context, a *app.App, repo *sqlstore.FixtureRepository) error {
				if strings.TrimSpace(dir) == "" {
					dir = a.Config.ProcessedDataDir
				}
				inserted, err := repo.LoadAll(ctx, dir)
				if err != nil {
					return err
				}
				total, err := repo.Count(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"dir":      dir,
					"inserted": inserted,
					"total":    total,
				})
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory of staged snapshots (default PROCESSED_DATA_DIR)")
	return cmd
}

func countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of stored fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRepository(func(ctx context.Context, _ *app.App, repo *sqlstore.FixtureRepository) error {
				total, err := repo.Count(ctx)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]int{"total": total})
			})
		},
	}
}

func fixturesCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "fixtures [team]",
		Short: "List upcoming fixtures, optionally for one team",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(ctx context.Context, _ *app.App, repo *sqlstore.FixtureRepository) error {
				out, err := usecase.NewFixtureQueryService(repo).UpcomingFixtures(ctx, strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows (default 10)")
	return cmd
}

func resultsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "results [team]",
		Short: "List recent results, optionally for one team",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(ctx context.Context, _ *app.App, repo *sqlstore.FixtureRepository) error {
				out, err := usecase.NewFixtureQueryService(repo).RecentResults(ctx, strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows (default 5)")
	return cmd
}

func standingsCmd() *cobra.Command {
	var leagueID int64
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print the points table for a league",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRepository(func(ctx context.Context, _ *app.App, repo *sqlstore.FixtureRepository) error {
				out, err := usecase.NewFixtureQueryService(repo).Standings(ctx, leagueID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().Int64Var(&leagueID, "league", 39, "League id")
	return cmd
}

// withApp loads config, builds the app and flushes metrics on the way out.
func withApp(fn func(ctx context.Context, a *app.App) error) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg)
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	defer func() {
		if shutdownErr := shutdownTracing(context.Background()); shutdownErr != nil {
			logger.Warn("uptrace shutdown failed", "error", shutdownErr)
		}
	}()

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if flushErr := a.Flush(); flushErr != nil {
			logger.Warn("flush metrics failed", "error", flushErr)
		}
	}()

	return fn(ctx, a)
}

func withRepository(fn func(ctx context.Context, a *app.App, repo *sqlstore.FixtureRepository) error) error {
	return withApp(func(ctx context.Context, a *app.App) error {
		repo, err := a.OpenRepository(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				a.Logger.Warn("close fixture repository failed", "error", closeErr)
			}
		}()
		return fn(ctx, a, repo)
	})
}

func flagOr(cmd *cobra.Command, name string, value, fallback int) int {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

func writeJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	raw = append(raw, '\n')
	_, err = w.Write(raw)
	return err
}
