package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/football-pipeline/internal/config"
	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

const fixturesBody = `{
	"get": "fixtures",
	"errors": [],
	"results": 2,
	"response": [
		{
			"fixture": {"id": 1035037, "referee": "M. Oliver", "date": "2023-08-11T21:00:00+02:00",
				"venue": {"id": 512, "name": "Turf Moor"}, "status": {"long": "Match Finished", "short": "FT"}},
			"league": {"id": 39, "name": "Premier League", "season": 2023},
			"teams": {"home": {"id": 44, "name": "Burnley"}, "away": {"id": 50, "name": "Manchester City"}},
			"goals": {"home": 0, "away": 3}
		},
		{
			"fixture": {"id": 1035040, "referee": null, "date": "2099-05-19T15:00:00+00:00",
				"venue": {"id": null, "name": null}, "status": {"long": "Not Started", "short": "NS"}},
			"league": {"id": 39, "name": "Premier League", "season": 2023},
			"teams": {"home": {"id": 42, "name": "Arsenal"}, "away": {"id": 45, "name": "Everton"}},
			"goals": {"home": null, "away": null}
		}
	]
}`

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		AppEnv:              config.EnvDev,
		ServiceName:         "football-pipeline-test",
		APIFootballKey:      "test-key",
		APIFootballBaseURL:  baseURL,
		APIFootballTimeout:  5 * time.Second,
		DBDriver:            config.DBDriverSQLite,
		DBURL:               filepath.Join(dir, "db", "football.db"),
		DBAutoMigrate:       true,
		RawDataDir:          filepath.Join(dir, "raw"),
		ProcessedDataDir:    filepath.Join(dir, "processed"),
		PipelineLoadMode:    config.LoadModeInsert,
		PipelineWorkers:     2,
		PipelineMetricsFile: filepath.Join(dir, "pipeline.prom"),
	}
}

func TestApp_RunPipelineEndToEnd(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("x-apisports-key") != "test-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fixturesBody))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	ctx := context.Background()

	first, err := a.Pipeline.Run(ctx, usecase.RunInput{LeagueID: 39, Season: 2023})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.InsertedCount != 2 || first.TotalCount != 2 {
		t.Fatalf("unexpected first run counts: %+v", first)
	}
	if _, err := os.Stat(first.RawPath); err != nil {
		t.Fatalf("raw snapshot missing: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(first.StagedPath), "processed_fixtures_39_2023_") {
		t.Fatalf("unexpected staged path: %s", first.StagedPath)
	}

	second, err := a.Pipeline.Run(ctx, usecase.RunInput{LeagueID: 39, Season: 2023})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.InsertedCount != 0 || second.TotalCount != 2 {
		t.Fatalf("rerun must not duplicate rows: %+v", second)
	}

	repo, err := a.OpenRepository(ctx)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer repo.Close()

	queries := usecase.NewFixtureQueryService(repo)
	results, err := queries.RecentResults(ctx, "city", 0)
	if err != nil {
		t.Fatalf("recent results: %v", err)
	}
	if len(results) != 1 || results[0].HomeTeam != "Burnley" || *results[0].AwayGoals != 3 {
		t.Fatalf("unexpected results: %+v", results)
	}
	upcoming, err := queries.UpcomingFixtures(ctx, "", 0)
	if err != nil {
		t.Fatalf("upcoming fixtures: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].HomeTeam != "Arsenal" || upcoming[0].VenueName != nil {
		t.Fatalf("unexpected upcoming: %+v", upcoming)
	}

	if err := a.Flush(); err != nil {
		t.Fatalf("flush metrics: %v", err)
	}
	raw, err := os.ReadFile(cfg.PipelineMetricsFile)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	for _, want := range []string{
		`pipeline_runs_total{outcome="success"} 1`,
		`pipeline_runs_total{outcome="empty"} 1`,
		`fixtures_inserted_total 2`,
	} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("metrics file missing %q:\n%s", want, raw)
		}
	}
}

func TestApp_BatchIsolatesFailingSeason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("season") == "1999" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"plan does not cover this season"}`))
			return
		}
		_, _ = w.Write([]byte(fixturesBody))
	}))
	defer srv.Close()

	a, err := New(testConfig(t, srv.URL), nil)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	result, err := a.Batch.RunAll(context.Background(), []usecase.RunInput{
		{LeagueID: 39, Season: 1999},
		{LeagueID: 39, Season: 2023},
	})
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected batch counts: %+v", result)
	}
	if !strings.Contains(result.Jobs[0].Message, "status=403") {
		t.Fatalf("expected forbidden failure message, got %q", result.Jobs[0].Message)
	}
}

func TestNew_RejectsUnknownLoadMode(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.PipelineLoadMode = "merge"
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected error for unknown load mode")
	}
}
