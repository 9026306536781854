package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	"github.com/riskibarqy/football-pipeline/internal/infrastructure/snapshot"
	"github.com/riskibarqy/football-pipeline/internal/platform/logging"
	qb "github.com/riskibarqy/football-pipeline/internal/platform/querybuilder"
	"github.com/riskibarqy/football-pipeline/internal/usecase"
)

var tracer = otel.Tracer("football-pipeline/internal/infrastructure/repository/sqlstore")

const (
	insertSuffix = "ON CONFLICT (fixture_id) DO NOTHING"
	upsertSuffix = `ON CONFLICT (fixture_id) DO UPDATE SET
		home_goals = excluded.home_goals,
		away_goals = excluded.away_goals,
		status_short = excluded.status_short,
		referee = excluded.referee,
		venue_name = excluded.venue_name,
		processed_at = excluded.processed_at,
		home_team_search = excluded.home_team_search,
		away_team_search = excluded.away_team_search
	WHERE fixtures.home_goals IS DISTINCT FROM excluded.home_goals
		OR fixtures.away_goals IS DISTINCT FROM excluded.away_goals
		OR fixtures.status_short IS DISTINCT FROM excluded.status_short
		OR fixtures.referee IS DISTINCT FROM excluded.referee
		OR fixtures.venue_name IS DISTINCT FROM excluded.venue_name
		OR fixtures.home_team_search IS DISTINCT FROM excluded.home_team_search
		OR fixtures.away_team_search IS DISTINCT FROM excluded.away_team_search`
)

const (
	queryUpcoming  = "upcoming_fixtures"
	queryResults   = "recent_results"
	queryStandings = "standings"
	queryCount     = "count"
)

type RepositoryOptions struct {
	LoadMode LoadMode
	Logger   *logging.Logger
	Metrics  Metrics
	Now      func() time.Time
}

// FixtureRepository owns the fixtures table.
type FixtureRepository struct {
	db       *sqlx.DB
	loadMode LoadMode
	logger   *logging.Logger
	metrics  Metrics
	now      func() time.Time

	closeOnce sync.Once
	closeErr  error
}

var _ fixture.Repository = (*FixtureRepository)(nil)

func NewFixtureRepository(db *sqlx.DB, opts RepositoryOptions) *FixtureRepository {
	mode := opts.LoadMode
	if mode == "" {
		mode = LoadModeInsert
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &FixtureRepository{
		db:       db,
		loadMode: mode,
		logger:   logging.OrNop(opts.Logger),
		metrics:  opts.Metrics,
		now:      now,
	}
}

// TryLoadSnapshot loads one staged snapshot in a single transaction and
// returns the number of rows written. Files missing a required column fail
// with *usecase.SnapshotSchemaError and leave the table untouched.
func (r *FixtureRepository) TryLoadSnapshot(ctx context.Context, path string) (int, error) {
	ctx, span := tracer.Start(ctx, "sqlstore.FixtureRepository.TryLoadSnapshot", trace.WithAttributes(
		attribute.String("path", path),
		attribute.String("load_mode", string(r.loadMode)),
	))
	defer span.End()

	staged, err := snapshot.OpenStaged(path)
	if err != nil {
		return 0, err
	}
	if len(staged.Rows) == 0 {
		return 0, nil
	}

	suffix := insertSuffix
	if r.loadMode == LoadModeUpsert {
		suffix = upsertSuffix
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx load snapshot: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	processedAt := r.now()
	inserted := 0
	for _, row := range staged.Rows {
		query, args, err := qb.InsertModel(fixturesTable, newFixtureInsertModel(row, processedAt), suffix)
		if err != nil {
			return 0, fmt.Errorf("build insert fixture query: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return 0, fmt.Errorf("insert fixture %d: %w", row.FixtureID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected for fixture %d: %w", row.FixtureID, err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit load snapshot tx: %w", err)
	}

	span.SetAttributes(attribute.Int("rows", len(staged.Rows)), attribute.Int("inserted", inserted))
	return inserted, nil
}

// LoadSnapshot is TryLoadSnapshot that logs and returns 0 on any failure, so
// one bad file cannot stop a batch.
func (r *FixtureRepository) LoadSnapshot(ctx context.Context, path string) int {
	inserted, err := r.TryLoadSnapshot(ctx, path)
	if err == nil {
		r.logger.InfoContext(ctx, "snapshot loaded", "path", path, "inserted", inserted)
		return inserted
	}

	var schemaErr *usecase.SnapshotSchemaError
	switch {
	case errors.As(err, &schemaErr):
		r.logger.WarnContext(ctx, "snapshot rejected: missing required columns",
			"path", path,
			"missing_columns", strings.Join(schemaErr.Missing, ","),
		)
		r.snapshotRejected("missing_columns")
	case errors.Is(err, usecase.ErrSchema), errors.Is(err, usecase.ErrMissingInput):
		r.logger.WarnContext(ctx, "snapshot rejected: unreadable", "path", path, "error", err)
		r.snapshotRejected("unreadable")
	default:
		r.logger.ErrorContext(ctx, "snapshot load failed", "path", path, "error", err)
		r.snapshotRejected("load_failed")
	}
	return 0
}

// LoadAll loads every staged snapshot in dir in lexicographic order.
func (r *FixtureRepository) LoadAll(ctx context.Context, dir string) (int, error) {
	ctx, span := tracer.Start(ctx, "sqlstore.FixtureRepository.LoadAll", trace.WithAttributes(attribute.String("dir", dir)))
	defer span.End()

	paths, err := snapshot.ListStaged(dir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		total += r.LoadSnapshot(ctx, path)
	}

	r.logger.InfoContext(ctx, "snapshot directory loaded", "dir", dir, "files", len(paths), "inserted", total)
	return total, nil
}

func (r *FixtureRepository) Count(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "sqlstore.FixtureRepository.Count")
	defer span.End()

	query, args, err := qb.Select("COUNT(*)").From(fixturesTable).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count fixtures query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(query), args...); err != nil {
		r.queryFailed(queryCount)
		return 0, fmt.Errorf("count fixtures: %w", err)
	}
	return total, nil
}

func (r *FixtureRepository) QueryUpcomingFixtures(ctx context.Context, q fixture.TeamQuery) ([]fixture.UpcomingFixture, error) {
	ctx, span := tracer.Start(ctx, "sqlstore.FixtureRepository.QueryUpcomingFixtures")
	defer span.End()

	conditions := []qb.Condition{
		qb.Eq("status_short", fixture.StatusNotStarted),
		qb.Gt("date", storedTime(r.now())),
	}
	conditions = append(conditions, teamConditions(q.Team)...)

	query, args, err := qb.Select("fixture_id", "home_team_name", "away_team_name", "date", "venue_name").
		From(fixturesTable).
		Where(conditions...).
		OrderBy("date ASC", "fixture_id ASC").
		Limit(limitOrDefault(q.Limit, fixture.DefaultUpcomingLimit)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build upcoming fixtures query: %w", err)
	}

	var rows []upcomingFixtureModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		r.queryFailed(queryUpcoming)
		return nil, fmt.Errorf("select upcoming fixtures: %w", err)
	}

	out := make([]fixture.UpcomingFixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.UpcomingFixture{
			FixtureID: row.FixtureID,
			HomeTeam:  row.HomeTeamName,
			AwayTeam:  row.AwayTeamName,
			Date:      row.Date.UTC(),
			VenueName: nullStringToPtr(row.VenueName),
		})
	}
	return out, nil
}

func (r *FixtureRepository) QueryRecentResults(ctx context.Context, q fixture.TeamQuery) ([]fixture.Result, error) {
	ctx, span := tracer.Start(ctx, "sqlstore.FixtureRepository.QueryRecentResults")
	defer span.End()

	conditions := []qb.Condition{qb.Eq("status_short", fixture.StatusFullTime)}
	conditions = append(conditions, teamConditions(q.Team)...)

	query, args, err := qb.Select("fixture_id", "home_team_name", "away_team_name", "home_goals", "away_goals", "date").
		From(fixturesTable).
		Where(conditions...).
		OrderBy("date DESC", "fixture_id DESC").
		Limit(limitOrDefault(q.Limit, fixture.DefaultResultsLimit)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build recent results query: %w", err)
	}

	var rows []resultModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		r.queryFailed(queryResults)
		return nil, fmt.Errorf("select recent results: %w", err)
	}

	out := make([]fixture.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Result{
			FixtureID: row.FixtureID,
			HomeTeam:  row.HomeTeamName,
			AwayTeam:  row.AwayTeamName,
			HomeGoals: nullInt64ToIntPtr(row.HomeGoals),
			AwayGoals: nullInt64ToIntPtr(row.AwayGoals),
			Date:      row.Date.UTC(),
		})
	}
	return out, nil
}

// QueryStandings tallies 3 points per win and 1 per draw over finished
// fixtures of the league, home and away appearances combined. Ties are broken
// by team name.
func (r *FixtureRepository) QueryStandings(ctx context.Context, leagueID int64) ([]fixture.Standing, error) {
	ctx, span := tracer.Start(ctx, "sqlstore.FixtureRepository.QueryStandings", trace.WithAttributes(attribute.Int64("league_id", leagueID)))
	defer span.End()

	homeQuery, homeArgs, err := qb.Select(
		"home_team_name AS team_name",
		"CASE WHEN home_goals > away_goals THEN 3 WHEN home_goals = away_goals THEN 1 ELSE 0 END AS points",
		"1 AS games_played",
	).From(fixturesTable).
		Where(qb.Eq("league_id", leagueID), qb.Eq("status_short", fixture.StatusFullTime)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build home standings query: %w", err)
	}

	awayQuery, awayArgs, err := qb.Select(
		"away_team_name AS team_name",
		"CASE WHEN away_goals > home_goals THEN 3 WHEN away_goals = home_goals THEN 1 ELSE 0 END AS points",
		"1 AS games_played",
	).From(fixturesTable).
		Where(qb.Eq("league_id", leagueID), qb.Eq("status_short", fixture.StatusFullTime)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build away standings query: %w", err)
	}

	query, _, err := qb.Select("team_name", "SUM(points) AS total_points", "SUM(games_played) AS games_played").
		From("(" + homeQuery + " UNION ALL " + awayQuery + ") AS appearances").
		GroupBy("team_name").
		OrderBy("total_points DESC", "team_name ASC").
		Limit(fixture.MaxStandingsRows).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build standings query: %w", err)
	}
	args := append(homeArgs, awayArgs...)

	var rows []standingModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		r.queryFailed(queryStandings)
		return nil, fmt.Errorf("select standings for league %d: %w", leagueID, err)
	}

	out := make([]fixture.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Standing{
			TeamName:    row.TeamName,
			Points:      row.Points,
			GamesPlayed: row.GamesPlayed,
		})
	}
	return out, nil
}

// UpcomingFixtures degrades to an empty list when the query fails.
func (r *FixtureRepository) UpcomingFixtures(ctx context.Context, team string, limit int) []fixture.UpcomingFixture {
	rows, err := r.QueryUpcomingFixtures(ctx, fixture.TeamQuery{Team: team, Limit: limit})
	if err != nil {
		r.logger.ErrorContext(ctx, "upcoming fixtures query failed", "team", team, "error", err)
		return []fixture.UpcomingFixture{}
	}
	return rows
}

// RecentResults degrades to an empty list when the query fails.
func (r *FixtureRepository) RecentResults(ctx context.Context, team string, limit int) []fixture.Result {
	rows, err := r.QueryRecentResults(ctx, fixture.TeamQuery{Team: team, Limit: limit})
	if err != nil {
		r.logger.ErrorContext(ctx, "recent results query failed", "team", team, "error", err)
		return []fixture.Result{}
	}
	return rows
}

// Standings degrades to an empty list when the query fails.
func (r *FixtureRepository) Standings(ctx context.Context, leagueID int64) []fixture.Standing {
	rows, err := r.QueryStandings(ctx, leagueID)
	if err != nil {
		r.logger.ErrorContext(ctx, "standings query failed", "league_id", leagueID, "error", err)
		return []fixture.Standing{}
	}
	return rows
}

// Close releases the connection. Calls after the first are no-ops.
func (r *FixtureRepository) Close() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.db.Close()
	})
	return r.closeErr
}

func teamConditions(team string) []qb.Condition {
	team = strings.TrimSpace(team)
	if team == "" {
		return nil
	}
	return []qb.Condition{
		qb.Or(qb.ContainsFold("home_team_search", team), qb.ContainsFold("away_team_search", team)),
	}
}

func limitOrDefault(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

func (r *FixtureRepository) queryFailed(query string) {
	if r.metrics != nil {
		r.metrics.QueryFailed(query)
	}
}

func (r *FixtureRepository) snapshotRejected(reason string) {
	if r.metrics != nil {
		r.metrics.SnapshotRejected(reason)
	}
}
