package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
)

const maxQueryLimit = 100

// FixtureQueryService serves the read-only summaries with explicit errors so
// callers can tell an empty table from a failed query.
type FixtureQueryService struct {
	reader fixture.Reader
}

func NewFixtureQueryService(reader fixture.Reader) *FixtureQueryService {
	return &FixtureQueryService{reader: reader}
}

func (s *FixtureQueryService) UpcomingFixtures(ctx context.Context, team string, limit int) (out []fixture.UpcomingFixture, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureQueryService.UpcomingFixtures", attribute.String("team", team))
	defer func() { endSpan(span, err) }()

	q, err := teamQuery(team, limit, fixture.DefaultUpcomingLimit)
	if err != nil {
		return nil, err
	}
	out, err = s.reader.QueryUpcomingFixtures(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query upcoming fixtures: %w", err)
	}
	return out, nil
}

func (s *FixtureQueryService) RecentResults(ctx context.Context, team string, limit int) (out []fixture.Result, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureQueryService.RecentResults", attribute.String("team", team))
	defer func() { endSpan(span, err) }()

	q, err := teamQuery(team, limit, fixture.DefaultResultsLimit)
	if err != nil {
		return nil, err
	}
	out, err = s.reader.QueryRecentResults(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query recent results: %w", err)
	}
	return out, nil
}

func (s *FixtureQueryService) Standings(ctx context.Context, leagueID int64) (out []fixture.Standing, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureQueryService.Standings", attribute.Int64("league_id", leagueID))
	defer func() { endSpan(span, err) }()

	if leagueID == 0 {
		leagueID = fixture.DefaultLeagueID
	}
	if leagueID < 0 {
		return nil, fmt.Errorf("%w: league id must be positive", ErrInvalidInput)
	}
	out, err = s.reader.QueryStandings(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	return out, nil
}

func teamQuery(team string, limit, fallback int) (fixture.TeamQuery, error) {
	if limit < 0 || limit > maxQueryLimit {
		return fixture.TeamQuery{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, maxQueryLimit)
	}
	if limit == 0 {
		limit = fallback
	}
	return fixture.TeamQuery{Team: strings.TrimSpace(team), Limit: limit}, nil
}
