package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	fixturemock "github.com/riskibarqy/football-pipeline/internal/mocks/domain/fixture"
)

func TestFixtureQueryService_UpcomingFixtures_TrimsAndDefaults(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reader := fixturemock.NewReader(t)
	want := []fixture.UpcomingFixture{
		{FixtureID: 2, HomeTeam: "Arsenal", AwayTeam: "Liverpool", Date: time.Date(2030, 1, 5, 12, 0, 0, 0, time.UTC)},
	}
	reader.
		On("QueryUpcomingFixtures", mock.Anything, fixture.TeamQuery{Team: "Arsenal", Limit: fixture.DefaultUpcomingLimit}).
		Return(want, nil).
		Once()

	got, err := NewFixtureQueryService(reader).UpcomingFixtures(ctx, "  Arsenal ", 0)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestFixtureQueryService_RecentResults_PropagatesFailure(t *testing.T) {
	t.Parallel()

	reader := fixturemock.NewReader(t)
	queryErr := errors.New("no such table: fixtures")
	reader.
		On("QueryRecentResults", mock.Anything, fixture.TeamQuery{Limit: 3}).
		Return(nil, queryErr).
		Once()

	_, err := NewFixtureQueryService(reader).RecentResults(context.Background(), "", 3)
	require.Error(t, err)
	require.True(t, errors.Is(err, queryErr), "expected wrapped query error, got %v", err)
}

func TestFixtureQueryService_RejectsBadLimit(t *testing.T) {
	t.Parallel()

	service := NewFixtureQueryService(fixturemock.NewReader(t))
	for _, limit := range []int{-1, maxQueryLimit + 1} {
		_, err := service.RecentResults(context.Background(), "", limit)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("limit %d: expected ErrInvalidInput, got=%v", limit, err)
		}
	}
}

func TestFixtureQueryService_Standings_DefaultLeague(t *testing.T) {
	t.Parallel()

	reader := fixturemock.NewReader(t)
	want := []fixture.Standing{{TeamName: "Arsenal", Points: 3, GamesPlayed: 1}}
	reader.On("QueryStandings", mock.Anything, int64(fixture.DefaultLeagueID)).Return(want, nil).Once()

	got, err := NewFixtureQueryService(reader).Standings(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, want, got)

	_, err = NewFixtureQueryService(reader).Standings(context.Background(), -5)
	require.True(t, errors.Is(err, ErrInvalidInput))
}
