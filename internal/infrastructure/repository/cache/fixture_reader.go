package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	basecache "github.com/riskibarqy/football-pipeline/internal/platform/cache"
)

// FixtureReader memoizes read-only fixture summaries for a short TTL. Failed
// queries are not cached. Cached upcoming fixtures that have kicked off
// since they were loaded are dropped on read.
type FixtureReader struct {
	next      fixture.Reader
	upcoming  *basecache.Store[[]fixture.UpcomingFixture]
	results   *basecache.Store[[]fixture.Result]
	standings *basecache.Store[[]fixture.Standing]
	now       func() time.Time
}

var _ fixture.Reader = (*FixtureReader)(nil)

func NewFixtureReader(next fixture.Reader, ttl time.Duration) *FixtureReader {
	return &FixtureReader{
		next:      next,
		upcoming:  basecache.NewStore[[]fixture.UpcomingFixture](ttl),
		results:   basecache.NewStore[[]fixture.Result](ttl),
		standings: basecache.NewStore[[]fixture.Standing](ttl),
		now:       time.Now,
	}
}

func (r *FixtureReader) QueryUpcomingFixtures(ctx context.Context, q fixture.TeamQuery) ([]fixture.UpcomingFixture, error) {
	items, err := r.upcoming.GetOrLoad(ctx, teamQueryKey(q), func(ctx context.Context) ([]fixture.UpcomingFixture, error) {
		return r.next.QueryUpcomingFixtures(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	now := r.now()
	out := make([]fixture.UpcomingFixture, 0, len(items))
	for _, item := range items {
		if item.Date.After(now) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *FixtureReader) QueryRecentResults(ctx context.Context, q fixture.TeamQuery) ([]fixture.Result, error) {
	items, err := r.results.GetOrLoad(ctx, teamQueryKey(q), func(ctx context.Context) ([]fixture.Result, error) {
		return r.next.QueryRecentResults(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return append([]fixture.Result{}, items...), nil
}

func (r *FixtureReader) QueryStandings(ctx context.Context, leagueID int64) ([]fixture.Standing, error) {
	key := "league:" + strconv.FormatInt(leagueID, 10)
	items, err := r.standings.GetOrLoad(ctx, key, func(ctx context.Context) ([]fixture.Standing, error) {
		return r.next.QueryStandings(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}
	return append([]fixture.Standing{}, items...), nil
}

func teamQueryKey(q fixture.TeamQuery) string {
	return "team:" + strings.ToLower(q.Team) + ":limit:" + strconv.Itoa(q.Limit)
}
