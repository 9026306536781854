package fixture

import "context"

// Reader answers the read-only summaries with an explicit error.
type Reader interface {
	QueryUpcomingFixtures(ctx context.Context, q TeamQuery) ([]UpcomingFixture, error)
	QueryRecentResults(ctx context.Context, q TeamQuery) ([]Result, error)
	QueryStandings(ctx context.Context, leagueID int64) ([]Standing, error)
}

// Repository owns the durable fixtures table.
type Repository interface {
	Reader
	// LoadSnapshot never fails; a rejected or unreadable snapshot yields 0.
	LoadSnapshot(ctx context.Context, path string) int
	LoadAll(ctx context.Context, dir string) (int, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Normalizer flattens a raw snapshot file into records.
type Normalizer interface {
	NormalizeFile(ctx context.Context, path string) ([]Record, error)
}

// StagedWriter persists normalized records as a columnar snapshot.
type StagedWriter interface {
	PathFor(rawName string) string
	Save(ctx context.Context, rows []Record, path string) (string, error)
}
