package rawdata

import (
	"fmt"
	"time"
)

// Payload is the provider's fixtures document for one (league, season) fetch,
// decoded but otherwise untouched.
type Payload struct {
	LeagueID  int
	Season    int
	FetchedAt time.Time
	Document  map[string]any
}

// SnapshotName is the audit-trail name for a raw payload, without extension.
func SnapshotName(leagueID, season int, fetchedAt time.Time) string {
	return fmt.Sprintf("fixtures_%d_%d_%s", leagueID, season, fetchedAt.UTC().Format(time.DateOnly))
}
