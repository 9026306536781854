package rawdata

import "context"

// Fetcher retrieves the provider's fixtures document for one league season.
type Fetcher interface {
	FetchFixtures(ctx context.Context, leagueID, season int, apiKey string) (Payload, error)
}

// Store persists raw payloads as write-once JSON snapshots.
type Store interface {
	Save(ctx context.Context, payload Payload, name string) (string, error)
}
