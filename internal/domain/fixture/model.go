package fixture

import (
	"sort"
	"strings"
	"time"
)

const (
	StatusNotStarted = "NS"
	StatusFullTime   = "FT"
)

// DefaultLeagueID is the Premier League in the provider's numbering.
const DefaultLeagueID = 39

const (
	DefaultUpcomingLimit = 10
	DefaultResultsLimit  = 5
	MaxStandingsRows     = 20
)

// Record is one normalized fixture row. ProcessedAt is zero until the
// repository stores the row.
type Record struct {
	FixtureID    int64
	LeagueID     int64
	LeagueName   string
	Season       int
	HomeTeamID   int64
	HomeTeamName string
	AwayTeamID   int64
	AwayTeamName string
	HomeGoals    *int
	AwayGoals    *int
	Date         time.Time
	VenueName    *string
	Referee      *string
	StatusShort  string
	ProcessedAt  time.Time
}

// Required column names shared by staged snapshots and the durable table.
const (
	ColFixtureID    = "fixture_id"
	ColLeagueID     = "league_id"
	ColLeagueName   = "league_name"
	ColSeason       = "season"
	ColHomeTeamID   = "home_team_id"
	ColHomeTeamName = "home_team_name"
	ColAwayTeamID   = "away_team_id"
	ColAwayTeamName = "away_team_name"
	ColHomeGoals    = "home_goals"
	ColAwayGoals    = "away_goals"
	ColDate         = "date"
)

// RequiredColumns must all be present in a staged snapshot for it to load.
var RequiredColumns = []string{
	ColFixtureID,
	ColLeagueID,
	ColLeagueName,
	ColSeason,
	ColHomeTeamID,
	ColHomeTeamName,
	ColAwayTeamID,
	ColAwayTeamName,
	ColHomeGoals,
	ColAwayGoals,
	ColDate,
}

// MissingColumns returns the required columns absent from columns, sorted.
func MissingColumns(columns []string) []string {
	present := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		present[strings.TrimSpace(col)] = struct{}{}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}

func (r Record) IsFinished() bool {
	return strings.EqualFold(strings.TrimSpace(r.StatusShort), StatusFullTime)
}

// UpcomingFixture is a not-started fixture as shown to users.
type UpcomingFixture struct {
	FixtureID int64     `json:"fixture_id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Date      time.Time `json:"date"`
	VenueName *string   `json:"venue_name"`
}

// Result is a finished fixture with its final score.
type Result struct {
	FixtureID int64     `json:"fixture_id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals *int      `json:"home_goals"`
	AwayGoals *int      `json:"away_goals"`
	Date      time.Time `json:"date"`
}

// Standing is a points tally for one team computed from finished fixtures.
type Standing struct {
	TeamName    string `json:"team_name"`
	Points      int    `json:"points"`
	GamesPlayed int    `json:"games_played"`
}

// TeamQuery narrows upcoming/result queries. An empty Team matches every team.
type TeamQuery struct {
	Team  string
	Limit int
}
