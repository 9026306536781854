package sqlstore

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/football-pipeline/internal/domain/fixture"
	qb "github.com/riskibarqy/football-pipeline/internal/platform/querybuilder"
)

const fixturesTable = "fixtures"

type fixtureInsertModel struct {
	FixtureID    int64          `db:"fixture_id"`
	LeagueID     int64          `db:"league_id"`
	LeagueName   string         `db:"league_name"`
	Season       int            `db:"season"`
	HomeTeamID   int64          `db:"home_team_id"`
	HomeTeamName string         `db:"home_team_name"`
	AwayTeamID   int64          `db:"away_team_id"`
	AwayTeamName string         `db:"away_team_name"`
	HomeGoals    sql.NullInt64  `db:"home_goals"`
	AwayGoals    sql.NullInt64  `db:"away_goals"`
	Date         time.Time      `db:"date"`
	VenueName    sql.NullString `db:"venue_name"`
	Referee      sql.NullString `db:"referee"`
	StatusShort  string         `db:"status_short"`
	ProcessedAt  time.Time      `db:"processed_at"`

	// folded team names matched by the team filter
	HomeTeamSearch string `db:"home_team_search"`
	AwayTeamSearch string `db:"away_team_search"`
}

func newFixtureInsertModel(r fixture.Record, processedAt time.Time) fixtureInsertModel {
	return fixtureInsertModel{
		FixtureID:    r.FixtureID,
		LeagueID:     r.LeagueID,
		LeagueName:   r.LeagueName,
		Season:       r.Season,
		HomeTeamID:   r.HomeTeamID,
		HomeTeamName: r.HomeTeamName,
		AwayTeamID:   r.AwayTeamID,
		AwayTeamName: r.AwayTeamName,
		HomeGoals:    intPtrToNullInt64(r.HomeGoals),
		AwayGoals:    intPtrToNullInt64(r.AwayGoals),
		Date:         storedTime(r.Date),
		VenueName:    stringPtrToNullString(r.VenueName),
		Referee:      stringPtrToNullString(r.Referee),
		StatusShort:  r.StatusShort,
		ProcessedAt:  storedTime(processedAt),

		HomeTeamSearch: qb.Fold(r.HomeTeamName),
		AwayTeamSearch: qb.Fold(r.AwayTeamName),
	}
}

type upcomingFixtureModel struct {
	FixtureID    int64          `db:"fixture_id"`
	HomeTeamName string         `db:"home_team_name"`
	AwayTeamName string         `db:"away_team_name"`
	Date         time.Time      `db:"date"`
	VenueName    sql.NullString `db:"venue_name"`
}

type resultModel struct {
	FixtureID    int64         `db:"fixture_id"`
	HomeTeamName string        `db:"home_team_name"`
	AwayTeamName string        `db:"away_team_name"`
	HomeGoals    sql.NullInt64 `db:"home_goals"`
	AwayGoals    sql.NullInt64 `db:"away_goals"`
	Date         time.Time     `db:"date"`
}

type standingModel struct {
	TeamName    string `db:"team_name"`
	Points      int    `db:"total_points"`
	GamesPlayed int    `db:"games_played"`
}
