package apisports

// Provider payload shapes for GET /fixtures. Pointers distinguish an absent
// member from a zero value so validator can enforce presence.

type fixturesDocument struct {
	Response *[]providerFixture `json:"response"`
}

type providerFixture struct {
	Fixture *fixtureInfo `json:"fixture" validate:"required"`
	League  *leagueInfo  `json:"league" validate:"required"`
	Teams   *teamsInfo   `json:"teams" validate:"required"`
	Goals   *goalsInfo   `json:"goals" validate:"required"`
}

type fixtureInfo struct {
	ID      *int64      `json:"id" validate:"required"`
	Date    *string     `json:"date" validate:"required"`
	Referee *string     `json:"referee"`
	Venue   *venueInfo  `json:"venue" validate:"required"`
	Status  *statusInfo `json:"status" validate:"required"`
}

type venueInfo struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

type statusInfo struct {
	Long  *string `json:"long"`
	Short *string `json:"short" validate:"required"`
}

type leagueInfo struct {
	ID     *int64  `json:"id" validate:"required"`
	Name   *string `json:"name" validate:"required"`
	Season *int    `json:"season" validate:"required"`
}

type teamsInfo struct {
	Home *teamInfo `json:"home" validate:"required"`
	Away *teamInfo `json:"away" validate:"required"`
}

type teamInfo struct {
	ID   *int64  `json:"id" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

type goalsInfo struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}
