package models

// Standing is one row of a derived league table. Standings are recomputed from
// matches on every pass and never edited in place.
type Standing struct {
	TournamentID   int          `json:"tournament_id"`
	PlayerID       int          `json:"player_id"`
	PlayerName     string       `json:"player_name"`
	Status         PlayerStatus `json:"status"`
	Group          string       `json:"group,omitempty"`
	Played         int          `json:"played"`
	Expected       int          `json:"expected"`
	Wins           int          `json:"wins"`
	Draws          int          `json:"draws"`
	Losses         int          `json:"losses"`
	GoalsFor       int          `json:"goals_for"`
	GoalsAgainst   int          `json:"goals_against"`
	GoalDifference int          `json:"goal_difference"`
	Points         int          `json:"points"`
	Rank           int          `json:"rank"`
	Provisional    bool         `json:"provisional,omitempty"`
	Score          *int         `json:"score"` // Nullable, season points
}

// RankingEntry is a persisted final placement of a player in a tournament.
type RankingEntry struct {
	TournamentID int  `json:"tournament_id" db:"t_id"`
	PlayerID     int  `json:"player_id" db:"player_id"`
	Rank         int  `json:"rank" db:"ranks"`
	Score        *int `json:"score,omitempty" db:"scores"`
}

// EventResult is a player's scored placement in one tournament, as read back
// for the rolling leaderboard.
type EventResult struct {
	TournamentID int        `json:"tournament_id"`
	SeasonID     int        `json:"season_id"`
	Class        EventClass `json:"class"`
	Rank         int        `json:"rank"`
	Score        *int       `json:"score"`
}

type LeaderboardEntry struct {
	PlayerID      int `json:"player_id"`
	TotalScore    int `json:"total_score"`
	BaselineScore int `json:"baseline_score"`
	EventCount    int `json:"event_count"`
	MajorEvents   int `json:"major_events"`
	MinorEvents   int `json:"minor_events"`
}
