package models

import "fmt"

// TournamentFormat определяет структуру турнира: групповой этап и плей-офф.
type TournamentFormat int

const (
	FormatSingleRoundRobin        TournamentFormat = 1
	FormatDoubleRoundRobin        TournamentFormat = 2
	FormatHomeAndAwayLeague       TournamentFormat = 3
	FormatGroupQuarterfinal       TournamentFormat = 4
	FormatGroupSemifinalQualifier TournamentFormat = 5
	FormatPromotionLadder         TournamentFormat = 6
	FormatDoubleElimination       TournamentFormat = 7
)

func (f TournamentFormat) String() string {
	switch f {
	case FormatSingleRoundRobin:
		return "single_round_robin"
	case FormatDoubleRoundRobin:
		return "double_round_robin"
	case FormatHomeAndAwayLeague:
		return "home_and_away_league"
	case FormatGroupQuarterfinal:
		return "group_quarterfinal"
	case FormatGroupSemifinalQualifier:
		return "group_semifinal_qualifier"
	case FormatPromotionLadder:
		return "promotion_ladder"
	case FormatDoubleElimination:
		return "double_elimination"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

func (f TournamentFormat) Valid() bool {
	return f >= FormatSingleRoundRobin && f <= FormatDoubleElimination
}

// IsRoundRobin reports whether the format is a league whose knockout layer is
// chosen from the number of entrants.
func (f TournamentFormat) IsRoundRobin() bool {
	return f == FormatSingleRoundRobin || f == FormatDoubleRoundRobin || f == FormatHomeAndAwayLeague
}

// CountedStages lists the stage types whose results feed the group standings.
// Tie-break matches are handled separately and are never part of this set.
func (f TournamentFormat) CountedStages() []StageType {
	switch f {
	case FormatHomeAndAwayLeague:
		return []StageType{StageGroupHome, StageGroupAway}
	case FormatSingleRoundRobin, FormatDoubleRoundRobin, FormatGroupQuarterfinal,
		FormatGroupSemifinalQualifier, FormatPromotionLadder, FormatDoubleElimination:
		return []StageType{StageGroup}
	}
	return nil
}

// Legs is the number of times each pair meets in the group stage.
func (f TournamentFormat) Legs() int {
	if f == FormatDoubleRoundRobin || f == FormatHomeAndAwayLeague {
		return 2
	}
	return 1
}
