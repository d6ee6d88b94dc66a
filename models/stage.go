package models

import "fmt"

// StageType is the persisted stage code of a match. The numeric values are
// stored in the database and must not change.
type StageType int

const (
	StageGroup                 StageType = 1
	StageGroupHome             StageType = 2
	StageGroupAway             StageType = 3
	StageLadder                StageType = 7
	StageQuarterfinal          StageType = 8
	StageSemifinalQualifier    StageType = 9
	StageSemifinal             StageType = 10
	StageBronze                StageType = 11
	StageGold                  StageType = 12
	StageQuarterfinalQualifier StageType = 13
	StageTieBreak              StageType = 14
	StageWinnersBracket        StageType = 15
	StageLosersBracket         StageType = 16
	StageGrandFinal            StageType = 17
)

var stageNames = map[StageType]string{
	StageGroup:                 "group",
	StageGroupHome:             "group_home",
	StageGroupAway:             "group_away",
	StageLadder:                "ladder",
	StageQuarterfinal:          "quarterfinal",
	StageSemifinalQualifier:    "semifinal_qualifier",
	StageSemifinal:             "semifinal",
	StageBronze:                "bronze",
	StageGold:                  "gold",
	StageQuarterfinalQualifier: "quarterfinal_qualifier",
	StageTieBreak:              "tie_break",
	StageWinnersBracket:        "winners_bracket",
	StageLosersBracket:         "losers_bracket",
	StageGrandFinal:            "grand_final",
}

func (s StageType) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

func (s StageType) Valid() bool {
	_, ok := stageNames[s]
	return ok
}

// IsGroup reports whether matches of this stage feed group standings.
func (s StageType) IsGroup() bool {
	return s == StageGroup || s == StageGroupHome || s == StageGroupAway
}

// IsKnockout reports whether a match of this stage must produce a winner.
func (s StageType) IsKnockout() bool {
	switch s {
	case StageLadder, StageQuarterfinal, StageSemifinalQualifier, StageSemifinal,
		StageBronze, StageGold, StageQuarterfinalQualifier,
		StageWinnersBracket, StageLosersBracket, StageGrandFinal:
		return true
	}
	return false
}
