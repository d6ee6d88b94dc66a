package standings

import (
	"cmp"
	"strings"

	"github.com/Dosada05/tournament-ranking/models"
)

// A Criterion orders two players of the tied set currently being separated.
// Compare returns a negative value when a ranks ahead of b.
type Criterion struct {
	Name string
	// Applies reports whether the criterion can order this set. A nil Applies
	// always applies.
	Applies func(set *TiedSet) bool
	Compare func(set *TiedSet, a, b models.Standing) int
}

// Cascade is an ordered list of criteria, most significant first. Criteria
// from index PlayoffFrom onwards can only separate players through extra
// tie-break matches or by the deterministic fallback.
type Cascade struct {
	Criteria    []Criterion
	PlayoffFrom int
}

// DefaultCascade is the league's tie-break order.
func DefaultCascade() Cascade {
	return Cascade{
		Criteria: []Criterion{
			ByGoalDifference,
			ByHeadToHead,
			ByDirectResult,
			ByGoalsFor,
			ByTieBreakMatches,
			ByName,
		},
		PlayoffFrom: 4,
	}
}

var ByGoalDifference = Criterion{
	Name: "goal_difference",
	Compare: func(_ *TiedSet, a, b models.Standing) int {
		return cmp.Compare(b.GoalDifference, a.GoalDifference)
	},
}

// ByHeadToHead compares points of a mini table built only from matches
// between members of the set.
var ByHeadToHead = Criterion{
	Name: "head_to_head",
	Compare: func(set *TiedSet, a, b models.Standing) int {
		pts := set.headToHeadPoints()
		return cmp.Compare(pts[b.PlayerID], pts[a.PlayerID])
	},
}

// ByDirectResult only orders a pair: with three or more members direct results
// can form a cycle.
var ByDirectResult = Criterion{
	Name:    "direct_result",
	Applies: func(set *TiedSet) bool { return set.Len() == 2 },
	Compare: func(set *TiedSet, a, b models.Standing) int {
		return cmp.Compare(set.directWins(b.PlayerID, a.PlayerID), set.directWins(a.PlayerID, b.PlayerID))
	},
}

var ByGoalsFor = Criterion{
	Name: "goals_for",
	Compare: func(_ *TiedSet, a, b models.Standing) int {
		return cmp.Compare(b.GoalsFor, a.GoalsFor)
	},
}

var ByTieBreakMatches = Criterion{
	Name: "tie_break_matches",
	Compare: func(set *TiedSet, a, b models.Standing) int {
		wins := set.tieBreakWins()
		return cmp.Compare(wins[b.PlayerID], wins[a.PlayerID])
	},
}

var ByName = Criterion{
	Name: "name",
	Compare: func(_ *TiedSet, a, b models.Standing) int {
		if c := strings.Compare(a.PlayerName, b.PlayerName); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	},
}

// TiedSet is a group of players that earlier criteria could not separate.
type TiedSet struct {
	Members []models.Standing

	ids       map[int]bool
	counted   []models.StageType
	matches   []models.Match
	h2h       map[int]int
	tbWins    map[int]int
	tieBreaks []models.Match
}

func newTiedSet(members []models.Standing, counted []models.StageType, matches, tieBreaks []models.Match) *TiedSet {
	ids := make(map[int]bool, len(members))
	for _, m := range members {
		ids[m.PlayerID] = true
	}
	return &TiedSet{Members: members, ids: ids, counted: counted, matches: matches, tieBreaks: tieBreaks}
}

func (s *TiedSet) Len() int {
	return len(s.Members)
}

func (s *TiedSet) mutual(m models.Match) bool {
	return s.ids[m.Player1ID] && s.ids[m.Player2ID]
}

func (s *TiedSet) headToHeadPoints() map[int]int {
	if s.h2h != nil {
		return s.h2h
	}
	var mutual []models.Match
	for _, m := range s.matches {
		if s.mutual(m) {
			mutual = append(mutual, m)
		}
	}
	s.h2h = make(map[int]int, len(s.Members))
	for _, row := range Calculate(0, s.counted, mutual, nil, nil) {
		s.h2h[row.PlayerID] = row.Points
	}
	return s.h2h
}

func (s *TiedSet) directWins(winner, loser int) int {
	n := 0
	for _, m := range s.matches {
		if m.Pair() != models.NewPairKey(winner, loser) {
			continue
		}
		if w, ok := m.Winner(); ok && !m.IsBye() && w == winner {
			n++
		}
	}
	return n
}

func (s *TiedSet) tieBreakWins() map[int]int {
	if s.tbWins != nil {
		return s.tbWins
	}
	s.tbWins = make(map[int]int, len(s.Members))
	for _, m := range s.tieBreaks {
		if !s.mutual(m) {
			continue
		}
		if w, ok := m.Winner(); ok && !m.IsBye() {
			s.tbWins[w]++
		}
	}
	return s.tbWins
}
