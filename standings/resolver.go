package standings

import (
	"cmp"
	"slices"

	"github.com/Dosada05/tournament-ranking/models"
)

// Resolver orders players with equal points using a Cascade.
type Resolver struct {
	cascade   Cascade
	counted   []models.StageType
	matches   []models.Match
	tieBreaks []models.Match
}

// Resolution is the outcome of resolving one group of tied players.
type Resolution struct {
	Order []models.Standing
	// Runs are the sets that reached the tie-break-match criteria with more
	// than one member, in rank order.
	Runs [][]int
}

func NewResolver(cascade Cascade, counted []models.StageType, matches []models.Match) *Resolver {
	r := &Resolver{cascade: cascade, counted: counted}
	for _, m := range matches {
		switch {
		case m.Stage == models.StageTieBreak:
			r.tieBreaks = append(r.tieBreaks, m)
		case slices.Contains(counted, m.Stage):
			r.matches = append(r.matches, m)
		}
	}
	return r
}

// Resolve orders a group of players that are level on points. The input
// order only matters for players identical under every criterion, which the
// name fallback rules out.
func (r *Resolver) Resolve(group []models.Standing) Resolution {
	var res Resolution
	members := slices.Clone(group)
	slices.SortStableFunc(members, func(a, b models.Standing) int { return cmp.Compare(a.PlayerID, b.PlayerID) })
	r.order(members, 0, false, &res)
	return res
}

func (r *Resolver) order(members []models.Standing, from int, inRun bool, res *Resolution) {
	if len(members) <= 1 {
		res.Order = append(res.Order, members...)
		return
	}

	set := newTiedSet(members, r.counted, r.matches, r.tieBreaks)
	for i := from; i < len(r.cascade.Criteria); i++ {
		if i == r.cascade.PlayoffFrom && !inRun {
			res.Runs = append(res.Runs, playerIDs(members))
			inRun = true
		}

		c := r.cascade.Criteria[i]
		if c.Applies != nil && !c.Applies(set) {
			continue
		}
		classes := partition(set, c)
		if len(classes) == 1 {
			continue
		}

		// A split before the playoff criteria changes the tied set, so the
		// cascade restarts for every class.
		next := 0
		if i >= r.cascade.PlayoffFrom {
			next = i
		}
		for _, class := range classes {
			r.order(class, next, inRun, res)
		}
		return
	}
	res.Order = append(res.Order, members...)
}

// partition sorts the set by c and splits it into classes of equal players.
func partition(set *TiedSet, c Criterion) [][]models.Standing {
	sorted := slices.Clone(set.Members)
	slices.SortStableFunc(sorted, func(a, b models.Standing) int { return c.Compare(set, a, b) })

	var classes [][]models.Standing
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || c.Compare(set, sorted[start], sorted[i]) != 0 {
			classes = append(classes, sorted[start:i])
			start = i
		}
	}
	return classes
}

func playerIDs(members []models.Standing) []int {
	ids := make([]int, len(members))
	for i, m := range members {
		ids[i] = m.PlayerID
	}
	return ids
}

// Rank breaks every points tie in standings (as ordered by Calculate) and
// assigns ranks 1..n. Members of a run whose tie-break fixtures are not all
// decided are marked provisional. The unresolved runs are returned for the
// tie-break fixture generator.
func Rank(standings []models.Standing, counted []models.StageType, matches []models.Match) ([]models.Standing, [][]int) {
	resolver := NewResolver(DefaultCascade(), counted, matches)

	ranked := make([]models.Standing, 0, len(standings))
	var runs [][]int
	for _, group := range GroupByPoints(standings) {
		res := resolver.Resolve(group)
		ranked = append(ranked, res.Order...)
		runs = append(runs, res.Runs...)
	}

	pending := make(map[int]bool)
	for _, run := range runs {
		if !runSettled(run, resolver.tieBreaks) {
			for _, id := range run {
				pending[id] = true
			}
		}
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Provisional = pending[ranked[i].PlayerID]
	}
	return ranked, runs
}

func runSettled(run []int, tieBreaks []models.Match) bool {
	decided := make(map[models.PairKey]bool)
	for _, m := range tieBreaks {
		if _, ok := m.Winner(); ok && !m.IsBye() {
			decided[m.Pair()] = true
		}
	}
	for i := 0; i < len(run); i++ {
		for j := i + 1; j < len(run); j++ {
			if !decided[models.NewPairKey(run[i], run[j])] {
				return false
			}
		}
	}
	return true
}
