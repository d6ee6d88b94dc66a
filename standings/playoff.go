package standings

import "github.com/Dosada05/tournament-ranking/models"

// TieBreakFixtures returns a new tie-break match for every pair of players
// inside each run that has no tie-break fixture yet, played or not. Calling it
// again with the returned matches added to existing yields nothing.
func TieBreakFixtures(tournamentID int, runs [][]int, existing []models.Match) []models.Match {
	seen := make(map[models.PairKey]bool)
	slot := 0
	for _, m := range existing {
		if m.Stage != models.StageTieBreak {
			continue
		}
		seen[m.Pair()] = true
		slot = max(slot, m.Slot)
	}

	var out []models.Match
	for _, run := range runs {
		for i := 0; i < len(run); i++ {
			for j := i + 1; j < len(run); j++ {
				key := models.NewPairKey(run[i], run[j])
				if seen[key] {
					continue
				}
				seen[key] = true
				slot++
				out = append(out, models.Match{
					TournamentID: tournamentID,
					Stage:        models.StageTieBreak,
					Slot:         slot,
					Player1ID:    run[i],
					Player2ID:    run[j],
				})
			}
		}
	}
	return out
}

// RestrictRuns keeps only the members of each run that are in group, dropping
// runs left with fewer than two players.
func RestrictRuns(runs [][]int, group []int) [][]int {
	if len(group) == 0 {
		return runs
	}
	in := make(map[int]bool, len(group))
	for _, id := range group {
		in[id] = true
	}
	var out [][]int
	for _, run := range runs {
		var kept []int
		for _, id := range run {
			if in[id] {
				kept = append(kept, id)
			}
		}
		if len(kept) > 1 {
			out = append(out, kept)
		}
	}
	return out
}
