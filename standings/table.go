package standings

import (
	"sort"

	"github.com/Dosada05/tournament-ranking/models"
)

// Table is the ranked league table of one tournament.
type Table struct {
	// Rows hold ranks 1..n. With two or more groups the groups are merged
	// position by position (A1, B1, A2, B2...) and players without a group
	// follow at the end.
	Rows []models.Standing
	// Groups holds each group's own ranking, keyed by label. Ranks inside
	// are group-local.
	Groups map[string][]models.Standing
	Labels []string
	// Runs are the unresolved sets of the table without tie-break matches.
	// Only tie-break fixtures inside a run count.
	Runs [][]int
	// Matches are the matches the table was ranked from: every non-tie-break
	// match plus the tie-break matches of current runs.
	Matches []models.Match
	// Settled is false while any run still has an undecided tie-break pair.
	Settled bool
}

// Build ranks a tournament. groupOf maps players to their group label; with
// fewer than two labels everyone is ranked together.
//
// Runs are found on the table without tie-break matches, so playing a
// tie-break can never dissolve the run that asked for it. A tie-break fixture
// whose pair is no longer inside a run (after a corrected result) adds no
// goals and blocks nothing.
func Build(tournamentID int, counted []models.StageType, matches []models.Match, entrants []int, players map[int]models.Player, groupOf map[int]string) Table {
	labels := groupLabels(groupOf)

	var base []models.Match
	for _, m := range matches {
		if m.Stage != models.StageTieBreak {
			base = append(base, m)
		}
	}
	var runs [][]int
	for _, part := range splitGroups(Calculate(tournamentID, counted, base, entrants, players), labels, groupOf) {
		_, r := Rank(part, counted, base)
		runs = append(runs, r...)
	}

	effective := CurrentTieBreaks(matches, runs)
	pending := make(map[int]bool)
	for _, run := range runs {
		if !RunSettled(run, effective) {
			for _, id := range run {
				pending[id] = true
			}
		}
	}

	t := Table{
		Groups:  make(map[string][]models.Standing),
		Labels:  labels,
		Runs:    runs,
		Matches: effective,
		Settled: len(pending) == 0,
	}
	parts := splitGroups(Calculate(tournamentID, counted, effective, entrants, players), labels, groupOf)
	for i, part := range parts {
		ranked, _ := Rank(part, counted, effective)
		for j := range ranked {
			ranked[j].Group = groupOf[ranked[j].PlayerID]
			ranked[j].Provisional = pending[ranked[j].PlayerID]
		}
		parts[i] = ranked
		if len(labels) > 1 && i < len(labels) {
			t.Groups[labels[i]] = ranked
		}
	}

	if len(labels) > 1 {
		t.Rows = Interleave(parts[:len(labels)])
		for _, rest := range parts[len(labels):] {
			t.Rows = append(t.Rows, rest...)
		}
	} else {
		t.Rows = parts[0]
	}
	for i := range t.Rows {
		t.Rows[i].Rank = i + 1
	}
	return t
}

func groupLabels(groupOf map[int]string) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, l := range groupOf {
		if l != "" && !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	sort.Strings(labels)
	return labels
}

// splitGroups partitions rows by label in label order, keeping the points
// order inside each part. Unlabelled players form one last part.
func splitGroups(rows []models.Standing, labels []string, groupOf map[int]string) [][]models.Standing {
	if len(labels) < 2 {
		return [][]models.Standing{rows}
	}
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	parts := make([][]models.Standing, len(labels))
	var rest []models.Standing
	for _, r := range rows {
		if i, ok := index[groupOf[r.PlayerID]]; ok {
			parts[i] = append(parts[i], r)
			continue
		}
		rest = append(rest, r)
	}
	if len(rest) > 0 {
		parts = append(parts, rest)
	}
	return parts
}

// Interleave merges ranked groups position by position: A1, B1, A2, B2...
func Interleave[T any](groups [][]T) []T {
	var out []T
	for pos := 0; ; pos++ {
		added := false
		for _, g := range groups {
			if pos < len(g) {
				out = append(out, g[pos])
				added = true
			}
		}
		if !added {
			return out
		}
	}
}

// CurrentTieBreaks returns matches without the tie-break matches whose pair
// is not inside one of runs.
func CurrentTieBreaks(matches []models.Match, runs [][]int) []models.Match {
	live := make(map[models.PairKey]bool)
	for _, run := range runs {
		for i := 0; i < len(run); i++ {
			for j := i + 1; j < len(run); j++ {
				live[models.NewPairKey(run[i], run[j])] = true
			}
		}
	}
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.Stage == models.StageTieBreak && !live[m.Pair()] {
			continue
		}
		out = append(out, m)
	}
	return out
}

// RunSettled reports whether every pair of run has a decided tie-break match.
func RunSettled(run []int, matches []models.Match) bool {
	var tieBreaks []models.Match
	for _, m := range matches {
		if m.Stage == models.StageTieBreak {
			tieBreaks = append(tieBreaks, m)
		}
	}
	return runSettled(run, tieBreaks)
}
