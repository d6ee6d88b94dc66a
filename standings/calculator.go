// Package standings turns raw match results into ranked league tables.
//
// Everything here is a pure function of its inputs: the same matches always
// produce the same standings, so callers recompute from scratch after every
// score change instead of patching rows.
package standings

import (
	"cmp"
	"slices"

	"github.com/Dosada05/tournament-ranking/models"
)

const (
	PointsWin  = 3
	PointsDraw = 1
)

// Calculate reduces the counted matches of a tournament into one Standing per
// entrant. Entrants are the players listed in entrants plus every player that
// appears in a counted match. Tie-break matches contribute goals but never
// points or games played.
//
// The result is ordered by points (desc) then player ID; ties are left for
// Rank to break.
func Calculate(tournamentID int, counted []models.StageType, matches []models.Match, entrants []int, players map[int]models.Player) []models.Standing {
	rows := make(map[int]*models.Standing)
	row := func(id int) *models.Standing {
		if s, ok := rows[id]; ok {
			return s
		}
		s := &models.Standing{TournamentID: tournamentID, PlayerID: id}
		if p, ok := players[id]; ok {
			s.PlayerName = p.Name
			s.Status = p.Status
		} else {
			s.PlayerName = models.PlaceholderName(id)
			s.Status = models.PlayerRanked
		}
		rows[id] = s
		return s
	}

	for _, id := range entrants {
		if id != 0 {
			row(id)
		}
	}

	for _, m := range matches {
		switch {
		case m.Stage == models.StageTieBreak:
			if m.IsPlayed() {
				addGoals(row, m)
			}
		case slices.Contains(counted, m.Stage):
			if m.IsBye() {
				continue
			}
			tally(row, m)
		}
	}

	out := make([]models.Standing, 0, len(rows))
	for _, s := range rows {
		s.GoalDifference = s.GoalsFor - s.GoalsAgainst
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b models.Standing) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
	return out
}

func tally(row func(int) *models.Standing, m models.Match) {
	var p1, p2 *models.Standing
	if m.Player1ID != 0 {
		p1 = row(m.Player1ID)
		p1.Expected++
	}
	if m.Player2ID != 0 {
		p2 = row(m.Player2ID)
		p2.Expected++
	}
	if p1 == nil || p2 == nil || !m.IsPlayed() {
		return
	}

	p1.Played++
	p2.Played++
	addGoals(row, m)

	switch {
	case m.Score1 > m.Score2:
		p1.Wins++
		p1.Points += PointsWin
		p2.Losses++
	case m.Score2 > m.Score1:
		p2.Wins++
		p2.Points += PointsWin
		p1.Losses++
	default:
		p1.Draws++
		p2.Draws++
		p1.Points += PointsDraw
		p2.Points += PointsDraw
	}
}

func addGoals(row func(int) *models.Standing, m models.Match) {
	if m.Player1ID == 0 || m.Player2ID == 0 {
		return
	}
	p1, p2 := row(m.Player1ID), row(m.Player2ID)
	p1.GoalsFor += m.Score1
	p1.GoalsAgainst += m.Score2
	p2.GoalsFor += m.Score2
	p2.GoalsAgainst += m.Score1
}

// GroupByPoints splits standings ordered by Calculate into runs of equal
// points.
func GroupByPoints(standings []models.Standing) [][]models.Standing {
	var groups [][]models.Standing
	for i := 0; i < len(standings); {
		j := i + 1
		for j < len(standings) && standings[j].Points == standings[i].Points {
			j++
		}
		groups = append(groups, standings[i:j])
		i = j
	}
	return groups
}
