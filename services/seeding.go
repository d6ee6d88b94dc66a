package services

import (
	"cmp"
	"context"
	"slices"

	"github.com/Dosada05/tournament-ranking/brackets"
	"github.com/Dosada05/tournament-ranking/models"
	"github.com/Dosada05/tournament-ranking/standings"
)

// tournamentState is everything one recompute pass reads, loaded once.
type tournamentState struct {
	tournament models.Tournament
	matches    []models.Match
	entries    []models.RankingEntry
	players    map[int]models.Player
}

func (s *rankingService) load(ctx context.Context, tournamentID int) (*tournamentState, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "load tournament")
	}
	matches, err := s.matchRepo.ListMatches(ctx, tournamentID, nil)
	if err != nil {
		return nil, handleRepositoryError(err, "load matches")
	}
	entries, err := s.matchRepo.ListRankingEntries(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "load ranking entries")
	}

	seen := make(map[int]bool)
	var ids []int
	add := func(id int) {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, e := range entries {
		add(e.PlayerID)
	}
	for _, m := range matches {
		add(m.Player1ID)
		add(m.Player2ID)
	}
	slices.Sort(ids)

	players, err := s.playerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, handleRepositoryError(err, "load players")
	}
	return &tournamentState{tournament: *t, matches: matches, entries: entries, players: players}, nil
}

func (st *tournamentState) counted() []models.StageType {
	return st.tournament.Format.CountedStages()
}

// countedMatches returns the group-stage fixtures that feed the table.
func (st *tournamentState) countedMatches() []models.Match {
	counted := st.counted()
	var out []models.Match
	for _, m := range st.matches {
		if slices.Contains(counted, m.Stage) {
			out = append(out, m)
		}
	}
	return out
}

func (st *tournamentState) entrantIDs() []int {
	ids := make([]int, 0, len(st.entries))
	for _, e := range st.entries {
		ids = append(ids, e.PlayerID)
	}
	return ids
}

// groupLabels maps every player of a group fixture to its group label.
func (st *tournamentState) groupLabels() map[int]string {
	labels := make(map[int]string)
	for _, m := range st.countedMatches() {
		if m.Group == "" {
			continue
		}
		labels[m.Player1ID] = m.Group
		labels[m.Player2ID] = m.Group
	}
	delete(labels, 0)
	return labels
}

// table ranks the tournament. Every caller (standings display, tie-break
// generation, seeding and final placement) reads this one table, so what is
// shown as provisional is exactly what blocks the bracket.
func (st *tournamentState) table() standings.Table {
	return standings.Build(st.tournament.ID, st.counted(), st.matches, st.entrantIDs(), st.players, st.groupLabels())
}

// groupStageSettled reports whether every counted fixture is decided.
func (st *tournamentState) groupStageSettled() bool {
	for _, m := range st.countedMatches() {
		if !m.Decided() {
			return false
		}
	}
	return true
}

// seeding derives the bracket seeding of the tournament together with the
// unresolved tie runs that still block it.
//
// Group formats seed from the table. Formats without group fixtures seed from
// the opening-round fixtures once they exist and from the stored ranking
// entries before that, so writing final placements never reseeds a running
// bracket.
func (st *tournamentState) seeding() (brackets.Seeding, [][]int) {
	if len(st.countedMatches()) == 0 {
		return st.entrySeeding(), nil
	}

	tbl := st.table()
	seeding := brackets.Seeding{
		Order:    playerOrder(tbl.Rows),
		Complete: st.groupStageSettled() && tbl.Settled,
	}
	if len(tbl.Groups) > 0 {
		seeding.Groups = make([][]int, 0, len(tbl.Labels))
		for _, label := range tbl.Labels {
			seeding.Groups = append(seeding.Groups, playerOrder(tbl.Groups[label]))
		}
	}
	return seeding, tbl.Runs
}

func (st *tournamentState) entrySeeding() brackets.Seeding {
	entries := slices.Clone(st.entries)
	slices.SortStableFunc(entries, func(a, b models.RankingEntry) int {
		if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})

	var order []int
	placed := make(map[int]bool)
	if stage, ok := openingStage(st.tournament.Format); ok {
		var opening []models.Match
		for _, m := range st.matches {
			if m.Stage == stage && m.Round == 1 {
				opening = append(opening, m)
			}
		}
		slices.SortFunc(opening, func(a, b models.Match) int { return cmp.Compare(a.Slot, b.Slot) })
		for _, m := range opening {
			for _, id := range []int{m.Player1ID, m.Player2ID} {
				if id != 0 && !placed[id] {
					placed[id] = true
					order = append(order, id)
				}
			}
		}
	}
	for _, e := range entries {
		if !placed[e.PlayerID] {
			placed[e.PlayerID] = true
			order = append(order, e.PlayerID)
		}
	}
	return brackets.Seeding{Order: order, Complete: true}
}

// openingStage is the stage whose round-1 fixtures pair the seeds in order.
func openingStage(format models.TournamentFormat) (models.StageType, bool) {
	switch format {
	case models.FormatPromotionLadder:
		return models.StageLadder, true
	case models.FormatDoubleElimination:
		return models.StageWinnersBracket, true
	}
	return 0, false
}

func playerOrder(rows []models.Standing) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.PlayerID
	}
	return ids
}
