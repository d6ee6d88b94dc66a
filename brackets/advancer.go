package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-ranking/models"
)

// bracketState indexes the existing knockout fixtures of a plan by slot.
type bracketState struct {
	plan     *Plan
	seeding  Seeding
	fixtures map[FixtureRef]models.Match
}

func newBracketState(plan *Plan, seeding Seeding, existing []models.Match) *bracketState {
	st := &bracketState{plan: plan, seeding: seeding, fixtures: make(map[FixtureRef]models.Match)}
	for _, m := range existing {
		ref := RefOf(m)
		if _, ok := plan.byKey[ref.StageKey]; !ok {
			continue
		}
		if prev, dup := st.fixtures[ref]; dup && prev.ID < m.ID {
			continue
		}
		st.fixtures[ref] = m
	}
	return st
}

func (st *bracketState) resolve(src Source) (int, bool) {
	switch src.kind {
	case fromSeed:
		if src.seed < 1 || src.seed > len(st.seeding.Order) {
			return 0, false
		}
		return st.seeding.Order[src.seed-1], true
	case fromGroupSeed:
		if src.group >= len(st.seeding.Groups) {
			return 0, false
		}
		group := st.seeding.Groups[src.group]
		if src.seed < 1 || src.seed > len(group) {
			return 0, false
		}
		return group[src.seed-1], true
	case fromWinner:
		m, ok := st.fixtures[src.ref]
		if !ok {
			return 0, false
		}
		return m.Winner()
	case fromLoser:
		m, ok := st.fixtures[src.ref]
		if !ok {
			return 0, false
		}
		return m.Loser()
	}
	return 0, false
}

func (st *bracketState) stageComplete(k StageKey) bool {
	if k == seedingKey {
		return st.seeding.Complete
	}
	for _, spec := range st.plan.fixturesOf(k) {
		m, ok := st.fixtures[spec.Ref]
		if !ok || !m.Decided() {
			return false
		}
	}
	return true
}

// Advance walks the plan's stages in dependency order and returns the
// fixtures that have to be written: new fixtures for every stage whose
// preceding stages are all decided, and existing fixtures whose players no
// longer match their sources. A re-paired fixture keeps its score when both
// players are unchanged and is reset to unplayed otherwise.
//
// Stages still waiting on results produce nothing; that is not an error.
func Advance(tournamentID int, plan *Plan, seeding Seeding, existing []models.Match) ([]models.Match, error) {
	st := newBracketState(plan, seeding, existing)

	order, err := plan.stages.order()
	if err != nil {
		return nil, fmt.Errorf("failed to order bracket stages: %w", err)
	}

	var changes []models.Match
	for _, key := range order {
		if key == seedingKey || !st.ready(key) {
			continue
		}
		for _, spec := range plan.fixturesOf(key) {
			p1, ok1 := st.resolve(spec.Home)
			p2, ok2 := st.resolve(spec.Away)
			if !ok1 || !ok2 {
				continue
			}

			cur, exists := st.fixtures[spec.Ref]
			switch {
			case !exists:
				cur = models.Match{
					TournamentID: tournamentID,
					Stage:        spec.Ref.Stage,
					Round:        spec.Ref.Round,
					Slot:         spec.Ref.Slot,
					Player1ID:    p1,
					Player2ID:    p2,
				}
			case cur.Player1ID != p1 || cur.Player2ID != p2:
				cur.Player1ID, cur.Player2ID = p1, p2
				cur.Score1, cur.Score2 = models.ScoreUnplayed, models.ScoreUnplayed
			default:
				continue
			}
			st.fixtures[spec.Ref] = cur
			changes = append(changes, cur)
		}
	}
	return changes, nil
}

func (st *bracketState) ready(k StageKey) bool {
	for _, p := range st.plan.stages.predecessors(k) {
		if !st.stageComplete(p) {
			return false
		}
	}
	return true
}

// Complete reports whether every fixture of the plan exists and is decided.
func (p *Plan) Complete(seeding Seeding, existing []models.Match) bool {
	st := newBracketState(p, seeding, existing)
	for k := range p.byKey {
		if !st.stageComplete(k) {
			return false
		}
	}
	return true
}
