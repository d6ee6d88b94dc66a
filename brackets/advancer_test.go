package brackets

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Dosada05/tournament-ranking/models"
)

func seeds(n int) Seeding {
	order := make([]int, n)
	for i := range order {
		order[i] = i + 1
	}
	return Seeding{Order: order, Complete: true}
}

// board plays the role of the match store in these tests.
type board struct {
	matches []models.Match
	nextID  int
}

func (b *board) apply(changes []models.Match) {
	for _, c := range changes {
		if c.ID == 0 {
			b.nextID++
			c.ID = b.nextID
			b.matches = append(b.matches, c)
			continue
		}
		for i := range b.matches {
			if b.matches[i].ID == c.ID {
				b.matches[i] = c
			}
		}
	}
}

func (b *board) find(stage models.StageType, round, slot int) *models.Match {
	for i := range b.matches {
		m := &b.matches[i]
		if m.Stage == stage && m.Round == round && m.Slot == slot {
			return m
		}
	}
	return nil
}

func (b *board) stage(stage models.StageType) []models.Match {
	var out []models.Match
	for _, m := range b.matches {
		if m.Stage == stage {
			out = append(out, m)
		}
	}
	return out
}

// decideAll lets the first-slot player win every open fixture.
func (b *board) decideAll() {
	for i := range b.matches {
		if !b.matches[i].IsPlayed() {
			b.matches[i].Score1, b.matches[i].Score2 = 2, 1
		}
	}
}

func (b *board) advance(t *testing.T, plan *Plan, s Seeding) []models.Match {
	t.Helper()
	changes, err := Advance(1, plan, s, b.matches)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	b.apply(changes)
	return changes
}

// playOut advances and decides until the bracket stops producing fixtures.
func (b *board) playOut(t *testing.T, plan *Plan, s Seeding) {
	t.Helper()
	for i := 0; i < 32; i++ {
		if len(b.advance(t, plan, s)) == 0 {
			return
		}
		b.decideAll()
	}
	t.Fatal("bracket did not settle")
}

func pairs(ms []models.Match) [][2]int {
	out := make([][2]int, len(ms))
	for i, m := range ms {
		out[i] = [2]int{m.Player1ID, m.Player2ID}
	}
	return out
}

func mustPlan(t *testing.T, format models.TournamentFormat, s Seeding) *Plan {
	t.Helper()
	plan, err := NewPlan(format, s)
	if err != nil {
		t.Fatalf("NewPlan(%s): %v", format, err)
	}
	return plan
}

func TestQuarterfinalPairing(t *testing.T) {
	s := seeds(8)
	plan := mustPlan(t, models.FormatGroupQuarterfinal, s)

	var b board
	changes := b.advance(t, plan, s)
	want := [][2]int{{1, 8}, {4, 5}, {2, 7}, {3, 6}}
	if got := pairs(changes); !reflect.DeepEqual(got, want) {
		t.Fatalf("quarterfinals = %v, want %v", got, want)
	}
	for i, m := range changes {
		if m.Stage != models.StageQuarterfinal || m.Slot != i+1 || m.IsPlayed() {
			t.Errorf("unexpected fixture %+v", m)
		}
	}
	if again := b.advance(t, plan, s); len(again) != 0 {
		t.Fatalf("second pass produced %d fixtures", len(again))
	}
}

func TestQuarterfinalQualifiers(t *testing.T) {
	s := seeds(10)
	plan := mustPlan(t, models.FormatGroupQuarterfinal, s)

	var b board
	changes := b.advance(t, plan, s)
	if got, want := pairs(changes), [][2]int{{7, 10}, {8, 9}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("qualifiers = %v, want %v", got, want)
	}
	if len(b.stage(models.StageQuarterfinal)) != 0 {
		t.Fatal("quarterfinals generated before qualifiers were decided")
	}

	q1 := b.find(models.StageQuarterfinalQualifier, 0, 1)
	q1.Score1, q1.Score2 = 1, 3 // 10 beats 7
	q2 := b.find(models.StageQuarterfinalQualifier, 0, 2)
	q2.Score1, q2.Score2 = 4, 0 // 8 beats 9

	changes = b.advance(t, plan, s)
	if got, want := pairs(changes), [][2]int{{1, 8}, {4, 5}, {2, 10}, {3, 6}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("quarterfinals = %v, want %v", got, want)
	}
}

func TestGroupSemifinalQualifiers(t *testing.T) {
	const a1, a2, a3, b1, b2, b3 = 11, 12, 13, 21, 22, 23
	s := Seeding{
		Order:    []int{a1, b1, a2, b2, a3, b3},
		Groups:   [][]int{{a1, a2, a3}, {b1, b2, b3}},
		Complete: true,
	}
	plan := mustPlan(t, models.FormatGroupSemifinalQualifier, s)

	var b board
	changes := b.advance(t, plan, s)
	if got, want := pairs(changes), [][2]int{{b2, a3}, {a2, b3}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("semifinal qualifiers = %v, want %v", got, want)
	}

	b.decideAll()
	changes = b.advance(t, plan, s)
	if got, want := pairs(changes), [][2]int{{a1, b2}, {b1, a2}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("semifinals = %v, want %v", got, want)
	}
}

func TestRoundRobinKnockoutLayers(t *testing.T) {
	tests := []struct {
		name    string
		players int
		stage   models.StageType
		want    [][2]int
	}{
		{"six players qualify", 6, models.StageSemifinalQualifier, [][2]int{{4, 5}, {3, 6}}},
		{"four players medal matches", 4, models.StageBronze, [][2]int{{3, 4}}},
		{"five players medal matches", 5, models.StageGold, [][2]int{{1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seeds(tt.players)
			plan := mustPlan(t, models.FormatSingleRoundRobin, s)
			var b board
			b.advance(t, plan, s)
			if got := pairs(b.stage(tt.stage)); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("%s = %v, want %v", tt.stage, got, tt.want)
			}
		})
	}
}

func TestCorrectedQuarterfinalRepairsSemifinal(t *testing.T) {
	s := seeds(8)
	plan := mustPlan(t, models.FormatGroupQuarterfinal, s)

	var b board
	b.advance(t, plan, s)
	b.decideAll()
	b.advance(t, plan, s)
	if got, want := pairs(b.stage(models.StageSemifinal)), [][2]int{{1, 4}, {2, 3}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("semifinals = %v, want %v", got, want)
	}

	sf2 := b.find(models.StageSemifinal, 0, 2)
	sf2.Score1, sf2.Score2 = 5, 3
	sf1 := b.find(models.StageSemifinal, 0, 1)
	sf1.Score1, sf1.Score2 = 2, 0
	sf2ID := sf2.ID
	count := len(b.matches)

	// 8 actually beat 1 in the first quarterfinal.
	qf1 := b.find(models.StageQuarterfinal, 0, 1)
	qf1.Score1, qf1.Score2 = 0, 1

	changes := b.advance(t, plan, s)
	if len(b.matches) != count {
		t.Fatalf("correction added fixtures: %d -> %d", count, len(b.matches))
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %+v, want only the first semifinal", changes)
	}

	sf1 = b.find(models.StageSemifinal, 0, 1)
	if sf1.Player1ID != 8 || sf1.Player2ID != 4 || sf1.IsPlayed() {
		t.Fatalf("semifinal 1 = %+v, want 8 v 4 unplayed", *sf1)
	}
	sf2 = b.find(models.StageSemifinal, 0, 2)
	if sf2.ID != sf2ID || sf2.Score1 != 5 || sf2.Score2 != 3 {
		t.Fatalf("semifinal 2 lost its result: %+v", *sf2)
	}
	if len(b.stage(models.StageGold)) != 0 {
		t.Fatal("finals generated while a semifinal is open")
	}
}

func TestIncompleteSeedingGeneratesNothing(t *testing.T) {
	s := seeds(8)
	s.Complete = false
	plan := mustPlan(t, models.FormatGroupQuarterfinal, s)

	changes, err := Advance(1, plan, s, nil)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if len(changes) != 0 {
		t.Fatalf("generated %d fixtures from an incomplete group stage", len(changes))
	}
}

func TestInsufficientParticipants(t *testing.T) {
	tests := []struct {
		name    string
		format  models.TournamentFormat
		seeding Seeding
	}{
		{"round robin", models.FormatDoubleRoundRobin, seeds(3)},
		{"quarterfinals", models.FormatGroupQuarterfinal, seeds(7)},
		{"ladder", models.FormatPromotionLadder, seeds(7)},
		{"double elimination", models.FormatDoubleElimination, seeds(5)},
		{"one group", models.FormatGroupSemifinalQualifier, Seeding{Order: []int{1, 2, 3, 4, 5, 6}, Groups: [][]int{{1, 2, 3, 4, 5, 6}}}},
		{"small group", models.FormatGroupSemifinalQualifier, Seeding{Order: []int{1, 2, 3, 4, 5, 6}, Groups: [][]int{{1, 2}, {3, 4, 5, 6}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlan(tt.format, tt.seeding)
			if !errors.Is(err, ErrInsufficientParticipants) {
				t.Fatalf("err = %v, want ErrInsufficientParticipants", err)
			}
		})
	}

	if _, err := NewPlan(models.TournamentFormat(99), seeds(8)); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("unknown format err = %v", err)
	}
}

func TestLadder(t *testing.T) {
	s := seeds(8)
	plan := mustPlan(t, models.FormatPromotionLadder, s)

	var b board
	changes := b.advance(t, plan, s)
	if got, want := pairs(changes), [][2]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("round 1 = %v, want %v", got, want)
	}

	b.decideAll()
	changes = b.advance(t, plan, s)
	if got, want := pairs(changes), [][2]int{{1, 3}, {2, 5}, {4, 7}, {6, 8}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("round 2 = %v, want %v", got, want)
	}
	for _, m := range changes {
		if m.Stage != models.StageLadder || m.Round != 2 {
			t.Errorf("unexpected fixture %+v", m)
		}
	}

	b.decideAll()
	b.playOut(t, plan, s)
	if n := len(b.stage(models.StageLadder)); n != LadderPlayers/2*LadderRounds {
		t.Fatalf("ladder fixtures = %d, want %d", n, LadderPlayers/2*LadderRounds)
	}

	order, complete := plan.Placements(s, b.matches)
	if !complete {
		t.Fatal("placements incomplete after the last round")
	}
	if want := []int{1, 3, 2, 5, 4, 7, 6, 8}; !reflect.DeepEqual(order, want) {
		t.Fatalf("placements = %v, want %v", order, want)
	}
}

func TestDoubleElimination(t *testing.T) {
	s := seeds(9)
	plan := mustPlan(t, models.FormatDoubleElimination, s)

	var b board
	changes := b.advance(t, plan, s)
	if got, want := pairs(changes), [][2]int{{1, 2}, {3, 4}, {5, 6}, {7, 8}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("winners round 1 = %v, want %v", got, want)
	}

	b.decideAll()
	b.advance(t, plan, s)
	lb := b.stage(models.StageLosersBracket)
	if got, want := pairs(lb), [][2]int{{2, 4}, {6, 8}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("losers round 1 = %v, want %v", got, want)
	}

	b.decideAll()
	b.playOut(t, plan, s)

	if n := len(b.stage(models.StageWinnersBracket)); n != 7 {
		t.Errorf("winners bracket fixtures = %d, want 7", n)
	}
	if n := len(b.stage(models.StageLosersBracket)); n != 6 {
		t.Errorf("losers bracket fixtures = %d, want 6", n)
	}
	final := b.stage(models.StageGrandFinal)
	if got, want := pairs(final), [][2]int{{1, 2}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("grand final = %v, want %v", got, want)
	}

	order, complete := plan.Placements(s, b.matches)
	if !complete {
		t.Fatal("placements incomplete after the grand final")
	}
	if want := []int{1, 2, 5, 6, 3, 7, 4, 8, 9}; !reflect.DeepEqual(order, want) {
		t.Fatalf("placements = %v, want %v", order, want)
	}
}

func TestPlacementsPartialWhileOpen(t *testing.T) {
	s := seeds(6)
	plan := mustPlan(t, models.FormatSingleRoundRobin, s)

	var b board
	b.advance(t, plan, s)
	order, complete := plan.Placements(s, b.matches)
	if complete {
		t.Fatal("placements complete before any knockout result")
	}
	if len(order) != 6 {
		t.Fatalf("partial order = %v, want every seed present", order)
	}

	b.decideAll()
	b.playOut(t, plan, s)
	order, complete = plan.Placements(s, b.matches)
	if !complete {
		t.Fatal("placements incomplete after finals")
	}
	// SF1 1 v 4, SF2 2 v 3; gold 1 v 2, bronze 4 v 3; qualifier losers 5, 6.
	if want := []int{1, 2, 4, 3, 5, 6}; !reflect.DeepEqual(order, want) {
		t.Fatalf("placements = %v, want %v", order, want)
	}
}
