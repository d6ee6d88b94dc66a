package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-ranking/models"
)

// Minimum entrants per knockout layer.
const (
	MinKnockoutPlayers           = 4
	MinRoundRobinQualifierPlayer = 6
	MinQuarterfinalPlayers       = 8
	MinQuarterfinalQualifier     = 10
	MinGroupSize                 = 3
	LadderPlayers                = 8
	LadderRounds                 = 4
	MinDoubleEliminationPlayers  = 8
)

// A Plan is the complete fixture structure of a tournament's knockout layer.
// Fixtures are described by where their players come from, so the same plan
// re-pairs everything when an upstream result changes.
type Plan struct {
	Format   models.TournamentFormat
	Fixtures []FixtureSpec
	// Tiers list final placements, best first. Players inside a tier are
	// ordered by seed.
	Tiers [][]Source

	stages *stageGraph
	byKey  map[StageKey][]FixtureSpec
}

// NewPlan builds the knockout plan of format for the given seeding. It fails
// with ErrInsufficientParticipants when the format cannot run with the seeded
// entrants.
func NewPlan(format models.TournamentFormat, seeding Seeding) (*Plan, error) {
	n := len(seeding.Order)
	b := &planBuilder{plan: &Plan{Format: format}}

	switch format {
	case models.FormatSingleRoundRobin, models.FormatDoubleRoundRobin, models.FormatHomeAndAwayLeague:
		switch {
		case n >= MinRoundRobinQualifierPlayer:
			b.roundRobinQualifiers()
		case n >= MinKnockoutPlayers:
			b.roundRobinFinals()
		default:
			return nil, insufficient(format, MinKnockoutPlayers, n)
		}
	case models.FormatGroupQuarterfinal:
		switch {
		case n >= MinQuarterfinalQualifier:
			b.quarterfinalQualifiers()
		case n >= MinQuarterfinalPlayers:
			b.quarterfinals()
		default:
			return nil, insufficient(format, MinQuarterfinalPlayers, n)
		}
	case models.FormatGroupSemifinalQualifier:
		if len(seeding.Groups) != 2 {
			return nil, fmt.Errorf("%w: %s needs exactly 2 groups, got %d", ErrInsufficientParticipants, format, len(seeding.Groups))
		}
		for i, g := range seeding.Groups {
			if len(g) < MinGroupSize {
				return nil, fmt.Errorf("%w: %s group %d has %d players, needs %d", ErrInsufficientParticipants, format, i+1, len(g), MinGroupSize)
			}
		}
		b.groupSemifinalQualifiers()
	case models.FormatPromotionLadder:
		if n < LadderPlayers {
			return nil, insufficient(format, LadderPlayers, n)
		}
		b.ladder()
	case models.FormatDoubleElimination:
		if n < MinDoubleEliminationPlayers {
			return nil, insufficient(format, MinDoubleEliminationPlayers, n)
		}
		b.doubleElimination(bracketSize(n))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(format))
	}

	return b.finish()
}

func insufficient(format models.TournamentFormat, required, actual int) error {
	return fmt.Errorf("%w: %s needs %d players, got %d", ErrInsufficientParticipants, format, required, actual)
}

// bracketSize is the largest power of two not above n.
func bracketSize(n int) int {
	size := 1
	for size*2 <= n {
		size *= 2
	}
	return size
}

func (p *Plan) fixturesOf(k StageKey) []FixtureSpec {
	return p.byKey[k]
}

type planBuilder struct {
	plan *Plan
}

func (b *planBuilder) fixture(stage models.StageType, round, slot int, home, away Source) FixtureRef {
	ref := FixtureRef{StageKey: StageKey{Stage: stage, Round: round}, Slot: slot}
	b.plan.Fixtures = append(b.plan.Fixtures, FixtureSpec{Ref: ref, Home: home, Away: away})
	return ref
}

func (b *planBuilder) tier(sources ...Source) {
	b.plan.Tiers = append(b.plan.Tiers, sources)
}

func (b *planBuilder) finish() (*Plan, error) {
	p := b.plan
	p.byKey = make(map[StageKey][]FixtureSpec)
	seen := make(map[FixtureRef]bool, len(p.Fixtures))
	for _, f := range p.Fixtures {
		if seen[f.Ref] {
			return nil, fmt.Errorf("%w: duplicate fixture %v", ErrInvalidPlan, f.Ref)
		}
		seen[f.Ref] = true
		p.byKey[f.Ref.StageKey] = append(p.byKey[f.Ref.StageKey], f)
	}

	stages, err := newStageGraph(p.Fixtures)
	if err != nil {
		return nil, err
	}
	p.stages = stages
	return p, nil
}
