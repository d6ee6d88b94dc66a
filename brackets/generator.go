package brackets

import (
	"context"

	"github.com/Dosada05/tournament-ranking/models"
)

// StageKey identifies one generation step of a bracket: a stage type and,
// for multi-round stages, the round inside it.
type StageKey struct {
	Stage models.StageType
	Round int
}

// seedingKey stands for the group stage (or the prior ranking) that produces
// the seeds every bracket starts from.
var seedingKey = StageKey{Stage: models.StageGroup}

func (k StageKey) less(o StageKey) bool {
	if k.Stage != o.Stage {
		return k.Stage < o.Stage
	}
	return k.Round < o.Round
}

// FixtureRef addresses a single fixture of a plan.
type FixtureRef struct {
	StageKey
	Slot int
}

func RefOf(m models.Match) FixtureRef {
	return FixtureRef{StageKey: StageKey{Stage: m.Stage, Round: m.Round}, Slot: m.Slot}
}

type sourceKind int

const (
	fromSeed sourceKind = iota + 1
	fromGroupSeed
	fromWinner
	fromLoser
)

// Source describes where a fixture slot takes its player from.
type Source struct {
	kind  sourceKind
	seed  int
	group int
	ref   FixtureRef
}

// Seed is the n-th player (1-based) of the overall seeding.
func Seed(n int) Source { return Source{kind: fromSeed, seed: n} }

// GroupSeed is the n-th player (1-based) of group g (0-based).
func GroupSeed(g, n int) Source { return Source{kind: fromGroupSeed, group: g, seed: n} }

func WinnerOf(ref FixtureRef) Source { return Source{kind: fromWinner, ref: ref} }

func LoserOf(ref FixtureRef) Source { return Source{kind: fromLoser, ref: ref} }

// dependsOn is the stage that must be complete before the source resolves.
func (s Source) dependsOn() StageKey {
	if s.kind == fromWinner || s.kind == fromLoser {
		return s.ref.StageKey
	}
	return seedingKey
}

type FixtureSpec struct {
	Ref  FixtureRef
	Home Source
	Away Source
}

// Seeding is the ordered entrant list a bracket is built from.
type Seeding struct {
	// Order is the overall post-tie-break order, best first.
	Order []int
	// Groups holds the per-group order for formats that pair across groups.
	Groups [][]int
	// Complete is false while the seeding stage still has undecided fixtures.
	Complete bool
}

func (s Seeding) position(playerID int) int {
	for i, id := range s.Order {
		if id == playerID {
			return i
		}
	}
	return len(s.Order)
}

// ScheduleParams describes a group stage to be scheduled.
type ScheduleParams struct {
	TournamentID int
	Format       models.TournamentFormat
	// Groups maps a group label to its players. A league without groups uses
	// a single entry with an empty label.
	Groups map[string][]int
}

// Scheduler creates the initial group-stage fixtures of a tournament.
type Scheduler interface {
	Schedule(ctx context.Context, params ScheduleParams) ([]models.Match, error)

	GetName() string
}
