package brackets

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/Dosada05/tournament-ranking/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Scheduler {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Schedule creates the group-stage fixtures with the circle method: every
// player meets every other player of the same group once per leg. A
// home-and-away league plays the first leg as home fixtures and the second,
// with players swapped, as away fixtures; a double round robin plays both
// legs as plain group fixtures.
func (g *RoundRobinGenerator) Schedule(ctx context.Context, params ScheduleParams) ([]models.Match, error) {
	if !params.Format.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, int(params.Format))
	}
	if len(params.Groups) == 0 {
		return nil, fmt.Errorf("RoundRobinGenerator: no groups to schedule for tournament %d", params.TournamentID)
	}

	firstLeg, secondLeg := models.StageGroup, models.StageGroup
	if params.Format == models.FormatHomeAndAwayLeague {
		firstLeg, secondLeg = models.StageGroupHome, models.StageGroupAway
	}
	legs := params.Format.Legs()

	labels := make([]string, 0, len(params.Groups))
	for label := range params.Groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	matches := make([]models.Match, 0)
	slot := 0
	for _, label := range labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		players := params.Groups[label]
		if len(players) < 2 {
			return nil, fmt.Errorf("%w: group %q has %d players, min 2 required", ErrInsufficientParticipants, label, len(players))
		}

		rounds := circleRounds(players)
		for leg := 1; leg <= legs; leg++ {
			stage := firstLeg
			if leg == 2 {
				stage = secondLeg
			}
			for r, pairs := range rounds {
				for _, pair := range pairs {
					p1, p2 := pair[0], pair[1]
					if leg == 2 {
						p1, p2 = p2, p1
					}
					slot++
					matches = append(matches, models.Match{
						TournamentID: params.TournamentID,
						Stage:        stage,
						Round:        (leg-1)*len(rounds) + r + 1,
						Slot:         slot,
						Group:        label,
						Player1ID:    p1,
						Player2ID:    p2,
					})
				}
			}
		}
	}
	return matches, nil
}

// circleRounds pairs players round by round, keeping the first player fixed
// and rotating the rest. With an odd count a phantom player (ID 0) gives one
// player per round the day off.
func circleRounds(players []int) [][][2]int {
	ring := slices.Clone(players)
	if len(ring)%2 == 1 {
		ring = append(ring, 0)
	}
	n := len(ring)

	rounds := make([][][2]int, 0, n-1)
	for r := 0; r < n-1; r++ {
		pairs := make([][2]int, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := ring[i], ring[n-1-i]
			if a == 0 || b == 0 {
				continue
			}
			if i == 0 && r%2 == 1 {
				a, b = b, a
			}
			pairs = append(pairs, [2]int{a, b})
		}
		rounds = append(rounds, pairs)

		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	return rounds
}
