package brackets

import (
	"cmp"
	"slices"

	"github.com/Dosada05/tournament-ranking/models"
)

// Placements returns the final order of the tournament: the plan's tiers
// first, each ordered by seed, followed by every seeded player the bracket
// never placed, in seeding order. complete is false while any tier still
// depends on an undecided fixture; the order is then partial.
func (p *Plan) Placements(seeding Seeding, existing []models.Match) (order []int, complete bool) {
	st := newBracketState(p, seeding, existing)
	placed := make(map[int]bool)
	complete = true

	for _, tier := range p.Tiers {
		ids := make([]int, 0, len(tier))
		for _, src := range tier {
			id, ok := st.resolve(src)
			if !ok {
				complete = false
				continue
			}
			if id == 0 || placed[id] {
				continue
			}
			ids = append(ids, id)
		}
		slices.SortStableFunc(ids, func(a, b int) int {
			return cmp.Compare(seeding.position(a), seeding.position(b))
		})
		for _, id := range ids {
			placed[id] = true
			order = append(order, id)
		}
	}

	for _, id := range seeding.Order {
		if !placed[id] {
			placed[id] = true
			order = append(order, id)
		}
	}
	return order, complete
}
