package brackets

import "github.com/Dosada05/tournament-ranking/models"

// ladder plays the top eight on four courts for four rounds. After each round
// the winner of court i moves up to court i-1 and the loser drops to court
// i+1; the top court winner and the bottom court loser stay put.
func (b *planBuilder) ladder() {
	courts := LadderPlayers / 2
	prev := make([]FixtureRef, courts)
	for i := range courts {
		prev[i] = b.fixture(models.StageLadder, 1, i+1, Seed(2*i+1), Seed(2*i+2))
	}

	for round := 2; round <= LadderRounds; round++ {
		next := make([]FixtureRef, courts)
		for i := range courts {
			var home, away Source
			switch i {
			case 0:
				home, away = WinnerOf(prev[0]), WinnerOf(prev[1])
			case courts - 1:
				home, away = LoserOf(prev[courts-2]), LoserOf(prev[courts-1])
			default:
				home, away = LoserOf(prev[i-1]), WinnerOf(prev[i+1])
			}
			next[i] = b.fixture(models.StageLadder, round, i+1, home, away)
		}
		prev = next
	}

	for _, ref := range prev {
		b.tier(WinnerOf(ref))
		b.tier(LoserOf(ref))
	}
}

// doubleElimination builds a winners bracket for the top size seeds, a losers
// bracket fed by every winners-bracket round, and a single grand final.
//
// Losers-bracket round 1 pairs the first-round losers in order. For every
// later winners round r, one losers round pits the surviving losers-bracket
// players against the round-r losers slot by slot, followed (while more than
// one player is left) by a round pairing those winners in order.
func (b *planBuilder) doubleElimination(size int) {
	wb := make([]FixtureRef, 0, size/2)
	for i := range size / 2 {
		wb = append(wb, b.fixture(models.StageWinnersBracket, 1, i+1, Seed(2*i+1), Seed(2*i+2)))
	}
	wbRounds := [][]FixtureRef{wb}
	for round := 2; len(wb) > 1; round++ {
		next := make([]FixtureRef, 0, len(wb)/2)
		for i := 0; i < len(wb); i += 2 {
			next = append(next, b.fixture(models.StageWinnersBracket, round, i/2+1, WinnerOf(wb[i]), WinnerOf(wb[i+1])))
		}
		wbRounds = append(wbRounds, next)
		wb = next
	}

	var lbRounds [][]FixtureRef
	lbRound := 1
	lb := make([]FixtureRef, 0, size/4)
	first := wbRounds[0]
	for i := 0; i < len(first); i += 2 {
		lb = append(lb, b.fixture(models.StageLosersBracket, lbRound, i/2+1, LoserOf(first[i]), LoserOf(first[i+1])))
	}
	lbRounds = append(lbRounds, lb)

	for _, wbRound := range wbRounds[1:] {
		lbRound++
		major := make([]FixtureRef, 0, len(wbRound))
		for i, dropped := range wbRound {
			major = append(major, b.fixture(models.StageLosersBracket, lbRound, i+1, WinnerOf(lb[i]), LoserOf(dropped)))
		}
		lbRounds = append(lbRounds, major)
		lb = major

		if len(lb) > 1 {
			lbRound++
			minor := make([]FixtureRef, 0, len(lb)/2)
			for i := 0; i < len(lb); i += 2 {
				minor = append(minor, b.fixture(models.StageLosersBracket, lbRound, i/2+1, WinnerOf(lb[i]), WinnerOf(lb[i+1])))
			}
			lbRounds = append(lbRounds, minor)
			lb = minor
		}
	}

	final := b.fixture(models.StageGrandFinal, 0, 1, WinnerOf(wb[0]), WinnerOf(lb[0]))
	b.tier(WinnerOf(final))
	b.tier(LoserOf(final))
	for i := len(lbRounds) - 1; i >= 0; i-- {
		tier := make([]Source, 0, len(lbRounds[i]))
		for _, ref := range lbRounds[i] {
			tier = append(tier, LoserOf(ref))
		}
		b.tier(tier...)
	}
}
