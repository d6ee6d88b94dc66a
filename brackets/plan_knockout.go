package brackets

import "github.com/Dosada05/tournament-ranking/models"

// finals adds the gold and bronze matches fed by the two semifinals.
func (b *planBuilder) finals(sf1, sf2 FixtureRef) {
	gold := b.fixture(models.StageGold, 0, 1, WinnerOf(sf1), WinnerOf(sf2))
	bronze := b.fixture(models.StageBronze, 0, 1, LoserOf(sf1), LoserOf(sf2))
	b.tier(WinnerOf(gold))
	b.tier(LoserOf(gold))
	b.tier(WinnerOf(bronze))
	b.tier(LoserOf(bronze))
}

// roundRobinQualifiers: 4th v 5th and 3rd v 6th qualify to meet the top two.
func (b *planBuilder) roundRobinQualifiers() {
	q1 := b.fixture(models.StageSemifinalQualifier, 0, 1, Seed(4), Seed(5))
	q2 := b.fixture(models.StageSemifinalQualifier, 0, 2, Seed(3), Seed(6))
	sf1 := b.fixture(models.StageSemifinal, 0, 1, Seed(1), WinnerOf(q1))
	sf2 := b.fixture(models.StageSemifinal, 0, 2, Seed(2), WinnerOf(q2))
	b.finals(sf1, sf2)
	b.tier(LoserOf(q1), LoserOf(q2))
}

// roundRobinFinals: small leagues go straight to the medal matches.
func (b *planBuilder) roundRobinFinals() {
	gold := b.fixture(models.StageGold, 0, 1, Seed(1), Seed(2))
	bronze := b.fixture(models.StageBronze, 0, 1, Seed(3), Seed(4))
	b.tier(WinnerOf(gold))
	b.tier(LoserOf(gold))
	b.tier(WinnerOf(bronze))
	b.tier(LoserOf(bronze))
}

// quarterfinals pairs the top eight 1v8, 4v5, 2v7, 3v6.
func (b *planBuilder) quarterfinals() {
	b.quarterfinalTree(Seed(8), Seed(7))
}

// quarterfinalQualifiers adds 7v10 and 8v9 ahead of the quarterfinals; their
// winners take the slots against seeds 2 and 1.
func (b *planBuilder) quarterfinalQualifiers() {
	qq1 := b.fixture(models.StageQuarterfinalQualifier, 0, 1, Seed(7), Seed(10))
	qq2 := b.fixture(models.StageQuarterfinalQualifier, 0, 2, Seed(8), Seed(9))
	b.quarterfinalTree(WinnerOf(qq2), WinnerOf(qq1))
	b.tier(LoserOf(qq1), LoserOf(qq2))
}

func (b *planBuilder) quarterfinalTree(versusFirst, versusSecond Source) {
	qf1 := b.fixture(models.StageQuarterfinal, 0, 1, Seed(1), versusFirst)
	qf2 := b.fixture(models.StageQuarterfinal, 0, 2, Seed(4), Seed(5))
	qf3 := b.fixture(models.StageQuarterfinal, 0, 3, Seed(2), versusSecond)
	qf4 := b.fixture(models.StageQuarterfinal, 0, 4, Seed(3), Seed(6))
	sf1 := b.fixture(models.StageSemifinal, 0, 1, WinnerOf(qf1), WinnerOf(qf2))
	sf2 := b.fixture(models.StageSemifinal, 0, 2, WinnerOf(qf3), WinnerOf(qf4))
	b.finals(sf1, sf2)
	b.tier(LoserOf(qf1), LoserOf(qf2), LoserOf(qf3), LoserOf(qf4))
}

// groupSemifinalQualifiers crosses two groups: B2 v A3 and A2 v B3 decide who
// meets the group winners A1 and B1.
func (b *planBuilder) groupSemifinalQualifiers() {
	const groupA, groupB = 0, 1
	q1 := b.fixture(models.StageSemifinalQualifier, 0, 1, GroupSeed(groupB, 2), GroupSeed(groupA, 3))
	q2 := b.fixture(models.StageSemifinalQualifier, 0, 2, GroupSeed(groupA, 2), GroupSeed(groupB, 3))
	sf1 := b.fixture(models.StageSemifinal, 0, 1, GroupSeed(groupA, 1), WinnerOf(q1))
	sf2 := b.fixture(models.StageSemifinal, 0, 2, GroupSeed(groupB, 1), WinnerOf(q2))
	b.finals(sf1, sf2)
	b.tier(LoserOf(q1), LoserOf(q2))
}
