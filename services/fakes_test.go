package services

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/Dosada05/tournament-ranking/models"
	"github.com/Dosada05/tournament-ranking/repositories"
	"github.com/Dosada05/tournament-ranking/scoring"
)

// memoryLeague is an in-memory stand-in for the SQL repositories.
type memoryLeague struct {
	tournaments map[int]models.Tournament
	players     map[int]models.Player
	matches     []models.Match
	rankings    map[int][]models.RankingEntry
	nextID      int
}

func newMemoryLeague() *memoryLeague {
	return &memoryLeague{
		tournaments: make(map[int]models.Tournament),
		players:     make(map[int]models.Player),
		rankings:    make(map[int][]models.RankingEntry),
		nextID:      1000,
	}
}

type fakeMatches struct{ *memoryLeague }

func (f fakeMatches) GetByID(_ context.Context, id int) (*models.Match, error) {
	for _, m := range f.matches {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (f fakeMatches) ListMatches(_ context.Context, tournamentID int, stages []models.StageType) ([]models.Match, error) {
	var out []models.Match
	for _, m := range f.matches {
		if m.TournamentID == tournamentID && (len(stages) == 0 || slices.Contains(stages, m.Stage)) {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b models.Match) int {
		return cmp.Or(cmp.Compare(a.Stage, b.Stage), cmp.Compare(a.Round, b.Round), cmp.Compare(a.Slot, b.Slot), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (f fakeMatches) UpsertMatches(_ context.Context, matches []models.Match) ([]models.Match, error) {
	out := slices.Clone(matches)
	for i := range out {
		if out[i].ID == 0 {
			f.nextID++
			out[i].ID = f.nextID
			f.matches = append(f.matches, out[i])
			continue
		}
		j := slices.IndexFunc(f.matches, func(m models.Match) bool { return m.ID == out[i].ID })
		if j < 0 {
			return nil, repositories.ErrMatchNotFound
		}
		f.matches[j] = out[i]
	}
	return out, nil
}

func (f fakeMatches) UpdateScore(_ context.Context, id, score1, score2 int) error {
	j := slices.IndexFunc(f.matches, func(m models.Match) bool { return m.ID == id })
	if j < 0 {
		return repositories.ErrMatchNotFound
	}
	f.matches[j].Score1, f.matches[j].Score2 = score1, score2
	return nil
}

func (f fakeMatches) ListRankingEntries(_ context.Context, tournamentID int) ([]models.RankingEntry, error) {
	return slices.Clone(f.rankings[tournamentID]), nil
}

type fakeTournaments struct{ *memoryLeague }

func (f fakeTournaments) CreateSeason(context.Context, string) (int, error) {
	f.nextID++
	return f.nextID, nil
}

func (f fakeTournaments) Create(_ context.Context, t *models.Tournament) error {
	f.nextID++
	t.ID = f.nextID
	if t.Status == 0 {
		t.Status = models.TournamentNormal
	}
	f.tournaments[t.ID] = *t
	return nil
}

func (f fakeTournaments) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (f fakeTournaments) ListBySeason(_ context.Context, seasonID int) ([]models.Tournament, error) {
	var out []models.Tournament
	for _, t := range f.tournaments {
		if t.SeasonID == seasonID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b models.Tournament) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (f fakeTournaments) UpdateStatus(_ context.Context, id int, status models.TournamentStatus) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	f.tournaments[id] = t
	return nil
}

type fakePlayers struct{ *memoryLeague }

func (f fakePlayers) Create(_ context.Context, p *models.Player) error {
	f.nextID++
	p.ID = f.nextID
	f.players[p.ID] = *p
	return nil
}

func (f fakePlayers) ListByIDs(_ context.Context, ids []int) (map[int]models.Player, error) {
	out := make(map[int]models.Player)
	for _, id := range ids {
		if p, ok := f.players[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeRankings struct{ *memoryLeague }

func (f fakeRankings) SaveRanking(_ context.Context, tournamentID int, entries []models.RankingEntry) error {
	f.rankings[tournamentID] = slices.Clone(entries)
	return nil
}

func (f fakeRankings) ListPlayerResults(_ context.Context, playerID int) ([]models.EventResult, error) {
	var out []models.EventResult
	for tid, entries := range f.rankings {
		t := f.tournaments[tid]
		if t.Cancelled() {
			continue
		}
		for _, e := range entries {
			if e.PlayerID == playerID {
				out = append(out, models.EventResult{TournamentID: tid, SeasonID: t.SeasonID, Class: t.Class, Rank: e.Rank, Score: e.Score})
			}
		}
	}
	slices.SortFunc(out, func(a, b models.EventResult) int {
		return cmp.Or(cmp.Compare(b.SeasonID, a.SeasonID), cmp.Compare(b.TournamentID, a.TournamentID))
	})
	return out, nil
}

func (f fakeRankings) ListSeasonPlayerIDs(_ context.Context, seasonID int) ([]int, error) {
	seen := make(map[int]bool)
	var ids []int
	for tid, entries := range f.rankings {
		if f.tournaments[tid].SeasonID != seasonID {
			continue
		}
		for _, e := range entries {
			if !seen[e.PlayerID] {
				seen[e.PlayerID] = true
				ids = append(ids, e.PlayerID)
			}
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// recordingPublisher remembers what was published.
type recordingPublisher struct {
	rankings     map[int][]models.Standing
	leaderboards map[int][]models.LeaderboardEntry
	withdrawn    []int
}

func (p *recordingPublisher) PublishRanking(_ context.Context, t models.Tournament, ranking []models.Standing) (string, error) {
	p.rankings[t.ID] = ranking
	return "", nil
}

func (p *recordingPublisher) WithdrawRanking(_ context.Context, t models.Tournament) error {
	p.withdrawn = append(p.withdrawn, t.ID)
	return nil
}

func (p *recordingPublisher) PublishLeaderboard(_ context.Context, seasonID int, entries []models.LeaderboardEntry) (string, error) {
	p.leaderboards[seasonID] = entries
	return "", nil
}

type harness struct {
	league    *memoryLeague
	publisher *recordingPublisher
	svc       RankingService
}

func newHarness() *harness {
	league := newMemoryLeague()
	pub := &recordingPublisher{rankings: map[int][]models.Standing{}, leaderboards: map[int][]models.LeaderboardEntry{}}
	svc := NewRankingService(
		fakeMatches{league}, fakeTournaments{league}, fakePlayers{league}, fakeRankings{league},
		pub, scoring.DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &harness{league: league, publisher: pub, svc: svc}
}

func (h *harness) tournament(t *testing.T, format models.TournamentFormat, class models.EventClass) models.Tournament {
	t.Helper()
	tour := models.Tournament{SeasonID: 1, Name: "Open", Class: class, Format: format}
	if err := (fakeTournaments{h.league}).Create(context.Background(), &tour); err != nil {
		t.Fatalf("create tournament: %v", err)
	}
	return tour
}

// roster registers n players named A, B, C... and returns their ids in order.
func (h *harness) roster(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		p := models.Player{Name: string(rune('A' + i)), Status: models.PlayerRanked}
		_ = fakePlayers{h.league}.Create(context.Background(), &p)
		ids[i] = p.ID
	}
	return ids
}

func (h *harness) stage(tournamentID int, stage models.StageType) []models.Match {
	ms, _ := fakeMatches{h.league}.ListMatches(context.Background(), tournamentID, []models.StageType{stage})
	return ms
}

// play records a 2-0 win for winner.
func (h *harness) play(t *testing.T, m models.Match, winner int) *RecomputeResult {
	t.Helper()
	s1, s2 := 2, 0
	if m.Player2ID == winner {
		s1, s2 = 0, 2
	}
	res, err := h.svc.RecordScore(context.Background(), m.ID, s1, s2)
	if err != nil {
		t.Fatalf("RecordScore(%d): %v", m.ID, err)
	}
	return res
}
