package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dosada05/tournament-ranking/db"
	"github.com/Dosada05/tournament-ranking/models"
)

type fixture struct {
	tournaments TournamentRepository
	players     PlayerRepository
	matches     MatchRepository
	rankings    RankingRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "league.db"), 5*time.Second)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.Migrate(context.Background(), conn, db.DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return fixture{
		tournaments: NewTournamentRepository(conn, DialectSQLite),
		players:     NewPlayerRepository(conn, DialectSQLite),
		matches:     NewMatchRepository(conn, DialectSQLite),
		rankings:    NewRankingRepository(conn, DialectSQLite),
	}
}

func (f fixture) seed(t *testing.T, names ...string) (models.Tournament, []int) {
	t.Helper()
	ctx := context.Background()
	season, err := f.tournaments.CreateSeason(ctx, "2026")
	if err != nil {
		t.Fatalf("CreateSeason: %v", err)
	}
	tour := models.Tournament{SeasonID: season, Name: "Spring Open", Class: models.ClassMajor, Format: models.FormatSingleRoundRobin}
	if err := f.tournaments.Create(ctx, &tour); err != nil {
		t.Fatalf("Create tournament: %v", err)
	}
	ids := make([]int, len(names))
	for i, name := range names {
		p := models.Player{Name: name}
		if err := f.players.Create(ctx, &p); err != nil {
			t.Fatalf("Create player: %v", err)
		}
		ids[i] = p.ID
	}
	return tour, ids
}

func TestRebind(t *testing.T) {
	q := `SELECT 1 WHERE a = $1 AND b IN ($2, $10)`
	if got := DialectPostgres.rebind(q); got != q {
		t.Fatalf("postgres rebind changed the query: %s", got)
	}
	want := `SELECT 1 WHERE a = ?1 AND b IN (?2, ?10)`
	if got := DialectSQLite.rebind(q); got != want {
		t.Fatalf("sqlite rebind = %s, want %s", got, want)
	}
}

func TestMatchUpsertAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tour, ids := f.seed(t, "Ann", "Bob", "Cid")

	saved, err := f.matches.UpsertMatches(ctx, []models.Match{
		{TournamentID: tour.ID, Stage: models.StageGroup, Round: 1, Slot: 1, Player1ID: ids[0], Player2ID: ids[1], Score1: 2, Score2: 1},
		{TournamentID: tour.ID, Stage: models.StageGold, Round: 1, Slot: 1, Player1ID: ids[0], Player2ID: ids[2]},
	})
	if err != nil {
		t.Fatalf("UpsertMatches: %v", err)
	}
	if saved[0].ID == 0 || saved[1].ID == 0 {
		t.Fatalf("ids not assigned: %+v", saved)
	}

	final := saved[1]
	final.Player2ID = ids[1]
	if _, err := f.matches.UpsertMatches(ctx, []models.Match{final}); err != nil {
		t.Fatalf("UpsertMatches update: %v", err)
	}

	group, err := f.matches.ListMatches(ctx, tour.ID, []models.StageType{models.StageGroup})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(group) != 1 || group[0].Score1 != 2 {
		t.Fatalf("group matches = %+v", group)
	}

	got, err := f.matches.GetByID(ctx, final.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Player2ID != ids[1] || got.Stage != models.StageGold {
		t.Fatalf("updated match = %+v", got)
	}

	if err := f.matches.UpdateScore(ctx, final.ID, 3, 0); err != nil {
		t.Fatalf("UpdateScore: %v", err)
	}
	if err := f.matches.UpdateScore(ctx, 9999, 3, 0); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("UpdateScore unknown id err = %v", err)
	}
	if _, err := f.matches.GetByID(ctx, 9999); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("GetByID unknown id err = %v", err)
	}
}

func TestMatchUpsertRejectsTakenSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tour, ids := f.seed(t, "Ann", "Bob")

	m := models.Match{TournamentID: tour.ID, Stage: models.StageSemifinal, Round: 1, Slot: 1, Player1ID: ids[0], Player2ID: ids[1]}
	if _, err := f.matches.UpsertMatches(ctx, []models.Match{m}); err != nil {
		t.Fatalf("UpsertMatches: %v", err)
	}
	if _, err := f.matches.UpsertMatches(ctx, []models.Match{m}); !errors.Is(err, ErrMatchSlotConflict) {
		t.Fatalf("duplicate slot err = %v", err)
	}
}

func TestRankingsAndPlayerResults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tour, ids := f.seed(t, "Ann", "Bob", "Cid")

	score := 400
	entries := []models.RankingEntry{
		{PlayerID: ids[0], Rank: 1, Score: &score},
		{PlayerID: ids[1], Rank: 2},
		{PlayerID: ids[2], Rank: 3},
	}
	if err := f.rankings.SaveRanking(ctx, tour.ID, entries); err != nil {
		t.Fatalf("SaveRanking: %v", err)
	}
	// Rewriting with fewer entries drops the stale placement.
	if err := f.rankings.SaveRanking(ctx, tour.ID, entries[:2]); err != nil {
		t.Fatalf("SaveRanking again: %v", err)
	}

	got, err := f.matches.ListRankingEntries(ctx, tour.ID)
	if err != nil {
		t.Fatalf("ListRankingEntries: %v", err)
	}
	if len(got) != 2 || got[0].Score == nil || *got[0].Score != 400 || got[1].Score != nil {
		t.Fatalf("entries = %+v", got)
	}

	results, err := f.rankings.ListPlayerResults(ctx, ids[0])
	if err != nil {
		t.Fatalf("ListPlayerResults: %v", err)
	}
	if len(results) != 1 || results[0].Class != models.ClassMajor || results[0].Rank != 1 {
		t.Fatalf("results = %+v", results)
	}

	if err := f.tournaments.UpdateStatus(ctx, tour.ID, models.TournamentCancelled); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	results, err = f.rankings.ListPlayerResults(ctx, ids[0])
	if err != nil {
		t.Fatalf("ListPlayerResults: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("cancelled tournament still listed: %+v", results)
	}

	players, err := f.rankings.ListSeasonPlayerIDs(ctx, tour.SeasonID)
	if err != nil {
		t.Fatalf("ListSeasonPlayerIDs: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("season players = %v", players)
	}
}

func TestPlayersListByIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, ids := f.seed(t, "Ann", "Bob")

	players, err := f.players.ListByIDs(ctx, []int{ids[0], ids[1], 777})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(players) != 2 || players[ids[1]].Name != "Bob" || !players[ids[0]].Eligible() {
		t.Fatalf("players = %+v", players)
	}

	if err := f.players.Create(ctx, &models.Player{Name: "Ann"}); !errors.Is(err, ErrPlayerNameConflict) {
		t.Fatalf("duplicate name err = %v", err)
	}
}
