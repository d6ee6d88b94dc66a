package main

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/Dosada05/tournament-ranking/app"
	"github.com/Dosada05/tournament-ranking/models"
	"github.com/Dosada05/tournament-ranking/repositories"
	"github.com/Dosada05/tournament-ranking/services"
)

type seasonTournaments struct {
	repositories.TournamentRepository
	list []models.Tournament
}

func (s seasonTournaments) ListBySeason(context.Context, int) ([]models.Tournament, error) {
	return s.list, nil
}

type recomputeOnly struct {
	services.RankingService
	mu    sync.Mutex
	calls []int
}

func (r *recomputeOnly) Recompute(_ context.Context, id int) (*services.RecomputeResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, id)
	r.mu.Unlock()
	switch id {
	case 1:
		return &services.RecomputeResult{TournamentID: id, Completed: true}, nil
	case 3:
		return nil, errors.New("database is locked")
	}
	return &services.RecomputeResult{TournamentID: id}, nil
}

func TestRecomputeSeason(t *testing.T) {
	svc := &recomputeOnly{}
	a := &app.App{
		Tournaments: seasonTournaments{list: []models.Tournament{
			{ID: 1, Status: models.TournamentNormal},
			{ID: 2, Status: models.TournamentNormal},
			{ID: 3, Status: models.TournamentNormal},
			{ID: 4, Status: models.TournamentCancelled},
		}},
		Ranking: svc,
	}

	summary, err := recomputeSeason(context.Background(), a, 9, 2)
	if err != nil {
		t.Fatalf("recomputeSeason: %v", err)
	}
	slices.Sort(svc.calls)
	if !slices.Equal(svc.calls, []int{1, 2, 3}) {
		t.Errorf("recomputed %v, want [1 2 3]", svc.calls)
	}
	if !slices.Equal(summary.Completed, []int{1}) || !slices.Equal(summary.Open, []int{2}) {
		t.Errorf("completed %v open %v", summary.Completed, summary.Open)
	}
	if !slices.Equal(summary.Skipped, []int{4}) || len(summary.Failed) != 1 {
		t.Errorf("skipped %v failed %v", summary.Skipped, summary.Failed)
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("12"); err != nil || id != 12 {
		t.Errorf("parseID(12) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-3", "x"} {
		if _, err := parseID(bad); err == nil {
			t.Errorf("parseID(%q) accepted", bad)
		}
	}
}
