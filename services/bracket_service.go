package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-ranking/brackets"
	"github.com/Dosada05/tournament-ranking/models"
)

// bracketOutcome is what one advance pass produced.
type bracketOutcome struct {
	seeding   brackets.Seeding
	plan      *brackets.Plan
	tieBreaks []models.Match
	fixtures  []models.Match
}

// AdvanceBracket creates or re-pairs every knockout fixture whose preceding
// stage is decided. While the group stage is open nothing is generated; once
// it is settled but ties remain, the missing tie-break fixtures are created
// instead.
func (s *rankingService) AdvanceBracket(ctx context.Context, tournamentID int) ([]models.Match, error) {
	st, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	out, err := s.advance(ctx, st)
	if err != nil {
		return nil, err
	}
	return append(out.tieBreaks, out.fixtures...), nil
}

func (s *rankingService) advance(ctx context.Context, st *tournamentState) (*bracketOutcome, error) {
	if st.tournament.Cancelled() {
		return nil, fmt.Errorf("%w: %w", ErrPreconditionNotMet, ErrTournamentCancelled)
	}

	seeding, runs := st.seeding()
	plan, err := brackets.NewPlan(st.tournament.Format, seeding)
	if err != nil {
		return nil, handleBracketError(err)
	}
	out := &bracketOutcome{seeding: seeding, plan: plan}

	if !seeding.Complete {
		if st.groupStageSettled() && len(runs) > 0 {
			out.tieBreaks, err = s.saveTieBreaks(ctx, st, runs)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	changes, err := brackets.Advance(st.tournament.ID, plan, seeding, st.matches)
	if err != nil {
		return nil, fmt.Errorf("advance bracket of tournament %d: %w", st.tournament.ID, err)
	}
	if len(changes) == 0 {
		return out, nil
	}

	saved, err := s.matchRepo.UpsertMatches(ctx, changes)
	if err != nil {
		return nil, handleRepositoryError(err, "save bracket fixtures")
	}
	st.apply(saved)
	out.fixtures = saved

	s.logger.Info("bracket advanced",
		slog.Int("tournament_id", st.tournament.ID),
		slog.String("format", st.tournament.Format.String()),
		slog.Int("fixtures", len(saved)),
	)
	return out, nil
}

// apply merges written matches into the loaded state.
func (st *tournamentState) apply(saved []models.Match) {
	index := make(map[int]int, len(st.matches))
	for i, m := range st.matches {
		index[m.ID] = i
	}
	for _, m := range saved {
		if i, ok := index[m.ID]; ok {
			st.matches[i] = m
			continue
		}
		st.matches = append(st.matches, m)
	}
}

// ScheduleGroupStage creates the round-robin fixtures of every group. It
// refuses to run twice for the same tournament.
func (s *rankingService) ScheduleGroupStage(ctx context.Context, tournamentID int, groups map[string][]int) ([]models.Match, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, "load tournament")
	}
	if t.Cancelled() {
		return nil, fmt.Errorf("%w: %w", ErrPreconditionNotMet, ErrTournamentCancelled)
	}

	existing, err := s.matchRepo.ListMatches(ctx, tournamentID, t.Format.CountedStages())
	if err != nil {
		return nil, handleRepositoryError(err, "load group fixtures")
	}
	if len(existing) > 0 {
		return nil, fmt.Errorf("%w: tournament %d has %d group fixtures", ErrGroupStageExists, tournamentID, len(existing))
	}

	scheduler := brackets.NewRoundRobinGenerator()
	fixtures, err := scheduler.Schedule(ctx, brackets.ScheduleParams{
		TournamentID: tournamentID,
		Format:       t.Format,
		Groups:       groups,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", scheduler.GetName(), handleBracketError(err))
	}

	saved, err := s.matchRepo.UpsertMatches(ctx, fixtures)
	if err != nil {
		return nil, handleRepositoryError(err, "save group fixtures")
	}
	s.logger.Info("group stage scheduled",
		slog.Int("tournament_id", tournamentID),
		slog.Int("groups", len(groups)),
		slog.Int("fixtures", len(saved)),
	)
	return saved, nil
}
