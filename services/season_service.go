package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-ranking/brackets"
	"github.com/Dosada05/tournament-ranking/models"
	"github.com/Dosada05/tournament-ranking/standings"
)

// AggregateSeasonScores turns the final placement of a finished tournament
// into season points, stores them and publishes a snapshot.
func (s *rankingService) AggregateSeasonScores(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	st, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, st)
}

func (s *rankingService) aggregate(ctx context.Context, st *tournamentState) ([]models.Standing, error) {
	t := st.tournament
	if t.Cancelled() {
		if err := s.publisher.WithdrawRanking(ctx, t); err != nil {
			s.logger.Warn("failed to withdraw ranking snapshot", slog.Int("tournament_id", t.ID), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%w: %w", ErrPreconditionNotMet, ErrTournamentCancelled)
	}

	order, err := st.finalOrder()
	if err != nil {
		return nil, err
	}

	rows := standings.Calculate(t.ID, st.counted(), st.table().Matches, order, st.players)
	labels := st.groupLabels()
	byPlayer := make(map[int]models.Standing, len(rows))
	for _, r := range rows {
		r.Group = labels[r.PlayerID]
		byPlayer[r.PlayerID] = r
	}
	ranking := make([]models.Standing, len(order))
	for i, id := range order {
		ranking[i] = byPlayer[id]
	}

	scored, err := s.scoring.Distribute(t.Class, ranking)
	if err != nil {
		return nil, fmt.Errorf("%w: tournament %d: %v", ErrValidationFailed, t.ID, err)
	}

	entries := make([]models.RankingEntry, len(scored))
	for i, r := range scored {
		entries[i] = models.RankingEntry{TournamentID: t.ID, PlayerID: r.PlayerID, Rank: r.Rank, Score: r.Score}
	}
	if err := s.rankingRepo.SaveRanking(ctx, t.ID, entries); err != nil {
		return nil, handleRepositoryError(err, "save ranking")
	}
	st.entries = entries

	s.logger.Info("season scores aggregated",
		slog.Int("tournament_id", t.ID),
		slog.String("class", t.Class.String()),
		slog.Int("players", len(scored)),
	)
	s.publish(ctx, t, scored)
	return scored, nil
}

// publish exports the ranking and the season leaderboard. Failures are logged
// and never undo the stored ranking.
func (s *rankingService) publish(ctx context.Context, t models.Tournament, ranking []models.Standing) {
	if url, err := s.publisher.PublishRanking(ctx, t, ranking); err != nil {
		s.logger.Warn("failed to publish ranking snapshot", slog.Int("tournament_id", t.ID), slog.Any("error", err))
	} else if url != "" {
		s.logger.Info("ranking snapshot published", slog.Int("tournament_id", t.ID), slog.String("url", url))
	}

	s.publishLeaderboard(ctx, t.SeasonID)
}

func (s *rankingService) publishLeaderboard(ctx context.Context, seasonID int) {
	board, err := s.SeasonLeaderboard(ctx, seasonID)
	if err != nil {
		s.logger.Warn("failed to build season leaderboard", slog.Int("season_id", seasonID), slog.Any("error", err))
		return
	}
	if _, err := s.publisher.PublishLeaderboard(ctx, seasonID, board); err != nil {
		s.logger.Warn("failed to publish leaderboard snapshot", slog.Int("season_id", seasonID), slog.Any("error", err))
	}
}

// retract clears the season points of a tournament that a corrected result
// has reopened. Ranks stay, since seeding of bracket-only formats reads them;
// the published snapshot is withdrawn and the season leaderboard refreshed.
func (s *rankingService) retract(ctx context.Context, st *tournamentState) error {
	scored := false
	entries := make([]models.RankingEntry, len(st.entries))
	for i, e := range st.entries {
		scored = scored || e.Score != nil
		e.Score = nil
		entries[i] = e
	}
	if !scored {
		return nil
	}

	t := st.tournament
	if err := s.rankingRepo.SaveRanking(ctx, t.ID, entries); err != nil {
		return handleRepositoryError(err, "clear season scores")
	}
	st.entries = entries
	s.logger.Info("season scores withdrawn", slog.Int("tournament_id", t.ID), slog.Int("players", len(entries)))

	if err := s.publisher.WithdrawRanking(ctx, t); err != nil {
		s.logger.Warn("failed to withdraw ranking snapshot", slog.Int("tournament_id", t.ID), slog.Any("error", err))
	}
	s.publishLeaderboard(ctx, t.SeasonID)
	return nil
}

// finalOrder is the complete placement of the tournament. A round-robin
// league too small for finals is decided by its table alone.
func (st *tournamentState) finalOrder() ([]int, error) {
	seeding, _ := st.seeding()
	plan, err := brackets.NewPlan(st.tournament.Format, seeding)
	if err != nil {
		if !errors.Is(err, brackets.ErrInsufficientParticipants) || !st.tournament.Format.IsRoundRobin() {
			return nil, handleBracketError(err)
		}
		if !seeding.Complete {
			return nil, fmt.Errorf("%w: group stage of tournament %d is still open", ErrRankingIncomplete, st.tournament.ID)
		}
		return seeding.Order, nil
	}

	if !seeding.Complete || !plan.Complete(seeding, st.matches) {
		return nil, fmt.Errorf("%w: tournament %d has undecided fixtures", ErrRankingIncomplete, st.tournament.ID)
	}
	order, complete := plan.Placements(seeding, st.matches)
	if !complete {
		return nil, fmt.Errorf("%w: tournament %d placements are partial", ErrRankingIncomplete, st.tournament.ID)
	}
	return order, nil
}

// Recompute runs the whole pipeline for one tournament: table, tie-break
// fixtures at settlement, bracket advancement and, once everything is
// decided, season scores.
func (s *rankingService) Recompute(ctx context.Context, tournamentID int) (*RecomputeResult, error) {
	st, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	res := &RecomputeResult{TournamentID: tournamentID}

	out, err := s.advance(ctx, st)
	switch {
	case errors.Is(err, ErrPreconditionNotMet):
		res.Note = err.Error()
		if !st.tournament.Cancelled() && st.groupStageSettled() {
			_, runs := st.seeding()
			if res.TieBreaks, err = s.saveTieBreaks(ctx, st, runs); err != nil {
				return nil, err
			}
		}
	case err != nil:
		return nil, err
	default:
		res.TieBreaks, res.Fixtures = out.tieBreaks, out.fixtures
	}

	res.Standings = st.table().Rows

	final, err := s.aggregate(ctx, st)
	switch {
	case errors.Is(err, ErrRankingIncomplete):
		if err := s.retract(ctx, st); err != nil {
			return nil, err
		}
	case errors.Is(err, ErrPreconditionNotMet):
	case err != nil:
		return nil, err
	default:
		res.Final, res.Completed = final, true
	}
	return res, nil
}

// RecordScore validates and stores a result, then recomputes the tournament.
func (s *rankingService) RecordScore(ctx context.Context, matchID, score1, score2 int) (*RecomputeResult, error) {
	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, "load match")
	}
	if err := ValidateScore(m.Stage, score1, score2); err != nil {
		return nil, err
	}
	if err := s.matchRepo.UpdateScore(ctx, matchID, score1, score2); err != nil {
		return nil, handleRepositoryError(err, "update score")
	}
	s.logger.Info("score recorded",
		slog.Int("match_id", matchID),
		slog.Int("tournament_id", m.TournamentID),
		slog.String("stage", m.Stage.String()),
		slog.Int("score1", score1),
		slog.Int("score2", score2),
	)
	return s.Recompute(ctx, m.TournamentID)
}
