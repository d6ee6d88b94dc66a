package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-ranking/brackets"
	"github.com/Dosada05/tournament-ranking/models"
	"github.com/Dosada05/tournament-ranking/repositories"
)

// handleRepositoryError translates repository sentinels into service errors
// so handlers only need to know about this package.
func handleRepositoryError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, ErrMatchNotFound)
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, ErrTournamentNotFound)
	case errors.Is(err, repositories.ErrMatchSlotConflict):
		return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
	case errors.Is(err, repositories.ErrMatchPlayerInvalid),
		errors.Is(err, repositories.ErrMatchTournamentInvalid),
		errors.Is(err, repositories.ErrRankingPlayerInvalid),
		errors.Is(err, repositories.ErrRankingTournamentInvalid):
		return fmt.Errorf("%s: %w: %v", op, ErrValidationFailed, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// handleBracketError marks bracket precondition failures so callers can match
// both the service and the bracket sentinel.
func handleBracketError(err error) error {
	if errors.Is(err, brackets.ErrInsufficientParticipants) {
		return fmt.Errorf("%w: %w", ErrPreconditionNotMet, err)
	}
	return err
}

// ValidateScore checks a result before it is written. Only whole non-negative
// scores and the (-1,-1) bye are accepted, and a knockout fixture needs a
// winner.
func ValidateScore(stage models.StageType, score1, score2 int) error {
	if score1 == models.ScoreBye && score2 == models.ScoreBye {
		return nil
	}
	if score1 < 0 || score2 < 0 {
		return fmt.Errorf("%w: %d-%d, negative scores are only allowed as a -1:-1 bye", ErrInvalidScore, score1, score2)
	}
	if stage.IsKnockout() && score1 == score2 && score1 != models.ScoreUnplayed {
		return fmt.Errorf("%w: %s fixture cannot end in a draw (%d-%d)", ErrInvalidScore, stage, score1, score2)
	}
	if stage == models.StageTieBreak && score1 == score2 && score1 != models.ScoreUnplayed {
		return fmt.Errorf("%w: tie-break fixture cannot end in a draw (%d-%d)", ErrInvalidScore, score1, score2)
	}
	return nil
}
