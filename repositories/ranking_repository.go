package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-ranking/models"
)

var (
	ErrRankingTournamentInvalid = errors.New("ranking tournament conflict or invalid")
	ErrRankingPlayerInvalid     = errors.New("ranking player conflict or invalid")
)

type RankingRepository interface {
	// SaveRanking replaces the tournament's stored placements with entries.
	SaveRanking(ctx context.Context, tournamentID int, entries []models.RankingEntry) error
	// ListPlayerResults returns the player's placements in non-cancelled
	// tournaments, most recent first.
	ListPlayerResults(ctx context.Context, playerID int) ([]models.EventResult, error)
	ListSeasonPlayerIDs(ctx context.Context, seasonID int) ([]int, error)
}

type sqlRankingRepository struct {
	store
}

func NewRankingRepository(db *sql.DB, dialect Dialect) RankingRepository {
	return &sqlRankingRepository{store{db: db, dialect: dialect}}
}

func (r *sqlRankingRepository) SaveRanking(ctx context.Context, tournamentID int, entries []models.RankingEntry) error {
	upsert := r.dialect.rebind(`
		INSERT INTO rankings (t_id, player_id, ranks, scores)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (t_id, player_id) DO UPDATE
		SET ranks = excluded.ranks, scores = excluded.scores`)

	return r.inTx(ctx, func(tx *sql.Tx) error {
		stale := `DELETE FROM rankings WHERE t_id = $1`
		args := []any{tournamentID}
		if len(entries) > 0 {
			stale += ` AND player_id NOT IN (` + placeholders(2, len(entries)) + `)`
			for _, e := range entries {
				args = append(args, e.PlayerID)
			}
		}
		if _, err := tx.ExecContext(ctx, r.dialect.rebind(stale), args...); err != nil {
			return fmt.Errorf("failed to clear stale rankings of tournament %d: %w", tournamentID, err)
		}

		for _, e := range entries {
			var score sql.NullInt64
			if e.Score != nil {
				score = sql.NullInt64{Int64: int64(*e.Score), Valid: true}
			}
			if _, err := tx.ExecContext(ctx, upsert, tournamentID, e.PlayerID, e.Rank, score); err != nil {
				return r.handleRankingError(err)
			}
		}
		return nil
	})
}

func (r *sqlRankingRepository) ListPlayerResults(ctx context.Context, playerID int) ([]models.EventResult, error) {
	query := r.dialect.rebind(`
		SELECT r.t_id, t.season_id, t.type, r.ranks, r.scores
		FROM rankings r
		JOIN tournament t ON t.t_id = r.t_id
		WHERE r.player_id = $1 AND t.status <> $2
		ORDER BY t.season_id DESC, r.t_id DESC`)

	rows, err := r.db.QueryContext(ctx, query, playerID, int(models.TournamentCancelled))
	if err != nil {
		return nil, fmt.Errorf("failed to list results of player %d: %w", playerID, err)
	}
	defer rows.Close()

	results := make([]models.EventResult, 0)
	for rows.Next() {
		var (
			res   models.EventResult
			score sql.NullInt64
		)
		if err := rows.Scan(&res.TournamentID, &res.SeasonID, &res.Class, &res.Rank, &score); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		res.Score = nullableInt(score)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}
	return results, nil
}

func (r *sqlRankingRepository) ListSeasonPlayerIDs(ctx context.Context, seasonID int) ([]int, error) {
	query := r.dialect.rebind(`
		SELECT DISTINCT r.player_id
		FROM rankings r
		JOIN tournament t ON t.t_id = r.t_id
		WHERE t.season_id = $1
		ORDER BY r.player_id`)

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players of season %d: %w", seasonID, err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *sqlRankingRepository) handleRankingError(err error) error {
	constraint, foreignKey, _ := constraintViolation(err)
	switch {
	case constraint == "rankings_t_id_fkey":
		return ErrRankingTournamentInvalid
	case constraint == "rankings_player_id_fkey", foreignKey:
		return ErrRankingPlayerInvalid
	}
	return err
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
