package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-ranking/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchPlayerInvalid     = errors.New("match player conflict or invalid")
	ErrMatchSlotConflict      = errors.New("fixture slot already taken")
)

type MatchRepository interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListMatches returns the tournament's matches, optionally filtered by
	// stage, ordered by stage, round, slot and id.
	ListMatches(ctx context.Context, tournamentID int, stages []models.StageType) ([]models.Match, error)
	// UpsertMatches inserts matches with a zero ID and updates the rest in a
	// single transaction. The returned slice carries the assigned IDs.
	UpsertMatches(ctx context.Context, matches []models.Match) ([]models.Match, error)
	UpdateScore(ctx context.Context, id, score1, score2 int) error
	// ListRankingEntries returns the stored placements of the tournament by rank.
	ListRankingEntries(ctx context.Context, tournamentID int) ([]models.RankingEntry, error)
}

type sqlMatchRepository struct {
	store
}

func NewMatchRepository(db *sql.DB, dialect Dialect) MatchRepository {
	return &sqlMatchRepository{store{db: db, dialect: dialect}}
}

const matchColumns = `m_id, t_id, m_type, round, slot, group_label,
	player_1_id, player_2_id, player_1_score, player_2_score`

func scanMatch(row interface{ Scan(...any) error }, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.TournamentID, &m.Stage, &m.Round, &m.Slot, &m.Group,
		&m.Player1ID, &m.Player2ID, &m.Score1, &m.Score2,
	)
}

func (r *sqlMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := r.dialect.rebind(`SELECT ` + matchColumns + ` FROM matches WHERE m_id = $1`)

	var m models.Match
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), &m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return &m, nil
}

func (r *sqlMatchRepository) ListMatches(ctx context.Context, tournamentID int, stages []models.StageType) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE t_id = $1`
	args := []any{tournamentID}
	if len(stages) > 0 {
		query += ` AND m_type IN (` + placeholders(2, len(stages)) + `)`
		for _, s := range stages {
			args = append(args, int(s))
		}
	}
	query += ` ORDER BY m_type, round, slot, m_id`

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}

func (r *sqlMatchRepository) UpsertMatches(ctx context.Context, matches []models.Match) ([]models.Match, error) {
	if len(matches) == 0 {
		return nil, nil
	}
	out := make([]models.Match, len(matches))
	copy(out, matches)

	insert := r.dialect.rebind(`
		INSERT INTO matches
			(t_id, m_type, round, slot, group_label, player_1_id, player_2_id, player_1_score, player_2_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING m_id`)
	update := r.dialect.rebind(`
		UPDATE matches
		SET m_type = $1, round = $2, slot = $3, group_label = $4,
		    player_1_id = $5, player_2_id = $6, player_1_score = $7, player_2_score = $8
		WHERE m_id = $9 AND t_id = $10`)

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		for i := range out {
			m := &out[i]
			if m.ID == 0 {
				err := tx.QueryRowContext(ctx, insert,
					m.TournamentID, int(m.Stage), m.Round, m.Slot, m.Group,
					m.Player1ID, m.Player2ID, m.Score1, m.Score2,
				).Scan(&m.ID)
				if err != nil {
					return r.handleMatchError(err)
				}
				continue
			}
			result, err := tx.ExecContext(ctx, update,
				int(m.Stage), m.Round, m.Slot, m.Group,
				m.Player1ID, m.Player2ID, m.Score1, m.Score2,
				m.ID, m.TournamentID,
			)
			if err != nil {
				return r.handleMatchError(err)
			}
			if err := checkAffectedRows(result, ErrMatchNotFound); err != nil {
				return fmt.Errorf("match %d: %w", m.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqlMatchRepository) UpdateScore(ctx context.Context, id, score1, score2 int) error {
	query := r.dialect.rebind(`UPDATE matches SET player_1_score = $1, player_2_score = $2 WHERE m_id = $3`)
	result, err := r.db.ExecContext(ctx, query, score1, score2, id)
	if err != nil {
		return fmt.Errorf("UpdateScore: failed to execute query for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *sqlMatchRepository) ListRankingEntries(ctx context.Context, tournamentID int) ([]models.RankingEntry, error) {
	query := r.dialect.rebind(`
		SELECT t_id, player_id, ranks, scores
		FROM rankings
		WHERE t_id = $1
		ORDER BY ranks, player_id`)

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings of tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	entries := make([]models.RankingEntry, 0)
	for rows.Next() {
		var (
			e     models.RankingEntry
			score sql.NullInt64
		)
		if err := rows.Scan(&e.TournamentID, &e.PlayerID, &e.Rank, &score); err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		e.Score = nullableInt(score)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking rows: %w", err)
	}
	return entries, nil
}

func (r *sqlMatchRepository) handleMatchError(err error) error {
	constraint, foreignKey, unique := constraintViolation(err)
	switch {
	case constraint == "matches_t_id_fkey":
		return ErrMatchTournamentInvalid
	case constraint == "matches_player_1_id_fkey", constraint == "matches_player_2_id_fkey":
		return ErrMatchPlayerInvalid
	case foreignKey:
		// sqlite does not report which reference failed
		return fmt.Errorf("%w: %v", ErrMatchPlayerInvalid, err)
	case unique:
		return ErrMatchSlotConflict
	}
	return err
}
