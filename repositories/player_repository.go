package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-ranking/models"
)

var ErrPlayerNameConflict = errors.New("player name already taken")

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	// ListByIDs returns the known players among ids. Unknown ids are simply
	// absent from the map.
	ListByIDs(ctx context.Context, ids []int) (map[int]models.Player, error)
}

type sqlPlayerRepository struct {
	store
}

func NewPlayerRepository(db *sql.DB, dialect Dialect) PlayerRepository {
	return &sqlPlayerRepository{store{db: db, dialect: dialect}}
}

func (r *sqlPlayerRepository) Create(ctx context.Context, p *models.Player) error {
	if p.Status == 0 {
		p.Status = models.PlayerRanked
	}
	query := r.dialect.rebind(`INSERT INTO players (name, status) VALUES ($1, $2) RETURNING player_id`)
	err := r.db.QueryRowContext(ctx, query, p.Name, int(p.Status)).Scan(&p.ID)
	if err != nil {
		if _, _, unique := constraintViolation(err); unique {
			return ErrPlayerNameConflict
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *sqlPlayerRepository) ListByIDs(ctx context.Context, ids []int) (map[int]models.Player, error) {
	players := make(map[int]models.Player, len(ids))
	if len(ids) == 0 {
		return players, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := r.dialect.rebind(`SELECT player_id, name, status FROM players WHERE player_id IN (` + placeholders(1, len(ids)) + `)`)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Status); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}
