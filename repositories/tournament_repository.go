package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-ranking/models"
)

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentInvalidSeason = errors.New("invalid season reference")
)

type TournamentRepository interface {
	CreateSeason(ctx context.Context, year string) (int, error)
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// ListBySeason returns every tournament of the season, cancelled ones
	// included, in id order.
	ListBySeason(ctx context.Context, seasonID int) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error
}

type sqlTournamentRepository struct {
	store
}

func NewTournamentRepository(db *sql.DB, dialect Dialect) TournamentRepository {
	return &sqlTournamentRepository{store{db: db, dialect: dialect}}
}

func (r *sqlTournamentRepository) CreateSeason(ctx context.Context, year string) (int, error) {
	query := r.dialect.rebind(`INSERT INTO seasons (year) VALUES ($1) RETURNING season_id`)
	var id int
	if err := r.db.QueryRowContext(ctx, query, year).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create season %q: %w", year, err)
	}
	return id, nil
}

func (r *sqlTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	if t.Status == 0 {
		t.Status = models.TournamentNormal
	}
	query := r.dialect.rebind(`
		INSERT INTO tournament (season_id, name, type, t_format, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING t_id`)
	err := r.db.QueryRowContext(ctx, query,
		t.SeasonID, t.Name, int(t.Class), int(t.Format), int(t.Status),
	).Scan(&t.ID)
	if err != nil {
		if _, foreignKey, _ := constraintViolation(err); foreignKey {
			return ErrTournamentInvalidSeason
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *sqlTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := r.dialect.rebind(`
		SELECT t_id, season_id, name, type, t_format, status
		FROM tournament
		WHERE t_id = $1`)

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.SeasonID, &t.Name, &t.Class, &t.Format, &t.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *sqlTournamentRepository) ListBySeason(ctx context.Context, seasonID int) ([]models.Tournament, error) {
	query := r.dialect.rebind(`
		SELECT t_id, season_id, name, type, t_format, status
		FROM tournament
		WHERE season_id = $1
		ORDER BY t_id`)

	rows, err := r.db.QueryContext(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments of season %d: %w", seasonID, err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(&t.ID, &t.SeasonID, &t.Name, &t.Class, &t.Format, &t.Status); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *sqlTournamentRepository) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) error {
	query := r.dialect.rebind(`UPDATE tournament SET status = $1 WHERE t_id = $2`)
	result, err := r.db.ExecContext(ctx, query, int(status), id)
	if err != nil {
		return fmt.Errorf("UpdateStatus: failed to execute query for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
