// Package app wires configuration, storage and repositories into a
// RankingService. Both the HTTP server and the operator CLI start here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-ranking/config"
	"github.com/Dosada05/tournament-ranking/db"
	"github.com/Dosada05/tournament-ranking/repositories"
	"github.com/Dosada05/tournament-ranking/scoring"
	"github.com/Dosada05/tournament-ranking/services"
	"github.com/Dosada05/tournament-ranking/storage"
)

type App struct {
	DB          *sql.DB
	Tournaments repositories.TournamentRepository
	Ranking     services.RankingService
}

// New connects to the database, applies the schema and builds the service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := db.Connect(cfg.DatabaseDriver, cfg.DSN(), 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(ctx, conn, cfg.DatabaseDriver); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database connection established", slog.String("driver", cfg.DatabaseDriver))

	dialect, err := repositories.DialectFor(cfg.DatabaseDriver)
	if err != nil {
		conn.Close()
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}

	tournamentRepo := repositories.NewTournamentRepository(conn, dialect)
	svc := services.NewRankingService(
		repositories.NewMatchRepository(conn, dialect),
		tournamentRepo,
		repositories.NewPlayerRepository(conn, dialect),
		repositories.NewRankingRepository(conn, dialect),
		publisher,
		ScoringConfig(cfg),
		logger,
	)
	return &App{DB: conn, Tournaments: tournamentRepo, Ranking: svc}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}

// ScoringConfig maps the SCORE_* settings onto the scoring parameters.
func ScoringConfig(cfg *config.Config) scoring.Config {
	return scoring.Config{
		MajorMultiplier: cfg.ScoreMajorMultiplier,
		MinorMultiplier: cfg.ScoreMinorMultiplier,
		Floor:           cfg.ScoreFloor,
		Window:          cfg.RollingWindow,
		BaselineRank:    cfg.BaselineRank,
	}
}

func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.SnapshotPublisher, error) {
	r2 := storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if !r2.Enabled() {
		logger.Info("snapshot publishing disabled")
		return storage.NoopPublisher{}, nil
	}
	store, err := storage.NewR2Store(ctx, r2)
	if err != nil {
		return nil, fmt.Errorf("initialize R2 store: %w", err)
	}
	logger.Info("Cloudflare R2 snapshot store initialized", slog.String("bucket", r2.BucketName))
	return storage.NewSnapshotPublisher(store), nil
}
