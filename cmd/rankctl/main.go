// Command rankctl runs the ranking engine against the league database.
//
// Usage:
//
//	rankctl standings 12
//	rankctl advance 12
//	rankctl recompute 12
//	rankctl season-scores 12
//	rankctl recompute-season 3 --concurrency 4
//	rankctl leaderboard --season 3
//	rankctl leaderboard --player 41
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tournament-ranking/app"
	"github.com/Dosada05/tournament-ranking/config"
	"github.com/Dosada05/tournament-ranking/services"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	root := &cobra.Command{
		Use:          "rankctl",
		Short:        "League ranking operator CLI",
		SilenceUsage: true,
	}

	root.AddCommand(standingsCmd())
	root.AddCommand(advanceCmd())
	root.AddCommand(recomputeCmd())
	root.AddCommand(seasonScoresCmd())
	root.AddCommand(recomputeSeasonCmd())
	root.AddCommand(leaderboardCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// tournament commands
// --------------------------------------------------------------------------

func standingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <tournament-id>",
		Short: "Print the tie-broken league table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTournament(args[0], func(ctx context.Context, a *app.App, id int) (any, error) {
				return a.Ranking.ComputeStandings(ctx, id)
			})
		},
	}
}

func advanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <tournament-id>",
		Short: "Create or re-pair bracket fixtures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTournament(args[0], func(ctx context.Context, a *app.App, id int) (any, error) {
				return a.Ranking.AdvanceBracket(ctx, id)
			})
		},
	}
}

func recomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute <tournament-id>",
		Short: "Run the whole pipeline for one tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTournament(args[0], func(ctx context.Context, a *app.App, id int) (any, error) {
				return a.Ranking.Recompute(ctx, id)
			})
		},
	}
}

func seasonScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "season-scores <tournament-id>",
		Short: "Store and publish season points of a finished tournament",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTournament(args[0], func(ctx context.Context, a *app.App, id int) (any, error) {
				return a.Ranking.AggregateSeasonScores(ctx, id)
			})
		},
	}
}

// --------------------------------------------------------------------------
// season commands
// --------------------------------------------------------------------------

type seasonSummary struct {
	SeasonID  int      `json:"season_id"`
	Completed []int    `json:"completed"`
	Open      []int    `json:"open"`
	Skipped   []int    `json:"skipped"`
	Failed    []string `json:"failed,omitempty"`
}

func recomputeSeasonCmd() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "recompute-season <season-id>",
		Short: "Recompute every tournament of a season",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seasonID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return run(func(ctx context.Context, a *app.App) (any, error) {
				return recomputeSeason(ctx, a, seasonID, concurrency)
			})
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Tournaments recomputed in parallel")
	return cmd
}

// recomputeSeason recomputes different tournaments concurrently. A failing
// tournament is reported and does not stop the others.
func recomputeSeason(ctx context.Context, a *app.App, seasonID, concurrency int) (*seasonSummary, error) {
	tournaments, err := a.Tournaments.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list tournaments of season %d: %w", seasonID, err)
	}

	summary := &seasonSummary{SeasonID: seasonID}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, concurrency))
	for _, t := range tournaments {
		if t.Cancelled() {
			summary.Skipped = append(summary.Skipped, t.ID)
			continue
		}
		g.Go(func() error {
			start := time.Now()
			res, err := a.Ranking.Recompute(gctx, t.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, context.Canceled):
				return err
			case err != nil:
				logger.Error("recompute failed", "tournament_id", t.ID, "error", err)
				summary.Failed = append(summary.Failed, fmt.Sprintf("%d: %v", t.ID, err))
			case res.Completed:
				summary.Completed = append(summary.Completed, t.ID)
			default:
				summary.Open = append(summary.Open, t.ID)
			}
			logger.Info("tournament recomputed", "tournament_id", t.ID, "duration", time.Since(start).Round(time.Millisecond))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

func leaderboardCmd() *cobra.Command {
	var seasonID, playerID int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the rolling leaderboard of a season or one player",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (seasonID == 0) == (playerID == 0) {
				return errors.New("exactly one of --season or --player is required")
			}
			return run(func(ctx context.Context, a *app.App) (any, error) {
				if playerID != 0 {
					return a.Ranking.RollingLeaderboard(ctx, playerID)
				}
				return a.Ranking.SeasonLeaderboard(ctx, seasonID)
			})
		},
	}
	cmd.Flags().IntVar(&seasonID, "season", 0, "Season ID")
	cmd.Flags().IntVar(&playerID, "player", 0, "Player ID")
	return cmd
}

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

func withTournament(arg string, fn func(ctx context.Context, a *app.App, id int) (any, error)) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	return run(func(ctx context.Context, a *app.App) (any, error) {
		out, err := fn(ctx, a, id)
		if errors.Is(err, services.ErrPreconditionNotMet) || errors.Is(err, services.ErrRankingIncomplete) {
			logger.Warn("tournament is not ready", "tournament_id", id, "reason", err)
		}
		return out, err
	})
}

// run loads configuration, opens the database and prints the result of fn
// as JSON on stdout.
func run(fn func(ctx context.Context, a *app.App) (any, error)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := fn(ctx, a)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
