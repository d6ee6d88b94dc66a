package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/tournament-ranking/handlers"
	"github.com/Dosada05/tournament-ranking/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
)

// Options настраивает middleware HTTP-слоя.
type Options struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRoutes(router chi.Router, rankingHandler *handlers.RankingHandler, opts Options) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(30 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	router.Get("/health", rankingHandler.HealthHandler)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Get("/standings", rankingHandler.StandingsHandler)
			r.Post("/resolve-ties", rankingHandler.ResolveTiesHandler)
			r.Post("/tiebreaks", rankingHandler.TieBreaksHandler)
			r.Post("/advance", rankingHandler.AdvanceHandler)
			r.Post("/recompute", rankingHandler.RecomputeHandler)
			r.Post("/season-scores", rankingHandler.SeasonScoresHandler)
			r.Post("/group-stage", rankingHandler.GroupStageHandler)
		})

		r.Put("/matches/{matchID}/score", rankingHandler.RecordScoreHandler)
		r.Get("/players/{playerID}/leaderboard", rankingHandler.PlayerLeaderboardHandler)
		r.Get("/seasons/{seasonID}/leaderboard", rankingHandler.SeasonLeaderboardHandler)
	})
}
