package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-ranking/services"
)

type RankingHandler struct {
	rankingService services.RankingService
	logger         *slog.Logger
}

func NewRankingHandler(rs services.RankingService, logger *slog.Logger) *RankingHandler {
	return &RankingHandler{
		rankingService: rs,
		logger:         logger,
	}
}

type playerGroupInput struct {
	PlayerIDs []int `json:"player_ids"`
}

type scoreInput struct {
	Score1 *int `json:"score1"`
	Score2 *int `json:"score2"`
}

type groupStageInput struct {
	Groups map[string][]int `json:"groups"`
}

// HealthHandler обрабатывает GET /health
func (h *RankingHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "available"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler обрабатывает GET /tournaments/{tournamentID}/standings
func (h *RankingHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.rankingService.ComputeStandings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveTiesHandler обрабатывает POST /tournaments/{tournamentID}/resolve-ties
func (h *RankingHandler) ResolveTiesHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input playerGroupInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.PlayerIDs) == 0 {
		failedValidationResponse(w, r, map[string]string{"player_ids": "must contain at least one player"})
		return
	}

	order, err := h.rankingService.ResolveTies(r.Context(), tournamentID, input.PlayerIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"order": order}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TieBreaksHandler обрабатывает POST /tournaments/{tournamentID}/tiebreaks.
// Без тела запроса создаются тай-брейки для всей таблицы.
func (h *RankingHandler) TieBreaksHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input playerGroupInput
	if err := readOptionalJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	created, err := h.rankingService.GenerateTieBreakMatches(r.Context(), tournamentID, input.PlayerIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusOK
	if len(created) > 0 {
		status = http.StatusCreated
	}
	if err := writeJSON(w, status, jsonResponse{"tie_breaks": created}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceHandler обрабатывает POST /tournaments/{tournamentID}/advance
func (h *RankingHandler) AdvanceHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	fixtures, err := h.rankingService.AdvanceBracket(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"fixtures": fixtures}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecomputeHandler обрабатывает POST /tournaments/{tournamentID}/recompute
func (h *RankingHandler) RecomputeHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	res, err := h.rankingService.Recompute(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": res}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SeasonScoresHandler обрабатывает POST /tournaments/{tournamentID}/season-scores
func (h *RankingHandler) SeasonScoresHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ranking, err := h.rankingService.AggregateSeasonScores(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.Info("season scores requested", slog.Int("tournament_id", tournamentID), slog.Int("players", len(ranking)))
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ranking": ranking}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GroupStageHandler обрабатывает POST /tournaments/{tournamentID}/group-stage
func (h *RankingHandler) GroupStageHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input groupStageInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if len(input.Groups) == 0 {
		failedValidationResponse(w, r, map[string]string{"groups": "must contain at least one group"})
		return
	}

	fixtures, err := h.rankingService.ScheduleGroupStage(r.Context(), tournamentID, input.Groups)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"fixtures": fixtures}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecordScoreHandler обрабатывает PUT /matches/{matchID}/score
func (h *RankingHandler) RecordScoreHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input scoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	problems := make(map[string]string)
	if input.Score1 == nil {
		problems["score1"] = "must be provided"
	}
	if input.Score2 == nil {
		problems["score2"] = "must be provided"
	}
	if len(problems) > 0 {
		failedValidationResponse(w, r, problems)
		return
	}

	res, err := h.rankingService.RecordScore(r.Context(), matchID, *input.Score1, *input.Score2)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"result": res}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PlayerLeaderboardHandler обрабатывает GET /players/{playerID}/leaderboard
func (h *RankingHandler) PlayerLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entry, err := h.rankingService.RollingLeaderboard(r.Context(), playerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SeasonLeaderboardHandler обрабатывает GET /seasons/{seasonID}/leaderboard
func (h *RankingHandler) SeasonLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "seasonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, err := h.rankingService.SeasonLeaderboard(r.Context(), seasonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
