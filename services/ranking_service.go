package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Dosada05/tournament-ranking/models"
	"github.com/Dosada05/tournament-ranking/repositories"
	"github.com/Dosada05/tournament-ranking/scoring"
	"github.com/Dosada05/tournament-ranking/standings"
	"github.com/Dosada05/tournament-ranking/storage"
)

// RecomputeResult is the outcome of one full pass over a tournament.
type RecomputeResult struct {
	TournamentID int               `json:"tournament_id"`
	Standings    []models.Standing `json:"standings"`
	TieBreaks    []models.Match    `json:"tie_breaks,omitempty"`
	Fixtures     []models.Match    `json:"fixtures,omitempty"`
	Final        []models.Standing `json:"final,omitempty"`
	Completed    bool              `json:"completed"`
	// Note explains why the bracket could not advance, if it could not.
	Note string `json:"note,omitempty"`
}

type RankingService interface {
	ComputeStandings(ctx context.Context, tournamentID int) ([]models.Standing, error)
	ResolveTies(ctx context.Context, tournamentID int, pointGroup []int) ([]int, error)
	GenerateTieBreakMatches(ctx context.Context, tournamentID int, tiedGroup []int) ([]models.Match, error)
	AdvanceBracket(ctx context.Context, tournamentID int) ([]models.Match, error)
	AggregateSeasonScores(ctx context.Context, tournamentID int) ([]models.Standing, error)
	RollingLeaderboard(ctx context.Context, playerID int) (models.LeaderboardEntry, error)
	SeasonLeaderboard(ctx context.Context, seasonID int) ([]models.LeaderboardEntry, error)

	RecordScore(ctx context.Context, matchID, score1, score2 int) (*RecomputeResult, error)
	Recompute(ctx context.Context, tournamentID int) (*RecomputeResult, error)
	ScheduleGroupStage(ctx context.Context, tournamentID int, groups map[string][]int) ([]models.Match, error)
}

type rankingService struct {
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	rankingRepo    repositories.RankingRepository
	publisher      storage.SnapshotPublisher
	scoring        scoring.Config
	logger         *slog.Logger
}

func NewRankingService(
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	rankingRepo repositories.RankingRepository,
	publisher storage.SnapshotPublisher,
	scoringCfg scoring.Config,
	logger *slog.Logger,
) RankingService {
	if publisher == nil {
		publisher = storage.NoopPublisher{}
	}
	return &rankingService{
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		rankingRepo:    rankingRepo,
		publisher:      publisher,
		scoring:        scoringCfg,
		logger:         logger,
	}
}

func (s *rankingService) ComputeStandings(ctx context.Context, tournamentID int) ([]models.Standing, error) {
	st, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return st.table().Rows, nil
}

// ResolveTies orders a group of players the caller considers tied on points.
// Players that do not share the same points total are rejected.
func (s *rankingService) ResolveTies(ctx context.Context, tournamentID int, pointGroup []int) ([]int, error) {
	st, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	tbl := st.table()
	members, err := st.pointGroup(tbl, pointGroup)
	if err != nil {
		return nil, err
	}
	res := standings.NewResolver(standings.DefaultCascade(), st.counted(), tbl.Matches).Resolve(members)
	return playerOrder(res.Order), nil
}

// GenerateTieBreakMatches creates the missing tie-break fixtures for the
// unresolved runs of the table, limited to tiedGroup when it is given.
// Existing pairs are never duplicated.
func (s *rankingService) GenerateTieBreakMatches(ctx context.Context, tournamentID int, tiedGroup []int) ([]models.Match, error) {
	st, err := s.load(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	tbl := st.table()
	if len(tiedGroup) > 0 {
		if _, err := st.pointGroup(tbl, tiedGroup); err != nil {
			return nil, err
		}
	}
	runs := standings.RestrictRuns(tbl.Runs, tiedGroup)

	created, err := s.saveTieBreaks(ctx, st, runs)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *rankingService) saveTieBreaks(ctx context.Context, st *tournamentState, runs [][]int) ([]models.Match, error) {
	fixtures := standings.TieBreakFixtures(st.tournament.ID, runs, st.matches)
	if len(fixtures) == 0 {
		return nil, nil
	}
	saved, err := s.matchRepo.UpsertMatches(ctx, fixtures)
	if err != nil {
		return nil, handleRepositoryError(err, "save tie-break fixtures")
	}
	st.matches = append(st.matches, saved...)
	s.logger.Info("tie-break fixtures created",
		slog.Int("tournament_id", st.tournament.ID),
		slog.Int("count", len(saved)),
	)
	return saved, nil
}

// pointGroup looks up the table rows of ids and checks they share one points
// total.
func (st *tournamentState) pointGroup(tbl standings.Table, ids []int) ([]models.Standing, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: empty player group", ErrValidationFailed)
	}
	rows := tbl.Rows
	var members []models.Standing
	for _, id := range ids {
		i := slices.IndexFunc(rows, func(r models.Standing) bool { return r.PlayerID == id })
		if i < 0 {
			return nil, fmt.Errorf("%w: player %d has no standing in tournament %d", ErrValidationFailed, id, st.tournament.ID)
		}
		if slices.ContainsFunc(members, func(m models.Standing) bool { return m.PlayerID == id }) {
			continue
		}
		members = append(members, rows[i])
	}
	for _, m := range members[1:] {
		if m.Points != members[0].Points {
			return nil, fmt.Errorf("%w: players %d and %d are not level on points", ErrValidationFailed, members[0].PlayerID, m.PlayerID)
		}
	}
	return members, nil
}

func (s *rankingService) RollingLeaderboard(ctx context.Context, playerID int) (models.LeaderboardEntry, error) {
	results, err := s.rankingRepo.ListPlayerResults(ctx, playerID)
	if err != nil {
		return models.LeaderboardEntry{}, handleRepositoryError(err, "load player results")
	}
	return s.scoring.Rolling(playerID, results), nil
}

// SeasonLeaderboard computes the rolling entry of every player ranked in the
// season, best total first.
func (s *rankingService) SeasonLeaderboard(ctx context.Context, seasonID int) ([]models.LeaderboardEntry, error) {
	ids, err := s.rankingRepo.ListSeasonPlayerIDs(ctx, seasonID)
	if err != nil {
		return nil, handleRepositoryError(err, "load season players")
	}
	board := make([]models.LeaderboardEntry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.RollingLeaderboard(ctx, id)
		if err != nil {
			return nil, err
		}
		board = append(board, entry)
	}
	slices.SortStableFunc(board, func(a, b models.LeaderboardEntry) int {
		return cmp.Or(cmp.Compare(b.TotalScore, a.TotalScore), cmp.Compare(a.PlayerID, b.PlayerID))
	})
	return board, nil
}
