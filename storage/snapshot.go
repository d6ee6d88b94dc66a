package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-ranking/models"
)

// SnapshotPublisher exports final rankings and leaderboards as JSON documents
// for the static results site.
type SnapshotPublisher interface {
	PublishRanking(ctx context.Context, tournament models.Tournament, ranking []models.Standing) (string, error)
	WithdrawRanking(ctx context.Context, tournament models.Tournament) error
	PublishLeaderboard(ctx context.Context, seasonID int, entries []models.LeaderboardEntry) (string, error)
}

type RankingSnapshot struct {
	Tournament  models.Tournament `json:"tournament"`
	GeneratedAt time.Time         `json:"generated_at"`
	Ranking     []models.Standing `json:"ranking"`
}

type LeaderboardSnapshot struct {
	SeasonID    int                       `json:"season_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Entries     []models.LeaderboardEntry `json:"entries"`
}

func RankingKey(t models.Tournament) string {
	return fmt.Sprintf("rankings/season-%d/tournament-%d.json", t.SeasonID, t.ID)
}

func LeaderboardKey(seasonID int) string {
	return fmt.Sprintf("leaderboards/season-%d.json", seasonID)
}

type objectPublisher struct {
	store ObjectStore
	now   func() time.Time
}

func NewSnapshotPublisher(store ObjectStore) SnapshotPublisher {
	return &objectPublisher{store: store, now: time.Now}
}

func (p *objectPublisher) PublishRanking(ctx context.Context, t models.Tournament, ranking []models.Standing) (string, error) {
	key := RankingKey(t)
	doc := RankingSnapshot{Tournament: t, GeneratedAt: p.now().UTC(), Ranking: ranking}
	if err := p.put(ctx, key, doc); err != nil {
		return "", err
	}
	return p.store.PublicURL(key), nil
}

func (p *objectPublisher) WithdrawRanking(ctx context.Context, t models.Tournament) error {
	return p.store.Delete(ctx, RankingKey(t))
}

func (p *objectPublisher) PublishLeaderboard(ctx context.Context, seasonID int, entries []models.LeaderboardEntry) (string, error) {
	key := LeaderboardKey(seasonID)
	doc := LeaderboardSnapshot{SeasonID: seasonID, GeneratedAt: p.now().UTC(), Entries: entries}
	if err := p.put(ctx, key, doc); err != nil {
		return "", err
	}
	return p.store.PublicURL(key), nil
}

func (p *objectPublisher) put(ctx context.Context, key string, doc any) error {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}
	return p.store.Put(ctx, key, "application/json", body)
}

// NoopPublisher is used when no bucket is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishRanking(context.Context, models.Tournament, []models.Standing) (string, error) {
	return "", nil
}

func (NoopPublisher) WithdrawRanking(context.Context, models.Tournament) error { return nil }

func (NoopPublisher) PublishLeaderboard(context.Context, int, []models.LeaderboardEntry) (string, error) {
	return "", nil
}
