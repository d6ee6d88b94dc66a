package storage

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Dosada05/tournament-ranking/models"
)

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStore) Put(_ context.Context, key, contentType string, body []byte) error {
	m.objects[key] = body
	m.types[key] = contentType
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) PublicURL(key string) string {
	return publicURL("https://results.example.org/static", key)
}

func TestPublishRanking(t *testing.T) {
	store := newMemoryStore()
	pub := &objectPublisher{store: store, now: func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }}
	tour := models.Tournament{ID: 7, SeasonID: 3, Name: "Spring Open", Class: models.ClassMajor}
	score := 400

	url, err := pub.PublishRanking(context.Background(), tour, []models.Standing{{PlayerID: 1, Rank: 1, Score: &score}})
	if err != nil {
		t.Fatalf("PublishRanking: %v", err)
	}
	if want := "https://results.example.org/static/rankings/season-3/tournament-7.json"; url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}

	var doc RankingSnapshot
	if err := json.Unmarshal(store.objects["rankings/season-3/tournament-7.json"], &doc); err != nil {
		t.Fatalf("stored snapshot is not JSON: %v", err)
	}
	if doc.Tournament.ID != 7 || len(doc.Ranking) != 1 || *doc.Ranking[0].Score != 400 {
		t.Fatalf("snapshot = %+v", doc)
	}
	if store.types["rankings/season-3/tournament-7.json"] != "application/json" {
		t.Fatalf("content type = %q", store.types["rankings/season-3/tournament-7.json"])
	}

	if err := pub.WithdrawRanking(context.Background(), tour); err != nil {
		t.Fatalf("WithdrawRanking: %v", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("objects left after withdraw: %v", store.objects)
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		base, key, want string
	}{
		{"https://cdn.example.org", "leaderboards/season-1.json", "https://cdn.example.org/leaderboards/season-1.json"},
		{"https://cdn.example.org/", "/a.json", "https://cdn.example.org/a.json"},
		{"", "a.json", ""},
	}
	for _, tt := range tests {
		if got := publicURL(tt.base, tt.key); got != tt.want {
			t.Errorf("publicURL(%q, %q) = %q, want %q", tt.base, tt.key, got, tt.want)
		}
	}
}
