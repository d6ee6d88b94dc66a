package scoring

import (
	"cmp"
	"slices"

	"github.com/Dosada05/tournament-ranking/models"
)

// Rolling builds a player's leaderboard entry from their event results,
// ordered most recent first. Only the latest Window scored major events and
// the latest Window scored minor events count; championships and events
// without a score are skipped.
func (c Config) Rolling(playerID int, results []models.EventResult) models.LeaderboardEntry {
	entry := models.LeaderboardEntry{PlayerID: playerID}

	var window []int
	for _, r := range results {
		if r.Score == nil {
			continue
		}
		switch r.Class {
		case models.ClassMajor:
			if entry.MajorEvents >= c.Window {
				continue
			}
			entry.MajorEvents++
		case models.ClassMinor:
			if entry.MinorEvents >= c.Window {
				continue
			}
			entry.MinorEvents++
		default:
			continue
		}
		window = append(window, *r.Score)
		entry.TotalScore += *r.Score
	}

	entry.EventCount = len(window)
	if c.BaselineRank > 0 && len(window) >= c.BaselineRank {
		slices.SortFunc(window, func(a, b int) int { return cmp.Compare(b, a) })
		entry.BaselineScore = window[c.BaselineRank-1]
	}
	return entry
}
