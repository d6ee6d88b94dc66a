// Package scoring converts final tournament rankings into season points and
// keeps the rolling leaderboard built from them.
package scoring

import (
	"fmt"
	"math"

	"github.com/Dosada05/tournament-ranking/models"
)

// Config holds the season point parameters.
type Config struct {
	MajorMultiplier float64
	MinorMultiplier float64
	// Floor is the score of the last place in major and minor events.
	Floor float64
	// Window is the number of most recent major (and, separately, minor)
	// events counted per player.
	Window int
	// BaselineRank selects the n-th highest score of the window as baseline.
	BaselineRank int
}

func DefaultConfig() Config {
	return Config{
		MajorMultiplier: 100,
		MinorMultiplier: 50,
		Floor:           10,
		Window:          20,
		BaselineRank:    10,
	}
}

// Distribution returns the score of every rank 1..n for the event class.
//
// Major and minor events fall geometrically from n×multiplier at rank 1 to
// the floor at rank n; championships fall arithmetically from n to 1.
func (c Config) Distribution(class models.EventClass, n int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	scores := make([]int, n)
	switch class {
	case models.ClassMajor, models.ClassMinor:
		mult := c.MajorMultiplier
		if class == models.ClassMinor {
			mult = c.MinorMultiplier
		}
		first := float64(n) * mult
		if n == 1 {
			scores[0] = int(math.Round(first))
			return scores, nil
		}
		ratio := math.Pow(c.Floor/first, 1/float64(n-1))
		for k := range n {
			scores[k] = int(math.Round(first * math.Pow(ratio, float64(k))))
		}
		scores[n-1] = int(math.Round(c.Floor))
	case models.ClassChampionship:
		for k := range n {
			scores[k] = n - k
		}
	default:
		return nil, fmt.Errorf("unknown event class %d", int(class))
	}
	return scores, nil
}

// Distribute attaches season scores to a final ranking, ordered best first.
// Ranks are positions in the slice. Players not eligible for the season
// ranking keep their rank slot with a nil score.
func (c Config) Distribute(class models.EventClass, ranking []models.Standing) ([]models.Standing, error) {
	scores, err := c.Distribution(class, len(ranking))
	if err != nil {
		return nil, err
	}

	out := make([]models.Standing, len(ranking))
	for i, s := range ranking {
		s.Rank = i + 1
		s.Score = nil
		if s.Status == models.PlayerRanked {
			score := scores[i]
			s.Score = &score
		}
		out[i] = s
	}
	return out, nil
}
