package models

import "fmt"

// PlayerStatus определяет участие игрока в сезонном рейтинге.
type PlayerStatus int

const (
	PlayerRanked      PlayerStatus = 1
	PlayerExcluded    PlayerStatus = 2
	PlayerUnavailable PlayerStatus = 3
)

type Player struct {
	ID     int          `json:"id" db:"player_id"`
	Name   string       `json:"name" db:"name"`
	Status PlayerStatus `json:"status" db:"status"`
}

// Eligible reports whether the player receives season points.
func (p Player) Eligible() bool {
	return p.Status == PlayerRanked
}

// PlaceholderName is used for players referenced by matches but missing from
// the player registry.
func PlaceholderName(playerID int) string {
	return fmt.Sprintf("Player #%d", playerID)
}
