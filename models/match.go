package models

// Score sentinels. A (0,0) score means the fixture has not been played yet,
// (-1,-1) marks a bye or an intentionally unscheduled fixture.
const (
	ScoreUnplayed = 0
	ScoreBye      = -1
)

type Match struct {
	ID           int       `json:"id" db:"m_id"`
	TournamentID int       `json:"tournament_id" db:"t_id"`
	Stage        StageType `json:"stage" db:"m_type"`
	Round        int       `json:"round" db:"round"`
	Slot         int       `json:"slot" db:"slot"`
	Group        string    `json:"group,omitempty" db:"group_label"`
	Player1ID    int       `json:"player1_id" db:"player_1_id"`
	Player2ID    int       `json:"player2_id" db:"player_2_id"`
	Score1       int       `json:"score1" db:"player_1_score"`
	Score2       int       `json:"score2" db:"player_2_score"`
}

func (m Match) IsBye() bool {
	return m.Score1 == ScoreBye && m.Score2 == ScoreBye
}

// IsPlayed reports whether the match carries a decided result.
func (m Match) IsPlayed() bool {
	if m.IsBye() {
		return false
	}
	return !(m.Score1 == ScoreUnplayed && m.Score2 == ScoreUnplayed)
}

// IsDraw is true only for a played match with equal, non-zero scores.
func (m Match) IsDraw() bool {
	return m.IsPlayed() && m.Score1 == m.Score2
}

// Winner returns the winning player of a played, non-drawn match. A bye is won
// by the player holding the first slot.
func (m Match) Winner() (int, bool) {
	switch {
	case m.IsBye():
		return m.Player1ID, m.Player1ID != 0
	case !m.IsPlayed() || m.Score1 == m.Score2:
		return 0, false
	case m.Score1 > m.Score2:
		return m.Player1ID, true
	default:
		return m.Player2ID, true
	}
}

func (m Match) Loser() (int, bool) {
	if m.IsBye() || !m.IsPlayed() || m.Score1 == m.Score2 {
		return 0, false
	}
	if m.Score1 > m.Score2 {
		return m.Player2ID, true
	}
	return m.Player1ID, true
}

// Decided reports whether the match no longer blocks stage completion.
func (m Match) Decided() bool {
	if m.IsBye() {
		return true
	}
	if m.Stage.IsKnockout() {
		_, ok := m.Winner()
		return ok
	}
	return m.IsPlayed()
}

func (m Match) Involves(playerID int) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// For returns goals scored and conceded by playerID in this match.
func (m Match) For(playerID int) (scored, conceded int) {
	if m.Player1ID == playerID {
		return m.Score1, m.Score2
	}
	return m.Score2, m.Score1
}

// PairKey identifies the unordered pair of players in the match.
type PairKey struct {
	Low, High int
}

func NewPairKey(a, b int) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

func (m Match) Pair() PairKey {
	return NewPairKey(m.Player1ID, m.Player2ID)
}
