package models

// EventClass определяет, как итоговые места турнира переводятся в сезонные очки.
type EventClass int

const (
	ClassMajor        EventClass = 1
	ClassMinor        EventClass = 2
	ClassChampionship EventClass = 3
)

func (c EventClass) String() string {
	switch c {
	case ClassMajor:
		return "major"
	case ClassMinor:
		return "minor"
	case ClassChampionship:
		return "championship"
	}
	return "unknown"
}

// TournamentStatus представляет статусы турнира, соответствующие значениям в БД.
type TournamentStatus int

const (
	TournamentNormal    TournamentStatus = 1
	TournamentCancelled TournamentStatus = 2
)

// Tournament представляет турнир.
type Tournament struct {
	ID       int              `json:"id" db:"t_id"`
	SeasonID int              `json:"season_id" db:"season_id"`
	Name     string           `json:"name" db:"name"`
	Class    EventClass       `json:"class" db:"type"`
	Format   TournamentFormat `json:"format" db:"t_format"`
	Status   TournamentStatus `json:"status" db:"status"`
}

func (t Tournament) Cancelled() bool {
	return t.Status == TournamentCancelled
}
