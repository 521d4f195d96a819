package tournament

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	SelectionMinTeams = 3
	SelectionMaxTeams = 4
)

// Selection is a visitor's pick of teams for the side competition. Its
// score is just the sum of the picked teams' total scores, so it needs no
// bookkeeping of its own.
type Selection struct {
	ID        uuid.UUID `db:"id"`
	UserName  string    `db:"user_name"`
	TeamsJSON string    `db:"team_countries"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *Selection) Teams() []string {
	if s.TeamsJSON == "" {
		return nil
	}
	var countries []string
	if err := json.Unmarshal([]byte(s.TeamsJSON), &countries); err != nil {
		return nil
	}
	return countries
}

func (s *Selection) SetTeams(countries []string) error {
	raw, err := json.Marshal(countries)
	if err != nil {
		return err
	}
	s.TeamsJSON = string(raw)
	return nil
}
