package tournament

import "time"

type MatchType string

const (
	MatchWin  MatchType = "win"
	MatchDraw MatchType = "draw"
)

// Match is one ledger entry. Entries are immutable once written; the only
// thing that ever removes one is undoing the most recent match.
type Match struct {
	MatchNumber int       `db:"match_number"`
	Type        MatchType `db:"match_type"`
	Round       string    `db:"round_name"`

	Team1  string  `db:"team1"`
	Team2  string  `db:"team2"`
	Winner *string `db:"winner"`

	// PointsEarned is the value transferred on a win. A draw stores the two
	// halves separately so the undo can reverse each side exactly.
	PointsEarned float64  `db:"points_earned"`
	Team1Earned  *float64 `db:"team1_earned"`
	Team2Earned  *float64 `db:"team2_earned"`

	// Recorded goal counts are informational only; no rule reads them.
	Team1Goals *int `db:"team1_goals"`
	Team2Goals *int `db:"team2_goals"`

	RecordedAt time.Time `db:"recorded_at"`
}

func (m *Match) WonBy(country string) bool {
	return m.Type == MatchWin && m.Winner != nil && *m.Winner == country
}

func (m *Match) Involves(country string) bool {
	return m.Team1 == country || m.Team2 == country
}

// Loser returns the losing side of a win entry.
func (m *Match) Loser() string {
	if m.Winner == nil {
		return ""
	}
	if *m.Winner == m.Team1 {
		return m.Team2
	}
	return m.Team1
}
