package tournament

// TeamStatus replaces the eliminated flag + label pair the tracker started
// with. A semi-final loser is not eliminated yet: it still has the third
// place match to play.
type TeamStatus string

const (
	StatusActive            TeamStatus = "active"
	StatusPendingThirdPlace TeamStatus = "pending_third_place"
	StatusEliminated        TeamStatus = "eliminated"
)

// Placement labels stored in EliminationRound once the bracket decides them.
const (
	LabelChampion          = "Champion"
	LabelRunnerUp          = "2nd place"
	LabelThirdPlace        = "3rd place"
	LabelFourthPlace       = "4th place"
	LabelPendingThirdPlace = "Semi-finals (Available for 3rd Place)"
)

type Team struct {
	Country       string `db:"country"`
	FIFARank      int    `db:"fifa_rank"`
	SeedRank      int    `db:"seed_rank"`
	Confederation string `db:"confederation"`

	// BasePoints is fixed at seeding and is the transfer amount for every
	// group stage result. CurrentPoints is the stake a team carries into
	// its next knockout match; it is overwritten, never accumulated.
	BasePoints    int     `db:"base_points"`
	CurrentPoints float64 `db:"current_points"`
	TotalScore    float64 `db:"total_score"`

	Wins   int `db:"wins"`
	Draws  int `db:"draws"`
	Losses int `db:"losses"`

	Status           TeamStatus `db:"status"`
	EliminationRound string     `db:"elimination_round"`
}

func (t *Team) Eliminated() bool {
	return t.Status == StatusEliminated
}

// InPlay reports whether the team can still be put on a match form.
func (t *Team) InPlay() bool {
	return t.Status != StatusEliminated
}
