package tournament

// Round is the single tournament phase the whole bracket moves through.
// The order of the constants is the order the tournament plays in.
type Round int

const (
	GroupStage Round = iota
	RoundOf32
	RoundOf16
	QuarterFinals
	SemiFinals
	ThirdPlace
	Final
)

var roundLabels = [...]string{
	GroupStage:    "Group Stage",
	RoundOf32:     "Round of 32",
	RoundOf16:     "Round of 16",
	QuarterFinals: "Quarter-finals",
	SemiFinals:    "Semi-finals",
	ThirdPlace:    "Third Place",
	Final:         "Final",
}

// roundCapacities is the maximum number of non-eliminated teams that may be
// in play when the round begins.
var roundCapacities = [...]int{
	GroupStage:    48,
	RoundOf32:     32,
	RoundOf16:     16,
	QuarterFinals: 8,
	SemiFinals:    4,
	ThirdPlace:    4,
	Final:         2,
}

func (r Round) Valid() bool {
	return r >= GroupStage && r <= Final
}

func (r Round) String() string {
	if !r.Valid() {
		return "Unknown"
	}
	return roundLabels[r]
}

func (r Round) Capacity() int {
	if !r.Valid() {
		return 0
	}
	return roundCapacities[r]
}

func (r Round) IsKnockout() bool {
	return r != GroupStage
}

// ParseRound maps a display label back to its Round. Labels are the only
// representation stored in the database and the ledger.
func ParseRound(label string) (Round, error) {
	for r, l := range roundLabels {
		if l == label {
			return Round(r), nil
		}
	}
	return 0, ErrInvalidRound
}

// Rounds returns every round in play order, for admin forms and views.
func Rounds() []Round {
	return []Round{GroupStage, RoundOf32, RoundOf16, QuarterFinals, SemiFinals, ThirdPlace, Final}
}
