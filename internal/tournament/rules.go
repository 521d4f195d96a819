package tournament

import (
	"fmt"
	"math"
)

const (
	// GroupMatchCount is how many group results a 48-team, 12-group
	// round-robin produces (6 per group).
	GroupMatchCount = 72

	// AdvancingTeamCount is the size of the knockout bracket.
	AdvancingTeamCount = 32

	// semiLoserFactor is the stake reduction a semi-final loser carries
	// into the third place match.
	semiLoserFactor = 0.75
)

// ApplyWin mutates winner and loser according to the rules of the given
// round and returns the points transferred. Callers look the teams up,
// verify they are distinct and in play, and persist the result atomically.
func ApplyWin(round Round, winner, loser *Team) (float64, error) {
	if !round.Valid() {
		return 0, ErrInvalidRound
	}
	if winner.Eliminated() || loser.Eliminated() {
		return 0, ErrAlreadyEliminated
	}

	var earned float64

	switch round {
	case GroupStage:
		// Group wins pay out the loser's seed value, not its stake.
		earned = float64(loser.BasePoints)
		winner.TotalScore += earned
		winner.Wins++
		loser.Losses++

	case SemiFinals:
		earned = loser.CurrentPoints
		winner.TotalScore += earned
		winner.Wins++
		winner.CurrentPoints = earned
		loser.Losses++
		loser.CurrentPoints *= semiLoserFactor
		loser.Status = StatusPendingThirdPlace
		loser.EliminationRound = LabelPendingThirdPlace

	case ThirdPlace:
		earned = loser.CurrentPoints
		winner.TotalScore += earned
		winner.Wins++
		winner.CurrentPoints = 0
		winner.Status = StatusEliminated
		winner.EliminationRound = LabelThirdPlace
		loser.Losses++
		loser.CurrentPoints = 0
		loser.Status = StatusEliminated
		loser.EliminationRound = LabelFourthPlace

	case Final:
		earned = loser.CurrentPoints
		winner.TotalScore += earned
		winner.Wins++
		// The champion is never eliminated: it stays on the active list
		// after the tournament closes.
		winner.EliminationRound = LabelChampion
		loser.Losses++
		loser.CurrentPoints = 0
		loser.Status = StatusEliminated
		loser.EliminationRound = LabelRunnerUp

	case RoundOf32, RoundOf16, QuarterFinals:
		earned = loser.CurrentPoints
		winner.TotalScore += earned
		winner.Wins++
		winner.CurrentPoints = earned
		loser.Losses++
		loser.CurrentPoints = 0
		loser.Status = StatusEliminated
		loser.EliminationRound = round.String()

	default:
		return 0, ErrInvalidRound
	}

	return earned, nil
}

// ApplyDraw splits points between two group stage opponents: each side earns
// half of the other's base points.
func ApplyDraw(round Round, team1, team2 *Team) (float64, float64, error) {
	if round != GroupStage {
		return 0, 0, ErrInvalidRoundForDraw
	}
	if team1.Eliminated() || team2.Eliminated() {
		return 0, 0, ErrAlreadyEliminated
	}

	team1Earned := float64(team2.BasePoints) / 2
	team2Earned := float64(team1.BasePoints) / 2

	team1.TotalScore += team1Earned
	team1.Draws++
	team2.TotalScore += team2Earned
	team2.Draws++

	return team1Earned, team2Earned, nil
}

// UndoWin reverses entry on the two participants. Because a knockout win
// overwrites the winner's stake instead of adding to it, the prior value
// cannot be computed arithmetically: it is reconstructed from history,
// which must hold every ledger entry older than the one being undone, in
// order.
func UndoWin(entry *Match, winner, loser *Team, history []*Match) error {
	round, err := ParseRound(entry.Round)
	if err != nil {
		return fmt.Errorf("%w: round %q", ErrUndoReconstruction, entry.Round)
	}

	// Resolve everything that can fail before touching either team, so an
	// error leaves both structs exactly as they were.
	var winnerStake, loserStake float64
	if round == ThirdPlace {
		if winnerStake, err = semiFinalStake(history, winner.Country); err != nil {
			return err
		}
		if loserStake, err = semiFinalStake(history, loser.Country); err != nil {
			return err
		}
	}

	winner.TotalScore -= entry.PointsEarned
	winner.Wins--
	loser.Losses--

	switch round {
	case GroupStage:
		// Nothing else moved.

	case SemiFinals:
		winner.CurrentPoints = priorStake(history, winner)
		// The transfer amount is the loser's pre-match stake, before the
		// third-place reduction was applied.
		loser.CurrentPoints = entry.PointsEarned
		loser.Status = StatusActive
		loser.EliminationRound = ""

	case ThirdPlace:
		winner.CurrentPoints = winnerStake
		winner.Status = StatusPendingThirdPlace
		winner.EliminationRound = LabelPendingThirdPlace
		loser.CurrentPoints = loserStake
		loser.Status = StatusPendingThirdPlace
		loser.EliminationRound = LabelPendingThirdPlace

	case Final:
		winner.CurrentPoints = priorStake(history, winner)
		winner.EliminationRound = ""
		loser.CurrentPoints = priorStake(history, loser)
		loser.Status = StatusActive
		loser.EliminationRound = ""

	case RoundOf32, RoundOf16, QuarterFinals:
		winner.CurrentPoints = priorStake(history, winner)
		loser.CurrentPoints = entry.PointsEarned
		loser.Status = StatusActive
		loser.EliminationRound = ""
	}

	return nil
}

// UndoDraw reverses a draw entry using the two earned halves it stored.
func UndoDraw(entry *Match, team1, team2 *Team) error {
	if entry.Team1Earned == nil || entry.Team2Earned == nil {
		return fmt.Errorf("%w: draw entry %d is missing earned values", ErrUndoReconstruction, entry.MatchNumber)
	}
	team1.TotalScore -= *entry.Team1Earned
	team1.Draws--
	team2.TotalScore -= *entry.Team2Earned
	team2.Draws--
	return nil
}

// priorStake finds the stake a team held before its latest knockout win:
// the points_earned of its most recent non-group win in history. A team
// with no prior knockout win is sitting on its end-of-groups carry-in,
// which is its total score floored at 1. Callers reverse the undone match's
// total score contribution first, so TotalScore is already pre-match here.
func priorStake(history []*Match, team *Team) float64 {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.WonBy(team.Country) && m.Round != GroupStage.String() {
			return m.PointsEarned
		}
	}
	return math.Max(1, team.TotalScore)
}

// semiFinalStake reconstructs what a third place participant carried into
// that match from its own semi-final entry: winners kept the transferred
// value, losers kept the reduced share of it.
func semiFinalStake(history []*Match, country string) (float64, error) {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Type != MatchWin || m.Round != SemiFinals.String() || !m.Involves(country) {
			continue
		}
		if m.WonBy(country) {
			return m.PointsEarned, nil
		}
		return m.PointsEarned * semiLoserFactor, nil
	}
	return 0, fmt.Errorf("%w: no semi-final on record for %s", ErrUndoReconstruction, country)
}
