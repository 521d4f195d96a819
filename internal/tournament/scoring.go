package tournament

import "math"

// ScoringParams drives the rank-seeded decay that assigns starting points.
// Rank 1 gets MaxPoints and every rank after that decays exponentially.
// When FloorRank is set, ranks beyond it all get FloorPoints flat.
type ScoringParams struct {
	MaxPoints   float64
	Decay       float64
	FloorRank   int
	FloorPoints int
}

// DefaultScoringParams are the values the tracker has always seeded a 48
// team World Cup with.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		MaxPoints:   48,
		Decay:       0.12,
		FloorRank:   24,
		FloorPoints: 2,
	}
}

// StartingPoints returns the seed point value for a 1-based rank. Output is
// non-increasing as rank grows.
func (p ScoringParams) StartingPoints(rank int) int {
	if p.FloorRank > 0 && rank > p.FloorRank {
		return p.FloorPoints
	}
	return int(math.Round(p.MaxPoints * math.Exp(-p.Decay*float64(rank-1))))
}
