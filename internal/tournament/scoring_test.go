package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartingPointsMonotonicNonIncreasing(t *testing.T) {
	params := DefaultScoringParams()

	prev := params.StartingPoints(1)
	for rank := 2; rank <= 48; rank++ {
		points := params.StartingPoints(rank)
		assert.LessOrEqual(t, points, prev, "rank %d should not score above rank %d", rank, rank-1)
		prev = points
	}
}

func TestStartingPointsKnownValues(t *testing.T) {
	params := ScoringParams{MaxPoints: 64, Decay: 0.1}

	assert.Equal(t, 64, params.StartingPoints(1))
	assert.Equal(t, 58, params.StartingPoints(2))
	assert.Equal(t, 52, params.StartingPoints(3))
	assert.Equal(t, 47, params.StartingPoints(4))
}

func TestStartingPointsFloor(t *testing.T) {
	params := DefaultScoringParams()

	assert.Equal(t, 48, params.StartingPoints(1))
	for rank := params.FloorRank + 1; rank <= 48; rank++ {
		assert.Equal(t, params.FloorPoints, params.StartingPoints(rank))
	}
}
