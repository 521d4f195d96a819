package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundRoundTrips(t *testing.T) {
	for _, r := range Rounds() {
		parsed, err := ParseRound(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
}

func TestParseRoundRejectsUnknownLabel(t *testing.T) {
	_, err := ParseRound("Round of 64")
	assert.ErrorIs(t, err, ErrInvalidRound)
}

func TestRoundCapacities(t *testing.T) {
	assert.Equal(t, 48, GroupStage.Capacity())
	assert.Equal(t, 32, RoundOf32.Capacity())
	assert.Equal(t, 16, RoundOf16.Capacity())
	assert.Equal(t, 8, QuarterFinals.Capacity())
	assert.Equal(t, 4, SemiFinals.Capacity())
	assert.Equal(t, 4, ThirdPlace.Capacity())
	assert.Equal(t, 2, Final.Capacity())
}
