package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarchant/cupscore/internal/tournament"
)

func TestRecordWinGroupStage(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	seedFourTeams(t, tourSvc)

	summary, err := matchSvc.RecordWin(context.Background(), "Brazil", "France", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, summary, "Brazil defeated France")

	brazil := team(t, tourSvc, "Brazil")
	france := team(t, tourSvc, "France")

	assert.Equal(t, 58.0, brazil.TotalScore, "Brazil earns France's base points")
	assert.Equal(t, 1, brazil.Wins)
	assert.Equal(t, 1, france.Losses)
	assert.Equal(t, 58.0, france.CurrentPoints, "group losses keep the stake")
	assert.Equal(t, tournament.StatusActive, france.Status)
}

func TestRecordWinThenUndoRestoresState(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	seedFourTeams(t, tourSvc)

	_, err := matchSvc.RecordWin(context.Background(), "Brazil", "France", nil, nil)
	require.NoError(t, err)

	summary, err := matchSvc.UndoLast(context.Background())
	require.NoError(t, err)
	assert.Contains(t, summary, "Undid")

	brazil := team(t, tourSvc, "Brazil")
	france := team(t, tourSvc, "France")
	assert.Equal(t, 0.0, brazil.TotalScore)
	assert.Equal(t, 0, brazil.Wins)
	assert.Equal(t, 0, france.Losses)

	history, err := tourSvc.MatchHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecordWinKnockoutThenUndo(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	advancing := seedFullField(t, tourSvc, matchSvc)
	ctx := context.Background()

	_, err := tourSvc.AdvanceToKnockout(ctx, advancing)
	require.NoError(t, err)

	winnerBefore := *team(t, tourSvc, "Team 01")
	loserBefore := *team(t, tourSvc, "Team 02")

	_, err = matchSvc.RecordWin(ctx, "Team 01", "Team 02", nil, nil)
	require.NoError(t, err)

	winner := team(t, tourSvc, "Team 01")
	loser := team(t, tourSvc, "Team 02")
	assert.Equal(t, loserBefore.CurrentPoints, winner.CurrentPoints, "winner takes the loser's stake")
	assert.Equal(t, winnerBefore.TotalScore+loserBefore.CurrentPoints, winner.TotalScore)
	assert.Equal(t, tournament.StatusEliminated, loser.Status)
	assert.Equal(t, "Round of 32", loser.EliminationRound)
	assert.Equal(t, 0.0, loser.CurrentPoints)

	_, err = matchSvc.UndoLast(ctx)
	require.NoError(t, err)

	assert.Equal(t, winnerBefore, *team(t, tourSvc, "Team 01"))
	assert.Equal(t, loserBefore, *team(t, tourSvc, "Team 02"))
}

func TestRecordWinValidation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	seedFourTeams(t, tourSvc)
	ctx := context.Background()

	_, err := matchSvc.RecordWin(ctx, "Brazil", "Brazil", nil, nil)
	assert.ErrorIs(t, err, tournament.ErrSameTeam)

	_, err = matchSvc.RecordWin(ctx, "Brazil", "Atlantis", nil, nil)
	assert.ErrorIs(t, err, tournament.ErrUnknownTeam)

	require.NoError(t, tourSvc.SetRound(ctx, "Round of 16", false))
	_, err = matchSvc.RecordWin(ctx, "Brazil", "France", nil, nil)
	require.NoError(t, err)

	_, err = matchSvc.RecordWin(ctx, "France", "Japan", nil, nil)
	assert.ErrorIs(t, err, tournament.ErrAlreadyEliminated)

	japan := team(t, tourSvc, "Japan")
	assert.Equal(t, 0, japan.Losses, "failed calls must not leave partial state")
}

func TestRecordDrawOnlyInGroupStage(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	seedFourTeams(t, tourSvc)
	ctx := context.Background()

	summary, err := matchSvc.RecordDraw(ctx, "Japan", "Ghana", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, summary, "Japan drew with Ghana")

	japan := team(t, tourSvc, "Japan")
	ghana := team(t, tourSvc, "Ghana")
	assert.Equal(t, 23.5, japan.TotalScore, "half of Ghana's 47 base points")
	assert.Equal(t, 26.0, ghana.TotalScore, "half of Japan's 52 base points")
	assert.Equal(t, 1, japan.Draws)
	assert.Equal(t, 1, ghana.Draws)

	_, err = matchSvc.UndoLast(ctx)
	require.NoError(t, err)
	japan = team(t, tourSvc, "Japan")
	assert.Equal(t, 0.0, japan.TotalScore)
	assert.Equal(t, 0, japan.Draws)

	require.NoError(t, tourSvc.SetRound(ctx, "Round of 16", false))
	_, err = matchSvc.RecordDraw(ctx, "Japan", "Ghana", nil, nil)
	assert.ErrorIs(t, err, tournament.ErrInvalidRoundForDraw)
}

func TestUndoLastEmptyLedger(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	seedFourTeams(t, tourSvc)

	_, err := matchSvc.UndoLast(context.Background())
	assert.ErrorIs(t, err, tournament.ErrNothingToUndo)
}

// Plays a whole tournament through to the final, then unwinds the bracket
// tail match by match. Each undo must restore both participants exactly to
// the snapshot taken before the corresponding result was recorded.
func TestFullBracketRecordAndUnwind(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	advancing := seedFullField(t, tourSvc, matchSvc)
	ctx := context.Background()

	_, err := tourSvc.AdvanceToKnockout(ctx, advancing)
	require.NoError(t, err)

	// Play the bracket down to four teams, first listed always winning.
	playRound := func(label string, field []string) []string {
		t.Helper()
		require.NoError(t, tourSvc.SetRound(ctx, label, false))
		winners := make([]string, 0, len(field)/2)
		for i := 0; i < len(field); i += 2 {
			_, err := matchSvc.RecordWin(ctx, field[i], field[i+1], nil, nil)
			require.NoError(t, err)
			winners = append(winners, field[i])
		}
		return winners
	}

	field := advancing
	field = playRound("Round of 16", playRound("Round of 32", field))
	semifinalists := playRound("Quarter-finals", field)
	require.Len(t, semifinalists, 4)

	snapshot := func(countries ...string) map[string]tournament.Team {
		t.Helper()
		snap := make(map[string]tournament.Team, len(countries))
		for _, country := range countries {
			snap[country] = *team(t, tourSvc, country)
		}
		return snap
	}
	verify := func(snap map[string]tournament.Team) {
		t.Helper()
		for country, want := range snap {
			assert.Equal(t, want, *team(t, tourSvc, country), country)
		}
	}

	beforeSemis := snapshot(semifinalists...)
	finalists := playRound("Semi-finals", semifinalists)
	losers := []string{semifinalists[1], semifinalists[3]}

	for _, country := range losers {
		got := team(t, tourSvc, country)
		assert.Equal(t, tournament.StatusPendingThirdPlace, got.Status)
		assert.Equal(t, tournament.LabelPendingThirdPlace, got.EliminationRound)
	}

	beforeThirdPlace := snapshot(losers...)
	require.NoError(t, tourSvc.SetRound(ctx, "Third Place", false))
	_, err = matchSvc.RecordWin(ctx, losers[0], losers[1], nil, nil)
	require.NoError(t, err)
	assert.Equal(t, tournament.LabelThirdPlace, team(t, tourSvc, losers[0]).EliminationRound)
	assert.Equal(t, tournament.LabelFourthPlace, team(t, tourSvc, losers[1]).EliminationRound)

	beforeFinal := snapshot(finalists...)
	require.NoError(t, tourSvc.SetRound(ctx, "Final", false))
	_, err = matchSvc.RecordWin(ctx, finalists[0], finalists[1], nil, nil)
	require.NoError(t, err)

	champion := team(t, tourSvc, finalists[0])
	assert.Equal(t, tournament.LabelChampion, champion.EliminationRound)
	assert.Equal(t, tournament.StatusActive, champion.Status, "the champion is never eliminated")
	assert.Equal(t, tournament.LabelRunnerUp, team(t, tourSvc, finalists[1]).EliminationRound)

	// Unwind: final, third place, then both semis.
	_, err = matchSvc.UndoLast(ctx)
	require.NoError(t, err)
	verify(beforeFinal)

	_, err = matchSvc.UndoLast(ctx)
	require.NoError(t, err)
	verify(beforeThirdPlace)

	_, err = matchSvc.UndoLast(ctx)
	require.NoError(t, err)
	_, err = matchSvc.UndoLast(ctx)
	require.NoError(t, err)
	verify(beforeSemis)
}
