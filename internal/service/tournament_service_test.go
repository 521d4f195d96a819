package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmarchant/cupscore/internal/tournament"
)

func TestInitializeSeedsTeams(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	seedFourTeams(t, tourSvc)

	brazil := team(t, tourSvc, "Brazil")
	assert.Equal(t, 1, brazil.SeedRank)
	assert.Equal(t, 64, brazil.BasePoints)
	assert.Equal(t, 64.0, brazil.CurrentPoints)
	assert.Equal(t, 0.0, brazil.TotalScore)
	assert.Equal(t, tournament.StatusActive, brazil.Status)

	round, err := tourSvc.CurrentRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tournament.GroupStage, round)
}

func TestInitializeResetsEverything(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	seedFourTeams(t, tourSvc)
	ctx := context.Background()

	_, err := matchSvc.RecordWin(ctx, "Brazil", "France", nil, nil)
	require.NoError(t, err)
	require.NoError(t, tourSvc.SetRound(ctx, "Round of 16", false))

	seedFourTeams(t, tourSvc)

	history, err := tourSvc.MatchHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	round, err := tourSvc.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, tournament.GroupStage, round)

	brazil := team(t, tourSvc, "Brazil")
	assert.Equal(t, 0.0, brazil.TotalScore)
	assert.Equal(t, 0, brazil.Wins)
}

func TestAdvanceToKnockout(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	advancing := seedFullField(t, tourSvc, matchSvc)
	ctx := context.Background()

	totalsBefore := make(map[string]float64)
	teams, err := tourSvc.AllTeams(ctx)
	require.NoError(t, err)
	for _, team := range teams {
		totalsBefore[team.Country] = team.TotalScore
	}

	summary, err := tourSvc.AdvanceToKnockout(ctx, advancing)
	require.NoError(t, err)
	assert.Contains(t, summary, "Advanced to Round of 32")

	round, err := tourSvc.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, tournament.RoundOf32, round)

	active, err := tourSvc.ActiveTeams(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 32)

	for _, country := range advancing {
		got := team(t, tourSvc, country)
		assert.Equal(t, math.Max(1, totalsBefore[country]), got.CurrentPoints, country)
	}

	eliminated, err := tourSvc.Leaderboard(ctx, LeaderboardOptions{EliminatedOnly: true})
	require.NoError(t, err)
	require.Len(t, eliminated, 16)
	for _, team := range eliminated {
		assert.Equal(t, "Group Stage", team.EliminationRound)
		assert.Equal(t, 0.0, team.CurrentPoints)
	}
}

func TestAdvanceToKnockoutCountMismatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	advancing := seedFullField(t, tourSvc, matchSvc)
	ctx := context.Background()

	for _, list := range [][]string{advancing[:31], append(advancing, "Team 33")} {
		_, err := tourSvc.AdvanceToKnockout(ctx, list)
		assert.ErrorIs(t, err, tournament.ErrAdvancingCountMismatch)

		round, err := tourSvc.CurrentRound(ctx)
		require.NoError(t, err)
		assert.Equal(t, tournament.GroupStage, round, "a failed advancement must change nothing")

		active, err := tourSvc.ActiveTeams(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 48)
	}
}

func TestAdvanceToKnockoutPreconditionOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	seedFourTeams(t, tourSvc)
	ctx := context.Background()

	// Group stage incomplete comes before the count check.
	_, err := tourSvc.AdvanceToKnockout(ctx, []string{"Brazil"})
	assert.ErrorIs(t, err, tournament.ErrGroupStageIncomplete)

	require.NoError(t, tourSvc.SetRound(ctx, "Round of 16", false))
	_, err = tourSvc.AdvanceToKnockout(ctx, []string{"Brazil"})
	assert.ErrorIs(t, err, tournament.ErrInvalidRound)
}

func TestAdvanceToKnockoutUnknownTeam(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	advancing := seedFullField(t, tourSvc, matchSvc)

	advancing[31] = "Atlantis"
	_, err := tourSvc.AdvanceToKnockout(context.Background(), advancing)
	assert.ErrorIs(t, err, tournament.ErrUnknownTeam)
}

func TestSetRound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	seedFullField(t, tourSvc, matchSvc)
	ctx := context.Background()

	err := tourSvc.SetRound(ctx, "Round of 64", false)
	assert.ErrorIs(t, err, tournament.ErrInvalidRound)

	// 48 teams are still in play, far too many for the final.
	err = tourSvc.SetRound(ctx, "Final", false)
	assert.ErrorIs(t, err, tournament.ErrRoundCapacityExceeded)

	require.NoError(t, tourSvc.SetRound(ctx, "Final", true))
	round, err := tourSvc.CurrentRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, tournament.Final, round)
}

func TestLeaderboardOrderingAndFilters(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	seedFourTeams(t, tourSvc)
	ctx := context.Background()

	_, err := matchSvc.RecordWin(ctx, "Ghana", "Brazil", nil, nil)
	require.NoError(t, err)
	_, err = matchSvc.RecordWin(ctx, "Japan", "France", nil, nil)
	require.NoError(t, err)

	board, err := tourSvc.Leaderboard(ctx, LeaderboardOptions{})
	require.NoError(t, err)
	require.Len(t, board, 4)
	assert.Equal(t, "Ghana", board[0].Country, "64 points from beating Brazil")
	assert.Equal(t, "Japan", board[1].Country, "58 points from beating France")
	// Brazil and France are tied on zero; seed order breaks the tie.
	assert.Equal(t, "Brazil", board[2].Country)
	assert.Equal(t, "France", board[3].Country)

	top, err := tourSvc.Leaderboard(ctx, LeaderboardOptions{TopN: 2})
	require.NoError(t, err)
	assert.Len(t, top, 2)
}

func TestConfederationStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	tourSvc := NewTournamentService(db, testScoring)
	matchSvc := NewMatchService(db)
	seedFourTeams(t, tourSvc)
	ctx := context.Background()

	_, err := matchSvc.RecordWin(ctx, "Brazil", "France", nil, nil)
	require.NoError(t, err)

	stats, err := tourSvc.ConfederationStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 4)
	assert.Equal(t, "CONMEBOL", stats[0].Confederation)
	assert.Equal(t, 58.0, stats[0].TotalScore)
	assert.Equal(t, 1, stats[0].TotalTeams)
}
