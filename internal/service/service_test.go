package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/lmarchant/cupscore/internal/tournament"
)

// setupTestDB creates an in-memory SQLite database and applies migrations.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	// A second pool connection would see a different empty in-memory DB.
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

var testScoring = tournament.ScoringParams{MaxPoints: 64, Decay: 0.1}

// seedFourTeams initializes a small tournament: base points 64, 58, 52, 47.
func seedFourTeams(t *testing.T, svc *TournamentService) {
	t.Helper()
	roster := []SeedTeam{
		{Country: "Brazil", FIFARank: 1, Confederation: "CONMEBOL"},
		{Country: "France", FIFARank: 2, Confederation: "UEFA"},
		{Country: "Japan", FIFARank: 3, Confederation: "AFC"},
		{Country: "Ghana", FIFARank: 4, Confederation: "CAF"},
	}
	count, err := svc.Initialize(context.Background(), roster)
	require.NoError(t, err)
	require.Equal(t, 4, count)
}

// seedFullField initializes the full 48-team field and plays out all 72
// group matches (12 groups of 4, round-robin, lower seed always wins).
func seedFullField(t *testing.T, tourSvc *TournamentService, matchSvc *MatchService) []string {
	t.Helper()
	ctx := context.Background()

	roster := make([]SeedTeam, 0, 48)
	for i := 1; i <= 48; i++ {
		roster = append(roster, SeedTeam{
			Country:       fmt.Sprintf("Team %02d", i),
			FIFARank:      i,
			Confederation: "UEFA",
		})
	}
	count, err := tourSvc.Initialize(ctx, roster)
	require.NoError(t, err)
	require.Equal(t, 48, count)

	for group := 0; group < 12; group++ {
		names := make([]string, 4)
		for i := range names {
			names[i] = roster[group*4+i].Country
		}
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				_, err := matchSvc.RecordWin(ctx, names[i], names[j], nil, nil)
				require.NoError(t, err)
			}
		}
	}

	advancing := make([]string, 0, 32)
	for i := 0; i < 32; i++ {
		advancing = append(advancing, roster[i].Country)
	}
	return advancing
}

func team(t *testing.T, svc *TournamentService, country string) *tournament.Team {
	t.Helper()
	team, _, err := svc.TeamDetail(context.Background(), country)
	require.NoError(t, err)
	return team
}
