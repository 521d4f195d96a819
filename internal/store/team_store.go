package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lmarchant/cupscore/internal/tournament"
)

type TeamStore struct {
	db *sqlx.DB
}

const (
	insertTeamQuery = `
		INSERT INTO teams (country, fifa_rank, seed_rank, confederation, base_points,
			current_points, total_score, wins, draws, losses, status, elimination_round)
		VALUES (:country, :fifa_rank, :seed_rank, :confederation, :base_points,
			:current_points, :total_score, :wins, :draws, :losses, :status, :elimination_round)
	`
	updateTeamQuery = `
		UPDATE teams SET
			current_points = :current_points,
			total_score = :total_score,
			wins = :wins,
			draws = :draws,
			losses = :losses,
			status = :status,
			elimination_round = :elimination_round
		WHERE country = :country
	`
	leaderboardQuery = "SELECT * FROM teams ORDER BY total_score DESC, seed_rank ASC"
)

func NewTeamStore(db *sqlx.DB) *TeamStore {
	return &TeamStore{db: db}
}

func (s *TeamStore) CreateTeams(ctx context.Context, tx *sqlx.Tx, teams []tournament.Team) error {
	if len(teams) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, insertTeamQuery, teams)
	return err
}

func (s *TeamStore) UpdateTeam(ctx context.Context, tx *sqlx.Tx, team *tournament.Team) error {
	_, err := tx.NamedExecContext(ctx, updateTeamQuery, team)
	return err
}

func (s *TeamStore) GetTeam(ctx context.Context, country string) (*tournament.Team, error) {
	var team tournament.Team
	err := s.db.GetContext(ctx, &team, "SELECT * FROM teams WHERE country = ?", country)
	return &team, err
}

func (s *TeamStore) GetTeamTx(ctx context.Context, tx *sqlx.Tx, country string) (*tournament.Team, error) {
	var team tournament.Team
	err := tx.GetContext(ctx, &team, "SELECT * FROM teams WHERE country = ?", country)
	return &team, err
}

// Leaderboard orders by total score, breaking ties by seed so the order is
// stable across reads.
func (s *TeamStore) Leaderboard(ctx context.Context) ([]tournament.Team, error) {
	var teams []tournament.Team
	err := s.db.SelectContext(ctx, &teams, leaderboardQuery)
	return teams, err
}

func (s *TeamStore) ListByCountry(ctx context.Context) ([]tournament.Team, error) {
	var teams []tournament.Team
	err := s.db.SelectContext(ctx, &teams, "SELECT * FROM teams ORDER BY country ASC")
	return teams, err
}

func (s *TeamStore) ListTx(ctx context.Context, tx *sqlx.Tx) ([]tournament.Team, error) {
	var teams []tournament.Team
	err := tx.SelectContext(ctx, &teams, "SELECT * FROM teams ORDER BY seed_rank ASC")
	return teams, err
}

func (s *TeamStore) CountTeams(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM teams")
	return count, err
}

func (s *TeamStore) CountInPlay(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM teams WHERE status != ?", tournament.StatusEliminated)
	return count, err
}

func (s *TeamStore) CountInPlayTx(ctx context.Context, tx *sqlx.Tx) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM teams WHERE status != ?", tournament.StatusEliminated)
	return count, err
}

func (s *TeamStore) DeleteAll(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM teams")
	return err
}
