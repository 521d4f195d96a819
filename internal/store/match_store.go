package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lmarchant/cupscore/internal/tournament"
)

type MatchStore struct {
	db *sqlx.DB
}

const insertMatchQuery = `
	INSERT INTO matches (match_number, match_type, round_name, team1, team2, winner,
		points_earned, team1_earned, team2_earned, team1_goals, team2_goals, recorded_at)
	VALUES (:match_number, :match_type, :round_name, :team1, :team2, :winner,
		:points_earned, :team1_earned, :team2_earned, :team1_goals, :team2_goals, :recorded_at)
`

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{db: db}
}

func (s *MatchStore) Insert(ctx context.Context, tx *sqlx.Tx, match *tournament.Match) error {
	_, err := tx.NamedExecContext(ctx, insertMatchQuery, match)
	return err
}

// Last returns the most recent ledger entry; sql.ErrNoRows when the ledger
// is empty.
func (s *MatchStore) LastTx(ctx context.Context, tx *sqlx.Tx) (*tournament.Match, error) {
	var match tournament.Match
	err := tx.GetContext(ctx, &match, "SELECT * FROM matches ORDER BY match_number DESC LIMIT 1")
	return &match, err
}

func (s *MatchStore) Delete(ctx context.Context, tx *sqlx.Tx, matchNumber int) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE match_number = ?", matchNumber)
	return err
}

func (s *MatchStore) List(ctx context.Context) ([]tournament.Match, error) {
	var matches []tournament.Match
	err := s.db.SelectContext(ctx, &matches, "SELECT * FROM matches ORDER BY match_number DESC")
	return matches, err
}

func (s *MatchStore) ListAscTx(ctx context.Context, tx *sqlx.Tx) ([]tournament.Match, error) {
	var matches []tournament.Match
	err := tx.SelectContext(ctx, &matches, "SELECT * FROM matches ORDER BY match_number ASC")
	return matches, err
}

func (s *MatchStore) ListByTeam(ctx context.Context, country string) ([]tournament.Match, error) {
	var matches []tournament.Match
	err := s.db.SelectContext(ctx, &matches,
		"SELECT * FROM matches WHERE team1 = ? OR team2 = ? ORDER BY match_number DESC", country, country)
	return matches, err
}

func (s *MatchStore) ListKnockout(ctx context.Context) ([]tournament.Match, error) {
	var matches []tournament.Match
	err := s.db.SelectContext(ctx, &matches,
		"SELECT * FROM matches WHERE round_name != ? ORDER BY match_number ASC", tournament.GroupStage.String())
	return matches, err
}

func (s *MatchStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM matches")
	return count, err
}

func (s *MatchStore) CountTx(ctx context.Context, tx *sqlx.Tx) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM matches")
	return count, err
}

func (s *MatchStore) CountByRoundTx(ctx context.Context, tx *sqlx.Tx, roundLabel string) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count, "SELECT COUNT(*) FROM matches WHERE round_name = ?", roundLabel)
	return count, err
}

func (s *MatchStore) DeleteAll(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM matches")
	return err
}
