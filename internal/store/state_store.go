package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lmarchant/cupscore/internal/tournament"
)

type State struct {
	ID           int       `db:"id"`
	CurrentRound string    `db:"current_round"`
	LastUpdated  time.Time `db:"last_updated"`
}

type StateStore struct {
	db *sqlx.DB
}

const setRoundQuery = `
	INSERT INTO tournament_state (id, current_round, last_updated)
	VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		current_round = excluded.current_round,
		last_updated = excluded.last_updated
`

func NewStateStore(db *sqlx.DB) *StateStore {
	return &StateStore{db: db}
}

// CurrentRound defaults to the Group Stage when no state row exists yet.
func (s *StateStore) CurrentRound(ctx context.Context) (tournament.Round, error) {
	var state State
	err := s.db.GetContext(ctx, &state, "SELECT * FROM tournament_state WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return tournament.GroupStage, nil
	}
	if err != nil {
		return 0, err
	}
	return tournament.ParseRound(state.CurrentRound)
}

func (s *StateStore) CurrentRoundTx(ctx context.Context, tx *sqlx.Tx) (tournament.Round, error) {
	var state State
	err := tx.GetContext(ctx, &state, "SELECT * FROM tournament_state WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return tournament.GroupStage, nil
	}
	if err != nil {
		return 0, err
	}
	return tournament.ParseRound(state.CurrentRound)
}

func (s *StateStore) SetRound(ctx context.Context, tx *sqlx.Tx, round tournament.Round) error {
	_, err := tx.ExecContext(ctx, setRoundQuery, round.String(), time.Now().UTC())
	return err
}

func (s *StateStore) LastUpdated(ctx context.Context) (time.Time, error) {
	var state State
	err := s.db.GetContext(ctx, &state, "SELECT * FROM tournament_state WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	return state.LastUpdated, err
}

func (s *StateStore) DeleteAll(ctx context.Context, tx *sqlx.Tx) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM tournament_state")
	return err
}
