package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lmarchant/cupscore/internal/tournament"
)

type SelectionStore struct {
	db *sqlx.DB
}

const insertSelectionQuery = `
	INSERT INTO selections (id, user_name, team_countries, created_at)
	VALUES (:id, :user_name, :team_countries, :created_at)
`

func NewSelectionStore(db *sqlx.DB) *SelectionStore {
	return &SelectionStore{db: db}
}

func (s *SelectionStore) Create(ctx context.Context, selection *tournament.Selection) error {
	_, err := s.db.NamedExecContext(ctx, insertSelectionQuery, selection)
	return err
}

func (s *SelectionStore) GetByUserName(ctx context.Context, userName string) (*tournament.Selection, error) {
	var selection tournament.Selection
	err := s.db.GetContext(ctx, &selection, "SELECT * FROM selections WHERE user_name = ?", userName)
	return &selection, err
}

func (s *SelectionStore) List(ctx context.Context) ([]tournament.Selection, error) {
	var selections []tournament.Selection
	err := s.db.SelectContext(ctx, &selections, "SELECT * FROM selections ORDER BY created_at ASC")
	return selections, err
}
