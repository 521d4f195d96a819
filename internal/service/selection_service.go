package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lmarchant/cupscore/internal/store"
	"github.com/lmarchant/cupscore/internal/tournament"
)

var (
	ErrSelectionExists = errors.New("user already has a selection")
	ErrSelectionSize   = errors.New("a selection must pick 3 or 4 teams")
	ErrUserNameMissing = errors.New("user name required")
)

// SelectionService runs the side competition: visitors pick a handful of
// teams and ride their combined total score.
type SelectionService struct {
	selections *store.SelectionStore
	teams      *store.TeamStore
}

func NewSelectionService(db *sqlx.DB) *SelectionService {
	return &SelectionService{
		selections: store.NewSelectionStore(db),
		teams:      store.NewTeamStore(db),
	}
}

func (s *SelectionService) CreateSelection(ctx context.Context, userName string, countries []string) error {
	if userName == "" {
		return ErrUserNameMissing
	}
	if len(countries) < tournament.SelectionMinTeams || len(countries) > tournament.SelectionMaxTeams {
		return ErrSelectionSize
	}
	for _, country := range countries {
		if _, err := s.teams.GetTeam(ctx, country); errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%q: %w", country, tournament.ErrUnknownTeam)
		} else if err != nil {
			return err
		}
	}
	if _, err := s.selections.GetByUserName(ctx, userName); err == nil {
		return ErrSelectionExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	selection := &tournament.Selection{
		ID:        uuid.New(),
		UserName:  userName,
		CreatedAt: time.Now().UTC(),
	}
	if err := selection.SetTeams(countries); err != nil {
		return err
	}
	return s.selections.Create(ctx, selection)
}

type SelectionScore struct {
	UserName   string
	Teams      []tournament.Team
	TotalScore float64
	CreatedAt  time.Time
}

// Scoreboard returns every selection with its current combined score,
// highest first.
func (s *SelectionService) Scoreboard(ctx context.Context) ([]SelectionScore, error) {
	selections, err := s.selections.List(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.teams.ListByCountry(ctx)
	if err != nil {
		return nil, err
	}
	byCountry := make(map[string]tournament.Team, len(teams))
	for _, team := range teams {
		byCountry[team.Country] = team
	}

	scores := make([]SelectionScore, 0, len(selections))
	for _, selection := range selections {
		score := SelectionScore{UserName: selection.UserName, CreatedAt: selection.CreatedAt}
		for _, country := range selection.Teams() {
			if team, ok := byCountry[country]; ok {
				score.Teams = append(score.Teams, team)
				score.TotalScore += team.TotalScore
			}
		}
		scores = append(scores, score)
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].TotalScore > scores[j].TotalScore })
	return scores, nil
}
