package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lmarchant/cupscore/internal/store"
	"github.com/lmarchant/cupscore/internal/tournament"
)

// MatchService is the write side of the tournament: it records results,
// keeps the ledger, and undoes the most recent entry. Every mutation runs
// in a single transaction so a failed precondition leaves nothing behind.
type MatchService struct {
	db      *sqlx.DB
	teams   *store.TeamStore
	matches *store.MatchStore
	state   *store.StateStore
}

func NewMatchService(db *sqlx.DB) *MatchService {
	return &MatchService{
		db:      db,
		teams:   store.NewTeamStore(db),
		matches: store.NewMatchStore(db),
		state:   store.NewStateStore(db),
	}
}

func (s *MatchService) RecordWin(ctx context.Context, winnerName, loserName string, winnerGoals, loserGoals *int) (string, error) {
	if winnerName == loserName {
		return "", tournament.ErrSameTeam
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	round, err := s.state.CurrentRoundTx(ctx, tx)
	if err != nil {
		return "", err
	}

	winner, err := s.getTeam(ctx, tx, winnerName)
	if err != nil {
		return "", err
	}
	loser, err := s.getTeam(ctx, tx, loserName)
	if err != nil {
		return "", err
	}
	if winner.Eliminated() {
		return "", fmt.Errorf("%s: %w", winnerName, tournament.ErrAlreadyEliminated)
	}
	if loser.Eliminated() {
		return "", fmt.Errorf("%s: %w", loserName, tournament.ErrAlreadyEliminated)
	}

	earned, err := tournament.ApplyWin(round, winner, loser)
	if err != nil {
		return "", err
	}

	count, err := s.matches.CountTx(ctx, tx)
	if err != nil {
		return "", err
	}

	entry := &tournament.Match{
		MatchNumber:  count + 1,
		Type:         tournament.MatchWin,
		Round:        round.String(),
		Team1:        winner.Country,
		Team2:        loser.Country,
		Winner:       &winner.Country,
		PointsEarned: earned,
		Team1Goals:   winnerGoals,
		Team2Goals:   loserGoals,
		RecordedAt:   time.Now().UTC(),
	}
	if err := s.matches.Insert(ctx, tx, entry); err != nil {
		return "", err
	}
	if err := s.teams.UpdateTeam(ctx, tx, winner); err != nil {
		return "", err
	}
	if err := s.teams.UpdateTeam(ctx, tx, loser); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	return winSummary(round, winner, loser, earned), nil
}

func (s *MatchService) RecordDraw(ctx context.Context, team1Name, team2Name string, team1Goals, team2Goals *int) (string, error) {
	if team1Name == team2Name {
		return "", tournament.ErrSameTeam
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	round, err := s.state.CurrentRoundTx(ctx, tx)
	if err != nil {
		return "", err
	}

	team1, err := s.getTeam(ctx, tx, team1Name)
	if err != nil {
		return "", err
	}
	team2, err := s.getTeam(ctx, tx, team2Name)
	if err != nil {
		return "", err
	}
	if team1.Eliminated() {
		return "", fmt.Errorf("%s: %w", team1Name, tournament.ErrAlreadyEliminated)
	}
	if team2.Eliminated() {
		return "", fmt.Errorf("%s: %w", team2Name, tournament.ErrAlreadyEliminated)
	}

	team1Earned, team2Earned, err := tournament.ApplyDraw(round, team1, team2)
	if err != nil {
		return "", err
	}

	count, err := s.matches.CountTx(ctx, tx)
	if err != nil {
		return "", err
	}

	entry := &tournament.Match{
		MatchNumber: count + 1,
		Type:        tournament.MatchDraw,
		Round:       round.String(),
		Team1:       team1.Country,
		Team2:       team2.Country,
		Team1Earned: &team1Earned,
		Team2Earned: &team2Earned,
		Team1Goals:  team1Goals,
		Team2Goals:  team2Goals,
		RecordedAt:  time.Now().UTC(),
	}
	if err := s.matches.Insert(ctx, tx, entry); err != nil {
		return "", err
	}
	if err := s.teams.UpdateTeam(ctx, tx, team1); err != nil {
		return "", err
	}
	if err := s.teams.UpdateTeam(ctx, tx, team2); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	return fmt.Sprintf("↔ %s drew with %s\n%s earned: %.1f points\n%s earned: %.1f points",
		team1.Country, team2.Country, team1.Country, team1Earned, team2.Country, team2Earned), nil
}

// UndoLast reverses the most recent ledger entry and deletes it. A win in a
// knockout round needs the rest of the ledger to reconstruct overwritten
// stakes, so the full history is loaded inside the same transaction.
func (s *MatchService) UndoLast(ctx context.Context) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	last, err := s.matches.LastTx(ctx, tx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", tournament.ErrNothingToUndo
	}
	if err != nil {
		return "", err
	}

	var summary string

	if last.Type == tournament.MatchDraw {
		team1, err := s.getTeam(ctx, tx, last.Team1)
		if err != nil {
			return "", err
		}
		team2, err := s.getTeam(ctx, tx, last.Team2)
		if err != nil {
			return "", err
		}
		if err := tournament.UndoDraw(last, team1, team2); err != nil {
			return "", err
		}
		if err := s.teams.UpdateTeam(ctx, tx, team1); err != nil {
			return "", err
		}
		if err := s.teams.UpdateTeam(ctx, tx, team2); err != nil {
			return "", err
		}
		summary = fmt.Sprintf("↶ Undid draw between %s and %s", team1.Country, team2.Country)
	} else {
		if last.Winner == nil {
			return "", fmt.Errorf("%w: win entry %d has no winner", tournament.ErrUndoReconstruction, last.MatchNumber)
		}
		winner, err := s.getTeam(ctx, tx, *last.Winner)
		if err != nil {
			return "", err
		}
		loser, err := s.getTeam(ctx, tx, last.Loser())
		if err != nil {
			return "", err
		}

		all, err := s.matches.ListAscTx(ctx, tx)
		if err != nil {
			return "", err
		}
		history := make([]*tournament.Match, 0, len(all))
		for i := range all {
			if all[i].MatchNumber < last.MatchNumber {
				history = append(history, &all[i])
			}
		}

		if err := tournament.UndoWin(last, winner, loser, history); err != nil {
			return "", err
		}
		if err := s.teams.UpdateTeam(ctx, tx, winner); err != nil {
			return "", err
		}
		if err := s.teams.UpdateTeam(ctx, tx, loser); err != nil {
			return "", err
		}

		summary = fmt.Sprintf("↶ Undid: %s defeated %s", winner.Country, loser.Country)
		if last.Round != tournament.GroupStage.String() {
			summary += fmt.Sprintf("\n%s restored to tournament", loser.Country)
		}
	}

	if err := s.matches.Delete(ctx, tx, last.MatchNumber); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return summary, nil
}

func (s *MatchService) getTeam(ctx context.Context, tx *sqlx.Tx, country string) (*tournament.Team, error) {
	team, err := s.teams.GetTeamTx(ctx, tx, country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", country, tournament.ErrUnknownTeam)
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

func winSummary(round tournament.Round, winner, loser *tournament.Team, earned float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s defeated %s\n", winner.Country, loser.Country)
	fmt.Fprintf(&b, "Points earned: %s\n", formatPoints(earned))
	fmt.Fprintf(&b, "%s's total score: %.1f", winner.Country, winner.TotalScore)

	switch round {
	case tournament.RoundOf32, tournament.RoundOf16, tournament.QuarterFinals:
		fmt.Fprintf(&b, "\n%s's new point value: %s", winner.Country, formatPoints(winner.CurrentPoints))
		fmt.Fprintf(&b, "\n%s has been ELIMINATED", loser.Country)
	case tournament.SemiFinals:
		fmt.Fprintf(&b, "\n%s's new point value: %s", winner.Country, formatPoints(winner.CurrentPoints))
		fmt.Fprintf(&b, "\n%s available for Third Place match", loser.Country)
	case tournament.ThirdPlace:
		fmt.Fprintf(&b, "\n%s takes 3rd place, %s takes 4th", winner.Country, loser.Country)
	case tournament.Final:
		fmt.Fprintf(&b, "\n%s is the CHAMPION", winner.Country)
	}
	return b.String()
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
