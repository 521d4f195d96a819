package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lmarchant/cupscore/internal/store"
	"github.com/lmarchant/cupscore/internal/tournament"
)

// TournamentService owns the tournament lifecycle: seeding, round
// transitions, the group-to-knockout advancement, and the read queries the
// pages are built from.
type TournamentService struct {
	db      *sqlx.DB
	teams   *store.TeamStore
	matches *store.MatchStore
	state   *store.StateStore
	scoring tournament.ScoringParams
}

func NewTournamentService(db *sqlx.DB, scoring tournament.ScoringParams) *TournamentService {
	return &TournamentService{
		db:      db,
		teams:   store.NewTeamStore(db),
		matches: store.NewMatchStore(db),
		state:   store.NewStateStore(db),
		scoring: scoring,
	}
}

// SeedTeam is one roster row, already ordered by FIFA rank: the position in
// the slice decides the tournament seed.
type SeedTeam struct {
	Country       string
	FIFARank      int
	Confederation string
}

// Initialize wipes every record and rebuilds the tournament from the
// roster. Teams are seeded 1..N in roster order and start at the Group
// Stage with their decay-formula point value.
func (s *TournamentService) Initialize(ctx context.Context, roster []SeedTeam) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := s.matches.DeleteAll(ctx, tx); err != nil {
		return 0, err
	}
	if err := s.teams.DeleteAll(ctx, tx); err != nil {
		return 0, err
	}

	teams := make([]tournament.Team, 0, len(roster))
	for i, entry := range roster {
		rank := i + 1
		base := s.scoring.StartingPoints(rank)
		teams = append(teams, tournament.Team{
			Country:       entry.Country,
			FIFARank:      entry.FIFARank,
			SeedRank:      rank,
			Confederation: entry.Confederation,
			BasePoints:    base,
			CurrentPoints: float64(base),
			Status:        tournament.StatusActive,
		})
	}
	if err := s.teams.CreateTeams(ctx, tx, teams); err != nil {
		return 0, err
	}
	if err := s.state.SetRound(ctx, tx, tournament.GroupStage); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(teams), nil
}

// AdvanceToKnockout closes the group stage: everything not on the advancing
// list is out, everyone on it carries its total score (floored at 1, so a
// scoreless advancer is still worth something) into the Round of 32.
// Preconditions are checked in order and nothing changes if any fails.
func (s *TournamentService) AdvanceToKnockout(ctx context.Context, advancing []string) (string, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	round, err := s.state.CurrentRoundTx(ctx, tx)
	if err != nil {
		return "", err
	}
	if round != tournament.GroupStage {
		return "", fmt.Errorf("advancement is only possible from the Group Stage: %w", tournament.ErrInvalidRound)
	}

	played, err := s.matches.CountByRoundTx(ctx, tx, tournament.GroupStage.String())
	if err != nil {
		return "", err
	}
	if played != tournament.GroupMatchCount {
		return "", fmt.Errorf("%w: %d of %d group matches recorded", tournament.ErrGroupStageIncomplete, played, tournament.GroupMatchCount)
	}

	advancingSet := make(map[string]bool, len(advancing))
	for _, country := range advancing {
		advancingSet[country] = true
	}
	if len(advancing) != tournament.AdvancingTeamCount || len(advancingSet) != tournament.AdvancingTeamCount {
		return "", fmt.Errorf("%w: got %d distinct teams, need %d", tournament.ErrAdvancingCountMismatch, len(advancingSet), tournament.AdvancingTeamCount)
	}

	teams, err := s.teams.ListTx(ctx, tx)
	if err != nil {
		return "", err
	}
	byCountry := make(map[string]*tournament.Team, len(teams))
	for i := range teams {
		byCountry[teams[i].Country] = &teams[i]
	}
	for country := range advancingSet {
		if _, ok := byCountry[country]; !ok {
			return "", fmt.Errorf("%q: %w", country, tournament.ErrUnknownTeam)
		}
	}

	for i := range teams {
		team := &teams[i]
		if advancingSet[team.Country] {
			team.CurrentPoints = math.Max(1, team.TotalScore)
		} else {
			team.Status = tournament.StatusEliminated
			team.EliminationRound = tournament.GroupStage.String()
			team.CurrentPoints = 0
		}
		if err := s.teams.UpdateTeam(ctx, tx, team); err != nil {
			return "", err
		}
	}

	// The 32-team count was verified through the list itself, so the round
	// capacity check is bypassed here.
	if err := s.state.SetRound(ctx, tx, tournament.RoundOf32); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	eliminated := len(teams) - len(advancing)
	return fmt.Sprintf("Advanced to Round of 32\n%d teams advancing\n%d teams eliminated from Group Stage",
		len(advancing), eliminated), nil
}

// SetRound moves the tournament to the named round. Unless forced, the
// number of teams still in play must fit the round.
func (s *TournamentService) SetRound(ctx context.Context, label string, force bool) error {
	round, err := tournament.ParseRound(label)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if !force {
		inPlay, err := s.teams.CountInPlayTx(ctx, tx)
		if err != nil {
			return err
		}
		if inPlay > round.Capacity() {
			return fmt.Errorf("%w: %d teams in play, %s allows %d", tournament.ErrRoundCapacityExceeded, inPlay, round, round.Capacity())
		}
	}

	if err := s.state.SetRound(ctx, tx, round); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *TournamentService) CurrentRound(ctx context.Context) (tournament.Round, error) {
	return s.state.CurrentRound(ctx)
}

func (s *TournamentService) LastUpdated(ctx context.Context) (time.Time, error) {
	return s.state.LastUpdated(ctx)
}

type LeaderboardOptions struct {
	TopN           int
	ActiveOnly     bool
	EliminatedOnly bool
}

func (s *TournamentService) Leaderboard(ctx context.Context, opts LeaderboardOptions) ([]tournament.Team, error) {
	teams, err := s.teams.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}

	if opts.ActiveOnly || opts.EliminatedOnly {
		filtered := teams[:0]
		for _, team := range teams {
			if opts.ActiveOnly && !team.Eliminated() || opts.EliminatedOnly && team.Eliminated() {
				filtered = append(filtered, team)
			}
		}
		teams = filtered
	}

	if opts.TopN > 0 && opts.TopN < len(teams) {
		teams = teams[:opts.TopN]
	}
	return teams, nil
}

// ActiveTeams lists every team still in play, semi-final losers waiting on
// the third place match included, ordered by country for the match forms.
func (s *TournamentService) ActiveTeams(ctx context.Context) ([]tournament.Team, error) {
	teams, err := s.teams.ListByCountry(ctx)
	if err != nil {
		return nil, err
	}
	active := teams[:0]
	for _, team := range teams {
		if team.InPlay() {
			active = append(active, team)
		}
	}
	return active, nil
}

func (s *TournamentService) AllTeams(ctx context.Context) ([]tournament.Team, error) {
	return s.teams.ListByCountry(ctx)
}

func (s *TournamentService) MatchHistory(ctx context.Context) ([]tournament.Match, error) {
	return s.matches.List(ctx)
}

func (s *TournamentService) TeamDetail(ctx context.Context, country string) (*tournament.Team, []tournament.Match, error) {
	team, err := s.teams.GetTeam(ctx, country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%q: %w", country, tournament.ErrUnknownTeam)
	}
	if err != nil {
		return nil, nil, err
	}
	matches, err := s.matches.ListByTeam(ctx, country)
	if err != nil {
		return nil, nil, err
	}
	return team, matches, nil
}

// KnockoutBracket groups knockout results by round, in play order.
func (s *TournamentService) KnockoutBracket(ctx context.Context) (map[string][]tournament.Match, error) {
	matches, err := s.matches.ListKnockout(ctx)
	if err != nil {
		return nil, err
	}
	bracket := make(map[string][]tournament.Match)
	for _, match := range matches {
		bracket[match.Round] = append(bracket[match.Round], match)
	}
	return bracket, nil
}

type Counts struct {
	Teams   int
	Active  int
	Matches int
}

func (s *TournamentService) DashboardCounts(ctx context.Context) (Counts, error) {
	total, err := s.teams.CountTeams(ctx)
	if err != nil {
		return Counts{}, err
	}
	active, err := s.teams.CountInPlay(ctx)
	if err != nil {
		return Counts{}, err
	}
	matches, err := s.matches.Count(ctx)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Teams: total, Active: active, Matches: matches}, nil
}

type ConfederationStat struct {
	Confederation string
	TotalTeams    int
	ActiveTeams   int
	Eliminated    int
	TotalScore    float64
	AverageScore  float64
}

func (s *TournamentService) ConfederationStats(ctx context.Context) ([]ConfederationStat, error) {
	teams, err := s.teams.ListByCountry(ctx)
	if err != nil {
		return nil, err
	}

	byConf := make(map[string]*ConfederationStat)
	for _, team := range teams {
		stat, ok := byConf[team.Confederation]
		if !ok {
			stat = &ConfederationStat{Confederation: team.Confederation}
			byConf[team.Confederation] = stat
		}
		stat.TotalTeams++
		if team.InPlay() {
			stat.ActiveTeams++
		} else {
			stat.Eliminated++
		}
		stat.TotalScore += team.TotalScore
	}

	stats := make([]ConfederationStat, 0, len(byConf))
	for _, stat := range byConf {
		stat.AverageScore = stat.TotalScore / float64(stat.TotalTeams)
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].TotalScore > stats[j].TotalScore })
	return stats, nil
}
