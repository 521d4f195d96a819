package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmarchant/cupscore/internal/tournament"
)

// Recorder is the slice of the match service the poller needs.
type Recorder interface {
	RecordWin(ctx context.Context, winner, loser string, winnerGoals, loserGoals *int) (string, error)
	RecordDraw(ctx context.Context, team1, team2 string, team1Goals, team2Goals *int) (string, error)
}

// RoundKeeper tracks and moves the current round as the API reports
// matches from later stages.
type RoundKeeper interface {
	CurrentRound(ctx context.Context) (tournament.Round, error)
	SetRound(ctx context.Context, label string, force bool) error
}

// Poller feeds finished API matches into the tournament exactly once each.
// Processed match IDs are persisted so restarts do not double-record.
type Poller struct {
	client    *Client
	recorder  Recorder
	rounds    RoundKeeper
	statePath string
	processed map[int]bool
	log       *slog.Logger
}

func NewPoller(client *Client, recorder Recorder, rounds RoundKeeper, statePath string) *Poller {
	p := &Poller{
		client:    client,
		recorder:  recorder,
		rounds:    rounds,
		statePath: statePath,
		processed: make(map[int]bool),
		log:       slog.Default().With("component", "scores-poller"),
	}
	p.loadProcessed()
	return p
}

func (p *Poller) loadProcessed() {
	raw, err := os.ReadFile(p.statePath)
	if err != nil {
		return
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		p.log.Warn("could not parse processed-match state, starting fresh", "path", p.statePath, "error", err)
		return
	}
	for _, id := range ids {
		p.processed[id] = true
	}
}

func (p *Poller) saveProcessed() error {
	ids := make([]int, 0, len(p.processed))
	for id := range p.processed {
		ids = append(ids, id)
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return os.WriteFile(p.statePath, raw, 0o644)
}

// ProcessMatch records one finished API match. It returns true when the
// result was applied, false when the match was skipped (not finished,
// already processed, or not resolvable).
func (p *Poller) ProcessMatch(ctx context.Context, m APIMatch) (bool, error) {
	if m.Status != statusFinished || p.processed[m.ID] {
		return false, nil
	}
	if m.Score.Winner == nil {
		return false, nil
	}

	home := NormalizeTeamName(m.HomeTeam.Name)
	away := NormalizeTeamName(m.AwayTeam.Name)

	round, known := StageRound(m.Stage)
	if !known {
		p.log.Warn("unknown stage, assuming group match", "stage", m.Stage, "match", m.ID)
	}
	if err := p.syncRound(ctx, round); err != nil {
		return false, err
	}

	var summary string
	var err error
	switch *m.Score.Winner {
	case "HOME_TEAM":
		summary, err = p.recorder.RecordWin(ctx, home, away, m.Score.FullTime.Home, m.Score.FullTime.Away)
	case "AWAY_TEAM":
		summary, err = p.recorder.RecordWin(ctx, away, home, m.Score.FullTime.Away, m.Score.FullTime.Home)
	case "DRAW":
		summary, err = p.recorder.RecordDraw(ctx, home, away, m.Score.FullTime.Home, m.Score.FullTime.Away)
	default:
		return false, fmt.Errorf("match %d: unexpected winner value %q", m.ID, *m.Score.Winner)
	}
	if err != nil {
		return false, fmt.Errorf("match %d (%s vs %s): %w", m.ID, home, away, err)
	}

	p.processed[m.ID] = true
	p.log.Info("recorded match", "match", m.ID, "summary", summary)
	return true, nil
}

// syncRound advances the tracked round when the API reports a match from a
// later stage. The transition is forced: the API already decided the
// bracket, so the team-count check would only get in the way.
func (p *Poller) syncRound(ctx context.Context, round tournament.Round) error {
	current, err := p.rounds.CurrentRound(ctx)
	if err != nil {
		return err
	}
	if round <= current {
		return nil
	}
	p.log.Info("advancing round", "from", current.String(), "to", round.String())
	return p.rounds.SetRound(ctx, round.String(), true)
}

// liveInterval is how often to poll while a match is in play.
const liveInterval = time.Minute

// RunOnce takes one snapshot, processes the new finished matches, and
// reports how many matches are currently live so the caller can poll
// faster while play is in progress.
func (p *Poller) RunOnce(ctx context.Context) (recorded, live int, err error) {
	finished, liveMatches, err := p.client.Snapshot(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, m := range finished {
		ok, err := p.ProcessMatch(ctx, m)
		if err != nil {
			// A single bad result (typically a team-name mismatch) must
			// not block the rest of the feed.
			p.log.Error("skipping match", "error", err)
			continue
		}
		if ok {
			recorded++
		}
	}

	if err := p.saveProcessed(); err != nil {
		p.log.Error("failed to persist processed-match state", "error", err)
	}
	return recorded, len(liveMatches), nil
}

// Run polls until the context is cancelled, dropping to liveInterval while
// matches are in play.
func (p *Poller) Run(ctx context.Context, interval time.Duration) error {
	for {
		recorded, live, err := p.RunOnce(ctx)
		switch {
		case errors.Is(err, ErrRateLimited):
			p.log.Warn("rate limited, backing off")
		case err != nil:
			p.log.Error("poll failed", "error", err)
		case recorded > 0 || live > 0:
			p.log.Info("poll complete", "recorded", recorded, "live", live)
		}

		wait := interval
		if live > 0 && liveInterval < interval {
			wait = liveInterval
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
