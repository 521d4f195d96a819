// Package scores pulls finished results from the Football-Data.org v4 API
// and feeds them into the tournament, so the tracker follows the real
// matches without manual entry.
package scores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBaseURL  = "https://api.football-data.org/v4"
	competitionCode = "WC"

	statusFinished = "FINISHED"
	statusLive     = "LIVE,IN_PLAY,PAUSED"
)

var ErrRateLimited = errors.New("football-data API rate limit hit")

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL exists for tests pointed at a local server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type TeamRef struct {
	Name string `json:"name"`
}

type FullTime struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type Score struct {
	Winner   *string  `json:"winner"`
	FullTime FullTime `json:"fullTime"`
}

type APIMatch struct {
	ID       int       `json:"id"`
	Status   string    `json:"status"`
	Stage    string    `json:"stage"`
	UTCDate  time.Time `json:"utcDate"`
	HomeTeam TeamRef   `json:"homeTeam"`
	AwayTeam TeamRef   `json:"awayTeam"`
	Score    Score     `json:"score"`
}

type matchesResponse struct {
	Matches []APIMatch `json:"matches"`
}

type Competition struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	CurrentSeason struct {
		CurrentMatchday int `json:"currentMatchday"`
	} `json:"currentSeason"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Auth-Token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("football-data API %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// Matches lists World Cup matches, optionally filtered by status.
func (c *Client) Matches(ctx context.Context, status string) ([]APIMatch, error) {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	var out matchesResponse
	if err := c.get(ctx, "/competitions/"+competitionCode+"/matches", params, &out); err != nil {
		return nil, err
	}
	return out.Matches, nil
}

func (c *Client) FinishedMatches(ctx context.Context) ([]APIMatch, error) {
	return c.Matches(ctx, statusFinished)
}

func (c *Client) LiveMatches(ctx context.Context) ([]APIMatch, error) {
	return c.Matches(ctx, statusLive)
}

func (c *Client) Competition(ctx context.Context) (*Competition, error) {
	var out Competition
	if err := c.get(ctx, "/competitions/"+competitionCode, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Snapshot fetches finished and live matches in parallel. The poller takes
// one per cycle and polls faster while anything is live.
func (c *Client) Snapshot(ctx context.Context) (finished, live []APIMatch, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		finished, err = c.FinishedMatches(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		live, err = c.LiveMatches(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return finished, live, nil
}
