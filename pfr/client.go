/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package pfr collects, for every pair of franchises, the players listed on
// pro-football-reference's "players who played for multiple franchises"
// page.
package pfr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gregjones/httpcache"
	"github.com/mikeb26/franchise-cover/config"
	"github.com/mikeb26/franchise-cover/cover"
	"github.com/mikeb26/franchise-cover/internal"
	"github.com/mikeb26/franchise-cover/league"
)

const PairPath = "/friv/players-who-played-for-multiple-teams-franchises.fcgi"

// ErrRateLimited is returned once a page has answered 429 more times than
// the client retries.
var ErrRateLimited = errors.New("pfr: rate limited")

type Client struct {
	httpClient *http.Client
	baseURL    string
	cfg        config.ScrapeConfig
	logger     *log.Logger

	// cached is true when the previous response came from the http cache;
	// only origin fetches are paced
	cached  bool
	started bool
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client whose responses are cached for
// cfg.CacheMaxAge, in S3 when cfg.CacheBucket is set.
func NewClient(ctx context.Context, cfg config.ScrapeConfig, logger *log.Logger) *Client {
	if logger == nil {
		logger = internal.DiscardLogger()
	}
	return &Client{
		httpClient: internal.NewCachedHttpClient(ctx, cfg.CacheBucket, cfg.CacheMaxAge, logger),
		baseURL:    cfg.BaseURL,
		cfg:        cfg,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

// PairURL returns the page listing the players of franchises a and b.
func (client *Client) PairURL(a, b league.Team) string {
	return PairURL(client.baseURL, a, b)
}

func PairURL(baseURL string, a, b league.Team) string {
	q := url.Values{}
	q.Set("level", "franch")
	q.Set("t1", string(a))
	q.Set("t2", string(b))
	q.Set("t3", "--")
	q.Set("t4", "--")
	return baseURL + PairPath + "?" + q.Encode()
}

// FetchPair returns the ids of every player who appeared for both a and b.
func (client *Client) FetchPair(ctx context.Context, a, b league.Team) ([]cover.PlayerID, error) {
	endpoint := client.PairURL(a, b)

	for attempt := 0; ; attempt++ {
		if err := client.pace(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("pfr.fetch: creating request: %w", err)
		}
		req.Header.Set("User-Agent", internal.UserAgent)

		resp, err := client.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("pfr.fetch: GET %v: %w", endpoint, err)
		}
		client.started = true
		client.cached = resp.Header.Get(httpcache.XFromCache) == "1"

		switch resp.StatusCode {
		case http.StatusOK:
			ids, err := ParsePairPage(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("pfr.fetch: %v-%v: %w", a, b, err)
			}
			return ids, nil
		case http.StatusTooManyRequests:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if attempt >= client.cfg.MaxRetries {
				return nil, fmt.Errorf("pfr.fetch: %v-%v after %d attempts: %w",
					a, b, attempt+1, ErrRateLimited)
			}
			backoff := jitter(client.cfg.RateLimitDelay, client.cfg.RateLimitDelay/2)
			client.logger.Warn("pfr: rate limit hit; backing off",
				"pair", league.Connect(a, b), "sleep", backoff)
			if err := client.sleep(ctx, backoff); err != nil {
				return nil, err
			}
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return nil, fmt.Errorf("pfr.fetch: %v-%v: unexpected status %d: %s",
				a, b, resp.StatusCode, string(body))
		}
	}
}

// Progress reports one finished pair.
type Progress struct {
	Connection league.Connection
	Done       int
	Total      int
	Found      int
	Players    int
	Err        error
}

// Collect fetches every pair of u and accumulates the players found. A pair
// that fails is logged, reported through progress and skipped; only
// cancellation of ctx aborts the collection.
func (client *Client) Collect(ctx context.Context, u *league.Universe,
	progress func(Progress)) (cover.Players, error) {

	players := make(cover.Players)
	teams := u.Teams()
	done := 0
	for i := 0; i < len(teams)-1; i++ {
		for j := i + 1; j < len(teams); j++ {
			conn := league.Connect(teams[i], teams[j])
			ids, err := client.FetchPair(ctx, teams[i], teams[j])
			if ctx.Err() != nil {
				return players, ctx.Err()
			}
			done++
			if err != nil {
				client.logger.Error("pfr: skipping pair", "pair", conn, "err", err)
			}
			for _, id := range ids {
				players.Add(id, conn)
			}
			client.logger.Debug("pfr: pair done", "pair", conn, "found", len(ids),
				"players", len(players))
			if progress != nil {
				progress(Progress{
					Connection: conn,
					Done:       done,
					Total:      u.Len(),
					Found:      len(ids),
					Players:    len(players),
					Err:        err,
				})
			}
		}
	}

	return players, nil
}

func (client *Client) pace(ctx context.Context) error {
	if !client.started || client.cached {
		return ctx.Err()
	}
	spread := client.cfg.MaxDelay - client.cfg.MinDelay
	return client.sleep(ctx, jitter(client.cfg.MinDelay, spread))
}

// jitter returns a duration in [base, base+spread].
func jitter(base, spread time.Duration) time.Duration {
	if spread <= 0 {
		return base
	}
	return base + rand.N(spread+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
