/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// pfrscrape builds the player records teamcover reads by visiting the
// pro-football-reference page of every pair of franchises. Responses are
// kept in an http cache (S3 when scrape.cache_bucket is set) so a rerun
// only goes to the origin for pages it has not seen.
//
// Usage:
//
//	pfrscrape [--out FILE] [--store file|s3|redis] [--cache-bucket BUCKET] [--allow-partial]
//
// A run in which any pair fails leaves the store untouched unless
// --allow-partial is given; a run in which every pair fails never saves.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/mikeb26/franchise-cover/config"
	"github.com/mikeb26/franchise-cover/internal"
	"github.com/mikeb26/franchise-cover/league"
	"github.com/mikeb26/franchise-cover/pfr"
	"github.com/mikeb26/franchise-cover/roster"
	"github.com/spf13/cobra"
)

var flagBindings = map[string]string{
	"logging.level":        "log-level",
	"store.kind":           "store",
	"store.path":           "out",
	"scrape.base_url":      "base-url",
	"scrape.cache_bucket":  "cache-bucket",
	"scrape.allow_partial": "allow-partial",
}

var errIncomplete = errors.New("incomplete scrape")

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "pfrscrape",
		Short:        "Collect player/franchise-pair records from pro-football-reference",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig(cmd, cfgFile, flagBindings)
			if err != nil {
				return err
			}
			logger := internal.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level, "pfrscrape")
			return scrape(cmd, cfg, logger)
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.StringVarP(&cfgFile, "config", "c", "", "config file (default ./teamcover.yaml or $XDG_CONFIG_HOME/teamcover/teamcover.yaml)")
	f.String("log-level", d.Logging.Level, "log level: debug, info, warn, error")
	f.String("store", d.Store.Kind, "where to save the records: file, s3, redis")
	f.StringP("out", "o", d.Store.Path, "output file (file store)")
	f.String("base-url", d.Scrape.BaseURL, "site to scrape")
	f.String("cache-bucket", d.Scrape.CacheBucket, "S3 bucket for the http cache (empty = in-memory)")
	f.Bool("allow-partial", d.Scrape.AllowPartial, "save the records even if some pairs could not be fetched")

	return cmd
}

func scrape(cmd *cobra.Command, cfg *config.Config, logger *log.Logger) error {
	ctx := cmd.Context()

	u, err := league.NewUniverse(cfg.Teams())
	if err != nil {
		return fmt.Errorf("building universe: %w", err)
	}
	// open the store first so a bad destination fails before hours of fetching
	store, err := roster.Open(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}

	client := pfr.NewClient(ctx, cfg.Scrape, logger)
	out := cmd.OutOrStdout()
	failed := 0
	players, err := client.Collect(ctx, u, func(p pfr.Progress) {
		if p.Err != nil {
			failed++
			return
		}
		fmt.Fprintf(out, "[%d/%d] Connections for %v: %d players found. Total players: %d\n",
			p.Done, p.Total, p.Connection, p.Found, p.Players)
	})
	if err != nil {
		// a partial collection would silently shrink the saved records
		return fmt.Errorf("scrape aborted; %v left unchanged: %w", store, err)
	}
	switch {
	case failed > 0 && failed == u.Len():
		return fmt.Errorf("%w: all %d pairs failed; %v left unchanged",
			errIncomplete, failed, store)
	case failed > 0 && !cfg.Scrape.AllowPartial:
		return fmt.Errorf("%w: %d of %d pairs failed; %v left unchanged (rerun, or pass --allow-partial)",
			errIncomplete, failed, u.Len(), store)
	case failed > 0:
		logger.Warn("saving partial records", "failed", failed, "total", u.Len())
	}

	if err := store.Save(ctx, players); err != nil {
		return err
	}
	logger.Info("saved player records", "store", store, "players", len(players))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
