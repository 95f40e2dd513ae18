/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mikeb26/franchise-cover/config"
	"github.com/mikeb26/franchise-cover/cover"
	"github.com/mikeb26/franchise-cover/internal"
	"github.com/mikeb26/franchise-cover/league"
	"github.com/mikeb26/franchise-cover/report"
	"github.com/mikeb26/franchise-cover/roster"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// app carries what every subcommand needs once flags and config are loaded.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *log.Logger
}

var flagBindings = map[string]string{
	"logging.level":      "log-level",
	"store.kind":         "store",
	"store.path":         "players",
	"report.max_players": "max-print",
	"report.verbose":     "verbose",
	"solver.time_limit":  "time-limit",
	"solver.greedy":      "greedy",
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "teamcover",
		Short: "Minimum set of players connecting every pair of franchises",
		Long: "teamcover reads player/franchise-pair records and selects the fewest\n" +
			"players whose careers together connect every pair of teams.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig(cmd, a.cfgFile, flagBindings)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = internal.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level, "teamcover")
			return nil
		},
	}

	d := config.Default()
	f := root.PersistentFlags()
	f.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./teamcover.yaml or $XDG_CONFIG_HOME/teamcover/teamcover.yaml)")
	f.String("log-level", d.Logging.Level, "log level: debug, info, warn, error")
	f.String("store", d.Store.Kind, "player record store: file, s3, redis")
	f.StringP("players", "p", d.Store.Path, "player records file (file store)")
	f.Int("max-print", d.Report.MaxPlayers, "list at most N selected players (0 = all)")
	f.BoolP("verbose", "v", false, "print every greedy step and each player's connections")

	root.AddCommand(newUniverseCmd(a))
	root.AddCommand(newGreedyCmd(a))
	root.AddCommand(newExactCmd(a))
	root.AddCommand(newCompareCmd(a))

	return root
}

func (a *app) universe() (*league.Universe, error) {
	return league.NewUniverse(a.cfg.Teams())
}

func (a *app) loadPlayers(ctx context.Context) (cover.Players, error) {
	store, err := roster.Open(ctx, a.cfg.Store, a.logger)
	if err != nil {
		return nil, err
	}
	players, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Info("loaded player records", "store", store, "players", len(players))
	return players, nil
}

// inputs loads the universe and the player records.
func (a *app) inputs(ctx context.Context) (cover.Players, *league.Universe, error) {
	u, err := a.universe()
	if err != nil {
		return nil, nil, fmt.Errorf("building universe: %w", err)
	}
	players, err := a.loadPlayers(ctx)
	if err != nil {
		return nil, nil, err
	}
	return players, u, nil
}

func (a *app) greedy(players cover.Players, u *league.Universe) cover.GreedyResult {
	if a.cfg.Solver.Greedy == "lazy" {
		return cover.LazyGreedy(players, u)
	}
	return cover.Greedy(players, u)
}

func (a *app) exact(ctx context.Context, players cover.Players,
	u *league.Universe) ([]cover.PlayerID, error) {

	sel, err := cover.Exact(ctx, players, u, cover.ExactOptions{
		TimeLimit: a.cfg.Solver.TimeLimit,
		Logger:    a.logger,
	})
	var timeout *cover.SolverTimeoutError
	if errors.As(err, &timeout) && timeout.Best != nil {
		a.logger.Warn("exact search stopped before proving optimality",
			"best", len(timeout.Best), "lowerBound", timeout.Bound, "nodes", timeout.Nodes)
	}
	return sel, err
}

func (a *app) reportOptions() report.Options {
	return report.Options{
		MaxPlayers: a.cfg.Report.MaxPlayers,
		Verbose:    a.cfg.Report.Verbose,
	}
}
