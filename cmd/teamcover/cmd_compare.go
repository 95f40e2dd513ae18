/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"github.com/mikeb26/franchise-cover/config"
	"github.com/mikeb26/franchise-cover/cover"
	"github.com/mikeb26/franchise-cover/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the greedy and exact solvers side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, u, err := a.inputs(cmd.Context())
			if err != nil {
				return err
			}

			var greedy cover.GreedyResult
			var exact []cover.PlayerID
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				greedy = a.greedy(players, u)
				return nil
			})
			g.Go(func() error {
				var err error
				exact, err = a.exact(ctx, players, u)
				return err
			})
			exactErr := g.Wait()

			// the greedy result stands on its own when the exact solve fails
			out := cmd.OutOrStdout()
			opts := a.reportOptions()
			if err := report.Greedy(out, greedy, players, opts); err != nil {
				return err
			}
			if exactErr != nil {
				return exactErr
			}
			if err := report.Exact(out, exact, players, opts); err != nil {
				return err
			}
			return report.Compare(out, greedy, exact)
		},
	}
	cmd.Flags().Duration("time-limit", config.Default().Solver.TimeLimit, "abort the exact search after this long (0 = no limit)")
	cmd.Flags().String("greedy", config.Default().Solver.Greedy, "greedy strategy: scan or lazy (same result)")
	return cmd
}
