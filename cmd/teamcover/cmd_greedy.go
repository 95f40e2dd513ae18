/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"github.com/mikeb26/franchise-cover/config"
	"github.com/mikeb26/franchise-cover/report"
	"github.com/spf13/cobra"
)

func newGreedyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greedy",
		Short: "Approximate the cover by repeatedly taking the most useful player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, u, err := a.inputs(cmd.Context())
			if err != nil {
				return err
			}
			res := a.greedy(players, u)
			if !res.Complete() {
				a.logger.Warn("greedy cover is incomplete", "uncovered", len(res.Uncovered))
			}
			return report.Greedy(cmd.OutOrStdout(), res, players, a.reportOptions())
		},
	}
	cmd.Flags().String("greedy", config.Default().Solver.Greedy, "greedy strategy: scan or lazy (same result)")
	return cmd
}
