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

func newExactCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exact",
		Short: "Find a provably minimum cover",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			players, u, err := a.inputs(cmd.Context())
			if err != nil {
				return err
			}
			sel, err := a.exact(cmd.Context(), players, u)
			if err != nil {
				return err
			}
			return report.Exact(cmd.OutOrStdout(), sel, players, a.reportOptions())
		},
	}
	cmd.Flags().Duration("time-limit", config.Default().Solver.TimeLimit, "abort the exact search after this long (0 = no limit)")
	return cmd
}
