/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUniverseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "universe",
		Short: "Print the team pairs that must be connected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.universe()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d teams, %d connections\n", len(u.Teams()), u.Len())
			for _, c := range u.Connections() {
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}
}
