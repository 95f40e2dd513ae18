/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// teamcover finds the smallest set of players who together link every pair
// of franchises.
//
// Usage:
//
//	teamcover universe
//	teamcover greedy  [--players FILE] [--max-print N] [--greedy scan|lazy]
//	teamcover exact   [--players FILE] [--max-print N] [--time-limit D]
//	teamcover compare [--players FILE] [--max-print N] [--time-limit D]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
