/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package report renders solver results for the console.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mikeb26/franchise-cover/cover"
)

// Options control how much of a result is printed. They never change the
// result itself.
type Options struct {
	// MaxPlayers caps the number of selected players listed; 0 lists all.
	MaxPlayers int
	// Verbose prints every greedy step and each listed player's connections.
	Verbose bool
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00AFFF"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFA500"))
)

// printer remembers the first write error so callers can check once.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) heading(title string) {
	p.printf("\n%v\n", headingStyle.Render("=== "+title+" ==="))
}

// Greedy writes the per-step trace (when verbose), any residual and the
// summary of a greedy run.
func Greedy(w io.Writer, res cover.GreedyResult, players cover.Players, opts Options) error {
	p := &printer{w: w}

	if opts.Verbose {
		for _, s := range res.Steps {
			p.printf("Selected player: %v\n", s.Player)
			p.printf("Connections covered by this player: %d\n", s.Covered)
			p.printf("Remaining uncovered connections: %d\n", s.Remaining)
		}
	}
	if !res.Complete() {
		p.printf("%v\n", warnStyle.Render(fmt.Sprintf(
			"No further coverage possible. %d connections remain uncovered:",
			len(res.Uncovered))))
		p.printf("%v\n", strings.Join(res.Uncovered.Strings(), ","))
	}

	p.heading("GREEDY SET COVER RESULTS")
	p.printf("Selected %d players\n", len(res.Selected))
	listPlayers(p, res.Selected, players, opts)

	return p.err
}

// Exact writes an exact selection and its summary.
func Exact(w io.Writer, sel []cover.PlayerID, players cover.Players, opts Options) error {
	p := &printer{w: w}

	p.heading("Selected Players and Their Coverage")
	listPlayers(p, sel, players, opts)

	p.heading("OPTIMAL ILP RESULTS")
	p.printf("Selected %d players\n", len(sel))

	return p.err
}

// Compare writes the two selection sizes side by side along with the
// players each method picked that the other did not.
func Compare(w io.Writer, greedy cover.GreedyResult, exact []cover.PlayerID) error {
	p := &printer{w: w}

	inExact := make(map[cover.PlayerID]bool, len(exact))
	for _, id := range exact {
		inExact[id] = true
	}
	inGreedy := make(map[cover.PlayerID]bool, len(greedy.Selected))
	shared := 0
	for _, id := range greedy.Selected {
		inGreedy[id] = true
		if inExact[id] {
			shared++
		}
	}

	p.heading("GREEDY vs OPTIMAL")
	p.printf("%-8v %4d players", "greedy", len(greedy.Selected))
	if !greedy.Complete() {
		p.printf(" (%d connections uncovered)", len(greedy.Uncovered))
	}
	p.printf("\n%-8v %4d players\n", "optimal", len(exact))
	p.printf("%-8v %4d players\n", "shared", shared)
	if greedy.Complete() && len(exact) > 0 {
		p.printf("greedy overhead: %d players (%.1f%%)\n",
			len(greedy.Selected)-len(exact),
			100*float64(len(greedy.Selected)-len(exact))/float64(len(exact)))
	}

	for _, id := range greedy.Selected {
		if !inExact[id] {
			p.printf("  greedy only:  %v\n", id)
		}
	}
	for _, id := range exact {
		if !inGreedy[id] {
			p.printf("  optimal only: %v\n", id)
		}
	}

	return p.err
}

func listPlayers(p *printer, sel []cover.PlayerID, players cover.Players, opts Options) {
	shown := sel
	if opts.MaxPlayers > 0 && len(shown) > opts.MaxPlayers {
		shown = shown[:opts.MaxPlayers]
	}
	for i, id := range shown {
		conns := players[id]
		p.printf("%d. %v: %d connections\n", i+1, id, len(conns))
		if opts.Verbose {
			p.printf("   %v\n", strings.Join(conns.Strings(), ","))
		}
	}
	if len(shown) < len(sel) {
		p.printf("... %d more not shown (limit %d)\n", len(sel)-len(shown), opts.MaxPlayers)
	}
}
