/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikeb26/franchise-cover/cover"
)

// writeFixture writes a three-team config and a matching player file and
// returns the config path.
func writeFixture(t *testing.T, records string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	players := filepath.Join(dir, "players.txt")
	if err := os.WriteFile(players, []byte(records), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := "league:\n  teams: [aaa, bbb, ccc]\n" +
		"store:\n  kind: file\n  path: " + players + "\n" +
		"logging:\n  level: error\n"
	cfgPath := filepath.Join(dir, "teamcover.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const abcRecords = `p1: aaa-bbb,aaa-ccc
p2: bbb-ccc
p3: aaa-bbb
`

func TestUniverseDefaultLeague(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	out, err := run(t, "universe")
	if err != nil {
		t.Fatalf("universe: %v", err)
	}
	if !strings.HasPrefix(out, "32 teams, 496 connections\n") {
		t.Errorf("unexpected header:\n%v", out)
	}
	if !strings.Contains(out, "\ncrd-atl\n") {
		t.Errorf("first connection missing:\n%v", out)
	}
}

func TestExact(t *testing.T) {
	cfg := writeFixture(t, abcRecords)
	out, err := run(t, "exact", "--config", cfg)
	if err != nil {
		t.Fatalf("exact: %v", err)
	}
	for _, want := range []string{"1. p1: 2 connections", "2. p2: 1 connections", "Selected 2 players"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%v", want, out)
		}
	}
}

func TestGreedyLazy(t *testing.T) {
	cfg := writeFixture(t, abcRecords)
	out, err := run(t, "greedy", "--config", cfg, "--greedy", "lazy", "-v")
	if err != nil {
		t.Fatalf("greedy: %v", err)
	}
	for _, want := range []string{"Selected player: p1", "Selected player: p2", "Selected 2 players"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%v", want, out)
		}
	}
}

func TestCompare(t *testing.T) {
	cfg := writeFixture(t, abcRecords)
	out, err := run(t, "compare", "--config", cfg, "--max-print", "1")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, want := range []string{"GREEDY vs OPTIMAL", "shared      2 players", "1 more not shown"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%v", want, out)
		}
	}
}

func TestExactInfeasible(t *testing.T) {
	cfg := writeFixture(t, "p1: aaa-bbb\n")
	_, err := run(t, "exact", "--config", cfg)
	var infeasible *cover.InfeasibleError
	if !errors.As(err, &infeasible) {
		t.Fatalf("exact err=%v, want InfeasibleError", err)
	}
	if len(infeasible.Uncovered) != 2 {
		t.Errorf("uncovered = %v, want aaa-ccc and bbb-ccc", infeasible.Uncovered)
	}
}

func TestCompareInfeasible(t *testing.T) {
	cfg := writeFixture(t, "p1: aaa-bbb\n")
	out, err := run(t, "compare", "--config", cfg)
	var infeasible *cover.InfeasibleError
	if !errors.As(err, &infeasible) {
		t.Fatalf("compare err=%v, want InfeasibleError", err)
	}
	// the greedy residual is reported before the exact failure
	for _, want := range []string{"2 connections remain uncovered", "aaa-ccc,bbb-ccc",
		"GREEDY SET COVER RESULTS", "Selected 1 players"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%v", want, out)
		}
	}
	if strings.Contains(out, "GREEDY vs OPTIMAL") {
		t.Errorf("comparison printed without an exact result:\n%v", out)
	}
}

func TestInvalidFlags(t *testing.T) {
	cfg := writeFixture(t, abcRecords)
	if _, err := run(t, "greedy", "--config", cfg, "--store", "tape"); err == nil {
		t.Errorf("--store tape accepted")
	}
	if _, err := run(t, "exact", "--config", cfg, "--time-limit", "-1s"); err == nil {
		t.Errorf("negative --time-limit accepted")
	}
	if _, err := run(t, "exact", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("missing --config file accepted")
	}
}
