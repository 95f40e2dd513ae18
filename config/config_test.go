/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.League.Teams) != 32 {
		t.Errorf("League.Teams has %d teams; want 32", len(cfg.League.Teams))
	}
	if cfg.League.Teams[0] != "crd" || cfg.League.Teams[31] != "was" {
		t.Errorf("League.Teams order = %v...%v; want crd...was",
			cfg.League.Teams[0], cfg.League.Teams[31])
	}
	if cfg.Solver.TimeLimit != 2*time.Minute {
		t.Errorf("Solver.TimeLimit = %v; want 2m", cfg.Solver.TimeLimit)
	}
	if cfg.Report.MaxPlayers != 0 {
		t.Errorf("Report.MaxPlayers = %d; want 0 (no cap)", cfg.Report.MaxPlayers)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() does not validate: %v", ValidationErrors(errs))
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teamcover.yaml")
	data := `
league:
  teams: [A, B, C]
solver:
  time_limit: 30s
  greedy: lazy
report:
  max_players: 44
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TEAMCOVER_STORE_PATH", "/tmp/other.txt")

	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("NewViper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if strings.Join(cfg.League.Teams, ",") != "A,B,C" {
		t.Errorf("League.Teams = %v; want [A B C]", cfg.League.Teams)
	}
	if cfg.Solver.TimeLimit != 30*time.Second {
		t.Errorf("Solver.TimeLimit = %v; want 30s", cfg.Solver.TimeLimit)
	}
	if cfg.Solver.Greedy != "lazy" {
		t.Errorf("Solver.Greedy = %q; want lazy", cfg.Solver.Greedy)
	}
	if cfg.Report.MaxPlayers != 44 {
		t.Errorf("Report.MaxPlayers = %d; want 44", cfg.Report.MaxPlayers)
	}
	if cfg.Store.Path != "/tmp/other.txt" {
		t.Errorf("Store.Path = %q; want env override", cfg.Store.Path)
	}
	if cfg.Scrape.MinDelay != 7*time.Second {
		t.Errorf("Scrape.MinDelay = %v; want default 7s", cfg.Scrape.MinDelay)
	}
	if got := cfg.Teams(); len(got) != 3 || got[2] != "C" {
		t.Errorf("Teams() = %v", got)
	}
}

func TestNewViperMissingExplicitFile(t *testing.T) {
	if _, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("NewViper with a missing explicit file succeeded")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"one team", func(c *Config) { c.League.Teams = []string{"atl"} }, "league.teams"},
		{"duplicate team", func(c *Config) { c.League.Teams = []string{"atl", "atl"} }, "league.teams"},
		{"dash in team", func(c *Config) { c.League.Teams = []string{"a-b", "c"} }, "league.teams"},
		{"negative time limit", func(c *Config) { c.Solver.TimeLimit = -time.Second }, "solver.time_limit"},
		{"bad greedy", func(c *Config) { c.Solver.Greedy = "best" }, "solver.greedy"},
		{"bad store", func(c *Config) { c.Store.Kind = "ftp" }, "store.kind"},
		{"s3 without bucket", func(c *Config) { c.Store.Kind = "s3" }, "store.s3_bucket"},
		{"negative cap", func(c *Config) { c.Report.MaxPlayers = -1 }, "report.max_players"},
		{"inverted delays", func(c *Config) { c.Scrape.MaxDelay = time.Second }, "scrape.max_delay"},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatalf("Validate() found nothing; want %s error", c.field)
			}
			if errs[0].Field != c.field {
				t.Errorf("first error field = %q; want %q", errs[0].Field, c.field)
			}
			var verrs ValidationErrors
			if err := error(ValidationErrors(errs)); !errors.As(err, &verrs) || err.Error() == "" {
				t.Errorf("ValidationErrors does not behave as an error")
			}
		})
	}
}
