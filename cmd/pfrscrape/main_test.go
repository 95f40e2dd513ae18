/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// pairServer answers every pair page with its first team's namesake player
// plus a shared one, or with the status fail returns when it is non-zero.
func pairServer(t *testing.T, fail func(t1, t2 string) int) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if code := fail(q.Get("t1"), q.Get("t2")); code != 0 {
			w.WriteHeader(code)
			return
		}
		fmt.Fprintf(w, `<table>
<tr><th>Player</th></tr>
<tr><th><a href="/players/%s.htm">x</a></th></tr>
<tr><th><a href="/players/shared.htm">y</a></th></tr>
</table>`, q.Get("t1"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// writeConfig writes a three-team config with no pacing or retries and
// returns its path along with the output path next to it.
func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfgPath := filepath.Join(dir, "teamcover.yaml")
	cfg := "league:\n  teams: [aaa, bbb, ccc]\n" +
		"scrape:\n  min_delay: 0s\n  max_delay: 0s\n  max_retries: 0\n" +
		"logging:\n  level: error\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, filepath.Join(dir, "players.txt")
}

func runScrape(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func failBBBCCC(t1, t2 string) int {
	if t1 == "bbb" && t2 == "ccc" {
		return http.StatusInternalServerError
	}
	return 0
}

const goodRecords = "/players/old.htm: aaa-bbb,aaa-ccc,bbb-ccc\n"

func TestScrapeToFile(t *testing.T) {
	srv := pairServer(t, failBBBCCC)
	cfgPath, outPath := writeConfig(t)

	out, err := runScrape("--config", cfgPath, "--base-url", srv.URL, "--out", outPath,
		"--allow-partial")
	if err != nil {
		t.Fatalf("pfrscrape: %v", err)
	}
	if !strings.Contains(out, "[1/3] Connections for aaa-bbb: 2 players found. Total players: 2") {
		t.Errorf("progress missing:\n%v", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "/players/aaa.htm: aaa-bbb,aaa-ccc\n" +
		"/players/shared.htm: aaa-bbb,aaa-ccc\n"
	if string(data) != want {
		t.Errorf("records:\n%q\nwant:\n%q", data, want)
	}
}

func TestScrapePartialKeepsRecords(t *testing.T) {
	srv := pairServer(t, failBBBCCC)
	cfgPath, outPath := writeConfig(t)
	if err := os.WriteFile(outPath, []byte(goodRecords), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := runScrape("--config", cfgPath, "--base-url", srv.URL, "--out", outPath)
	if !errors.Is(err, errIncomplete) {
		t.Fatalf("err=%v, want incomplete scrape", err)
	}
	if !strings.Contains(err.Error(), "1 of 3 pairs failed") {
		t.Errorf("err=%v lacks the failure count", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != goodRecords {
		t.Errorf("records overwritten:\n%q", data)
	}
}

func TestScrapeAllFailedKeepsRecords(t *testing.T) {
	srv := pairServer(t, func(string, string) int { return http.StatusServiceUnavailable })
	cfgPath, outPath := writeConfig(t)
	if err := os.WriteFile(outPath, []byte(goodRecords), 0644); err != nil {
		t.Fatal(err)
	}

	// --allow-partial never extends to an empty collection
	_, err := runScrape("--config", cfgPath, "--base-url", srv.URL, "--out", outPath,
		"--allow-partial")
	if !errors.Is(err, errIncomplete) {
		t.Fatalf("err=%v, want incomplete scrape", err)
	}
	if !strings.Contains(err.Error(), "all 3 pairs failed") {
		t.Errorf("err=%v lacks the failure count", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != goodRecords {
		t.Errorf("records overwritten:\n%q", data)
	}
}
