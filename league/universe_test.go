/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package league

import (
	"errors"
	"strings"
	"testing"
)

func TestNewUniverseCardinality(t *testing.T) {
	for n := 2; n <= len(NFLTeams); n++ {
		u, err := NewUniverse(NFLTeams[:n])
		if err != nil {
			t.Fatalf("NewUniverse(%d teams) returned error: %v", n, err)
		}
		if want := n * (n - 1) / 2; u.Len() != want {
			t.Errorf("%d teams: Len() = %d; want %d", n, u.Len(), want)
		}
		seen := make(map[Connection]bool)
		for i, c := range u.Connections() {
			if seen[c] {
				t.Errorf("%d teams: duplicate connection %v", n, c)
			}
			seen[c] = true
			parts := strings.Split(string(c), ConnectionSep)
			if len(parts) != 2 || parts[0] == parts[1] {
				t.Errorf("%d teams: malformed or self pair %v", n, c)
			}
			if idx, ok := u.Index(c); !ok || idx != i {
				t.Errorf("%d teams: Index(%v) = %v,%v; want %v", n, c, idx, ok, i)
			}
		}
	}

	u, _ := NewUniverse(NFLTeams)
	if u.Len() != 496 {
		t.Errorf("NFL universe has %d connections; want 496", u.Len())
	}
}

func TestNewUniverseOrientation(t *testing.T) {
	u, err := NewUniverse([]Team{"crd", "atl", "buf"})
	if err != nil {
		t.Fatalf("NewUniverse returned error: %v", err)
	}
	want := []Connection{"crd-atl", "crd-buf", "atl-buf"}
	got := u.Connections()
	if len(got) != len(want) {
		t.Fatalf("Connections() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Connections()[%d] = %v; want %v", i, got[i], want[i])
		}
	}

	c, err := u.Pair("buf", "crd")
	if err != nil || c != "crd-buf" {
		t.Errorf("Pair(buf, crd) = %v, %v; want crd-buf", c, err)
	}
	if _, err := u.Pair("buf", "buf"); err == nil {
		t.Errorf("Pair(buf, buf) succeeded; want error")
	}
	if _, err := u.Pair("buf", "xyz"); err == nil {
		t.Errorf("Pair(buf, xyz) succeeded; want error")
	}
}

func TestNewUniverseInvalid(t *testing.T) {
	cases := []struct {
		name  string
		teams []Team
	}{
		{name: "nil", teams: nil},
		{name: "one team", teams: []Team{"atl"}},
		{name: "duplicate", teams: []Team{"atl", "buf", "atl"}},
		{name: "empty code", teams: []Team{"atl", ""}},
		{name: "separator in code", teams: []Team{"atl", "b-f"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewUniverse(c.teams)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("NewUniverse(%v) error = %v; want InvalidInputError", c.teams, err)
			}
		})
	}

	_, err := NewUniverse([]Team{"atl"})
	if err == nil || !strings.Contains(err.Error(), "need at least two teams") {
		t.Errorf("one team error = %v; want 'need at least two teams'", err)
	}
}

func TestEmptyUniverse(t *testing.T) {
	var nilU *Universe
	for _, u := range []*Universe{EmptyUniverse(), nilU} {
		if u.Len() != 0 {
			t.Errorf("Len() = %d; want 0", u.Len())
		}
		if len(u.Set()) != 0 {
			t.Errorf("Set() = %v; want empty", u.Set())
		}
		if u.Contains("atl-buf") {
			t.Errorf("empty universe contains atl-buf")
		}
	}
}

func TestConnectionSet(t *testing.T) {
	s := NewConnectionSet("b-c", "a-b", "a-b")
	if s.Len() != 2 {
		t.Errorf("Len() = %d; want 2", s.Len())
	}
	clone := s.Clone()
	clone.Add("a-c")
	if s.Has("a-c") {
		t.Errorf("Clone shares storage with original")
	}
	if got := strings.Join(clone.Strings(), ","); got != "a-b,a-c,b-c" {
		t.Errorf("Strings() = %q; want a-b,a-c,b-c", got)
	}
}
