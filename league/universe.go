/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package league models the fixed team list and the universe of team-pair
// connections that a player selection has to cover.
package league

import (
	"fmt"
	"sort"
	"strings"
)

// Team is an opaque franchise code such as "crd" or "atl".
type Team string

// Connection identifies an unordered pair of distinct teams. The two codes
// are joined by ConnectionSep with the team that comes first in the
// universe's team list on the left.
type Connection string

const ConnectionSep = "-"

// NFLTeams is the pro-football-reference franchise list. Its order fixes the
// canonical orientation of every connection id built from it.
var NFLTeams = []Team{
	"crd", "atl", "rav", "buf", "car", "chi", "cin", "dal", "den", "det",
	"gnb", "htx", "clt", "jax", "kan", "rai", "sdg", "ram", "mia", "min",
	"nwe", "nor", "nyg", "cle", "nyj", "phi", "pit", "sfo", "sea", "tam",
	"oti", "was",
}

// Connect joins two team codes in the given order. Callers are responsible
// for passing them in list order; use Universe.Pair when that order is not
// known.
func Connect(a, b Team) Connection {
	return Connection(string(a) + ConnectionSep + string(b))
}

// Universe is the immutable ground set of connections for an ordered team
// list. The zero value and a nil *Universe are both empty universes.
type Universe struct {
	teams   []Team
	teamPos map[Team]int
	conns   []Connection
	index   map[Connection]int
}

// NewUniverse builds the C(N,2) connections for teams[i], teams[j] with i < j.
func NewUniverse(teams []Team) (*Universe, error) {
	if len(teams) < 2 {
		return nil, &InvalidInputError{Msg: "need at least two teams"}
	}

	u := &Universe{
		teams:   append([]Team(nil), teams...),
		teamPos: make(map[Team]int, len(teams)),
	}
	for i, t := range teams {
		if t == "" {
			return nil, &InvalidInputError{Msg: fmt.Sprintf("team %d has an empty code", i)}
		}
		if strings.Contains(string(t), ConnectionSep) {
			return nil, &InvalidInputError{
				Msg: fmt.Sprintf("team code %q contains separator %q", t, ConnectionSep)}
		}
		if _, dup := u.teamPos[t]; dup {
			return nil, &InvalidInputError{Msg: fmt.Sprintf("duplicate team %q", t)}
		}
		u.teamPos[t] = i
	}

	n := len(teams)
	u.conns = make([]Connection, 0, n*(n-1)/2)
	u.index = make(map[Connection]int, n*(n-1)/2)
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			c := Connect(teams[i], teams[j])
			u.index[c] = len(u.conns)
			u.conns = append(u.conns, c)
		}
	}

	return u, nil
}

// EmptyUniverse returns a universe with no connections.
func EmptyUniverse() *Universe {
	return &Universe{}
}

func (u *Universe) Len() int {
	if u == nil {
		return 0
	}
	return len(u.conns)
}

// Teams returns a copy of the ordered team list.
func (u *Universe) Teams() []Team {
	if u == nil {
		return nil
	}
	return append([]Team(nil), u.teams...)
}

// Connections returns the connections in index order (row-major over the
// team list).
func (u *Universe) Connections() []Connection {
	if u == nil {
		return nil
	}
	return append([]Connection(nil), u.conns...)
}

// At returns the connection with index i.
func (u *Universe) At(i int) Connection {
	return u.conns[i]
}

// Index returns the position of c, or false if c is not in the universe.
func (u *Universe) Index(c Connection) (int, bool) {
	if u == nil {
		return 0, false
	}
	i, ok := u.index[c]
	return i, ok
}

func (u *Universe) Contains(c Connection) bool {
	_, ok := u.Index(c)
	return ok
}

// Set returns a fresh ConnectionSet holding every connection.
func (u *Universe) Set() ConnectionSet {
	s := make(ConnectionSet, u.Len())
	if u == nil {
		return s
	}
	for _, c := range u.conns {
		s.Add(c)
	}
	return s
}

// Pair returns the canonical connection for two teams regardless of the
// order they are passed in.
func (u *Universe) Pair(a, b Team) (Connection, error) {
	if u == nil {
		return "", &InvalidInputError{Msg: "empty universe"}
	}
	pa, okA := u.teamPos[a]
	pb, okB := u.teamPos[b]
	switch {
	case !okA:
		return "", &InvalidInputError{Msg: fmt.Sprintf("unknown team %q", a)}
	case !okB:
		return "", &InvalidInputError{Msg: fmt.Sprintf("unknown team %q", b)}
	case pa == pb:
		return "", &InvalidInputError{Msg: fmt.Sprintf("self pair %q", a)}
	case pa > pb:
		a, b = b, a
	}

	return Connect(a, b), nil
}

// ConnectionSet is a set of connections. Multiplicity carries no meaning.
type ConnectionSet map[Connection]struct{}

func NewConnectionSet(conns ...Connection) ConnectionSet {
	s := make(ConnectionSet, len(conns))
	for _, c := range conns {
		s.Add(c)
	}
	return s
}

func (s ConnectionSet) Add(c Connection) { s[c] = struct{}{} }

func (s ConnectionSet) Has(c Connection) bool {
	_, ok := s[c]
	return ok
}

func (s ConnectionSet) Len() int { return len(s) }

func (s ConnectionSet) Clone() ConnectionSet {
	ret := make(ConnectionSet, len(s))
	for c := range s {
		ret[c] = struct{}{}
	}
	return ret
}

// Sorted returns the members in lexical order.
func (s ConnectionSet) Sorted() []Connection {
	ret := make([]Connection, 0, len(s))
	for c := range s {
		ret = append(ret, c)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// Strings is Sorted converted to plain strings, handy for joining.
func (s ConnectionSet) Strings() []string {
	sorted := s.Sorted()
	ret := make([]string, len(sorted))
	for i, c := range sorted {
		ret[i] = string(c)
	}
	return ret
}
