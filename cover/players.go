/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package cover selects a minimum set of players whose connections cover
// every team pair of a league.Universe, either greedily or exactly through
// an ilp.Backend.
package cover

import (
	"sort"

	"github.com/mikeb26/franchise-cover/league"
	"github.com/prysmaticlabs/go-bitfield"
)

// PlayerID is an opaque player identifier such as "/players/A/AbcdEf00.htm".
type PlayerID string

// Players maps each player to the connections the player is a witness for.
// Solvers only read a Players value; they never modify it or its sets.
type Players map[PlayerID]league.ConnectionSet

// IDs returns the player ids in lexical order.
func (p Players) IDs() []PlayerID {
	ids := make([]PlayerID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// Clone returns a deep copy.
func (p Players) Clone() Players {
	ret := make(Players, len(p))
	for id, s := range p {
		ret[id] = s.Clone()
	}
	return ret
}

// Add records that player id covers each of conns.
func (p Players) Add(id PlayerID, conns ...league.Connection) {
	s, ok := p[id]
	if !ok {
		s = make(league.ConnectionSet, len(conns))
		p[id] = s
	}
	for _, c := range conns {
		s.Add(c)
	}
}

// Union returns the universe connections covered by at least one player.
func (p Players) Union(u *league.Universe) league.ConnectionSet {
	ret := make(league.ConnectionSet)
	for _, s := range p {
		for c := range s {
			if u.Contains(c) {
				ret.Add(c)
			}
		}
	}
	return ret
}

// Uncovered returns the universe connections not covered by any player in
// sel. Ids missing from players cover nothing.
func Uncovered(players Players, sel []PlayerID, u *league.Universe) league.ConnectionSet {
	ret := u.Set()
	for _, id := range sel {
		for c := range players[id] {
			delete(ret, c)
		}
	}
	return ret
}

func sortIDs(ids []PlayerID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// candidate is a player's coverage projected onto the universe index.
type candidate struct {
	id    PlayerID
	bits  *bitfield.Bitlist64
	count uint64
}

// project builds the solver-local working copy of players: one bitlist per
// player with a non-empty projection, ordered by player id.
func project(players Players, u *league.Universe) []*candidate {
	n := uint64(u.Len())
	cands := make([]*candidate, 0, len(players))
	for _, id := range players.IDs() {
		bits := bitfield.NewBitlist64(n)
		for c := range players[id] {
			if i, ok := u.Index(c); ok {
				bits.SetBitAt(uint64(i), true)
			}
		}
		if cnt := bits.Count(); cnt > 0 {
			cands = append(cands, &candidate{id: id, bits: bits, count: cnt})
		}
	}
	return cands
}

func fullBits(n int) *bitfield.Bitlist64 {
	bits := bitfield.NewBitlist64(uint64(n))
	for i := 0; i < n; i++ {
		bits.SetBitAt(uint64(i), true)
	}
	return bits
}
