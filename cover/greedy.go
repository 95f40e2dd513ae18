/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package cover

import (
	"container/heap"

	"github.com/mikeb26/franchise-cover/league"
	"github.com/prysmaticlabs/go-bitfield"
)

// Step records one greedy pick.
type Step struct {
	Player PlayerID
	// Covered is the number of connections the pick newly covered.
	Covered int
	// Remaining is the number of connections still uncovered after it.
	Remaining int
}

// GreedyResult is the outcome of a greedy run. A run that exhausts its
// candidates before covering the universe is a normal result with a
// non-empty Uncovered set.
type GreedyResult struct {
	Selected  []PlayerID
	Uncovered league.ConnectionSet
	Steps     []Step
}

// Complete reports whether every connection was covered.
func (r GreedyResult) Complete() bool {
	return len(r.Uncovered) == 0
}

// Greedy repeatedly selects the player covering the most uncovered
// connections until the universe is covered or no remaining player adds
// anything. Ties go to the lexicographically smallest player id, so the
// result is a pure function of the input.
func Greedy(players Players, u *league.Universe) GreedyResult {
	if u.Len() == 0 {
		return GreedyResult{Uncovered: u.Set()}
	}

	return greedyOn(project(players, u), u)
}

func greedyOn(cands []*candidate, u *league.Universe) GreedyResult {
	res := GreedyResult{Uncovered: u.Set()}
	uncovered := fullBits(u.Len())
	scratch := bitfield.NewBitlist64(uint64(u.Len()))

	// cands is solver-local; picked entries are removed from it
	cands = append([]*candidate(nil), cands...)
	for len(res.Uncovered) > 0 {
		best, bestGain := -1, uint64(0)
		for i, c := range cands {
			gain := marginal(c, uncovered, scratch)
			if gain > bestGain {
				best, bestGain = i, gain
			}
		}
		if best < 0 {
			break
		}

		res.take(cands[best], uncovered, scratch, u)
		cands = append(cands[:best], cands[best+1:]...)
	}

	return res
}

// marginal returns |c AND uncovered|, leaving the intersection in scratch.
func marginal(c *candidate, uncovered, scratch *bitfield.Bitlist64) uint64 {
	if err := c.bits.NoAllocAnd(uncovered, scratch); err != nil {
		// all bitlists are sized from the same universe
		panic(err)
	}
	return scratch.Count()
}

func (r *GreedyResult) take(c *candidate, uncovered, scratch *bitfield.Bitlist64,
	u *league.Universe) {

	marginal(c, uncovered, scratch)
	newly := scratch.BitIndices()
	for _, i := range newly {
		uncovered.SetBitAt(uint64(i), false)
		delete(r.Uncovered, u.At(i))
	}
	r.Selected = append(r.Selected, c.id)
	r.Steps = append(r.Steps, Step{
		Player:    c.id,
		Covered:   len(newly),
		Remaining: len(r.Uncovered),
	})
}

// LazyGreedy returns the same result as Greedy. It keeps candidates in a
// max-heap keyed by their last computed gain and only recomputes the gain of
// the top entry, which is much cheaper once most players have gone stale.
func LazyGreedy(players Players, u *league.Universe) GreedyResult {
	if u.Len() == 0 {
		return GreedyResult{Uncovered: u.Set()}
	}

	cands := project(players, u)
	res := GreedyResult{Uncovered: u.Set()}
	uncovered := fullBits(u.Len())
	scratch := bitfield.NewBitlist64(uint64(u.Len()))

	h := make(gainHeap, 0, len(cands))
	for _, c := range cands {
		h = append(h, gainEntry{cand: c, gain: c.count})
	}
	heap.Init(&h)

	for len(res.Uncovered) > 0 && h.Len() > 0 {
		top := heap.Pop(&h).(gainEntry)
		gain := marginal(top.cand, uncovered, scratch)
		if gain == 0 {
			continue
		}
		if gain < top.gain {
			heap.Push(&h, gainEntry{cand: top.cand, gain: gain})
			continue
		}
		res.take(top.cand, uncovered, scratch, u)
	}

	return res
}

type gainEntry struct {
	cand *candidate
	gain uint64
}

// gainHeap orders by gain descending, then player id ascending.
type gainHeap []gainEntry

func (h gainHeap) Len() int { return len(h) }
func (h gainHeap) Less(i, j int) bool {
	if h[i].gain != h[j].gain {
		return h[i].gain > h[j].gain
	}
	return h[i].cand.id < h[j].cand.id
}
func (h gainHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *gainHeap) Push(x any)   { *h = append(*h, x.(gainEntry)) }
func (h *gainHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
