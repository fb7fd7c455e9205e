// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package entropy

import (
	"math"

	"golang.org/x/exp/slices"

	"github.com/evolbioinfo/sitepath/errs"
)

// initialSegmentation returns the finest starting point: every node in
// its own segment. A per-node segment may fall below minEffectiveSize,
// so this start is not always legal.
func initialSegmentation(n int) Segmentation {
	s := make(Segmentation, n)
	for i := 0; i < n; i++ {
		s[i] = Segment{Start: i, End: i}
	}
	return s
}

// wholeSegmentation returns the single-segment starting point spanning
// every node.
func wholeSegmentation(n int) Segmentation {
	return Segmentation{{Start: 0, End: n - 1}}
}

// Segmentor splits every segment of s at every interior boundary in
// turn, the way ShapeMinimizer recurses into the two halves produced
// by its worst-error split point. Each split is only emitted if both
// halves stay legal.
func Segmentor(summaries []NodeSummary, s Segmentation, minEffectiveSize int) []Segmentation {
	var out []Segmentation
	for i, seg := range s {
		for cut := seg.Start; cut < seg.End; cut++ {
			left := Segment{Start: seg.Start, End: cut}
			right := Segment{Start: cut + 1, End: seg.End}
			if left.Total(summaries) < minEffectiveSize || right.Total(summaries) < minEffectiveSize {
				continue
			}
			next := slices.Delete(slices.Clone(s), i, i+1)
			next = slices.Insert(next, i, left, right)
			out = append(out, next)
		}
	}
	return out
}

// Amalgamator merges every pair of adjacent segments of s in turn,
// the inverse of Segmentor, following StopReclusterer's habit of also
// trying to fold already-split groups back together before settling.
func Amalgamator(s Segmentation) []Segmentation {
	var out []Segmentation
	for i := 0; i+1 < len(s); i++ {
		merged := Segment{Start: s[i].Start, End: s[i+1].End}
		next := slices.Delete(slices.Clone(s), i, i+2)
		next = slices.Insert(next, i, merged)
		out = append(out, next)
	}
	return out
}

// candidate pairs a segmentation with its entropy cost so the search
// frontier can be kept sorted cheaply.
type candidate struct {
	seg  Segmentation
	cost float64
}

// searchTree runs a capped best-first search: at each round it keeps
// only the searchDepth cheapest frontier nodes (the beam), expands
// them with expand, and tracks the best legal segmentation seen. best
// is only replaced on a STRICT cost improvement — a later segmentation
// that merely ties the current best is dropped, which is what keeps a
// needlessly over-split segmentation from displacing a coarser one of
// equal cost (see Scenario F). start only seeds best when it is itself
// legal (e.g. wholeSegmentation always is, but initialSegmentation can
// start with an undersized per-node segment); if no legal segmentation
// is ever reached, searchTree returns nil for the caller to surface as
// an error instead of handing back an illegal result.
func searchTree(summaries []NodeSummary, start Segmentation, minEffectiveSize, searchDepth int, expand func([]NodeSummary, Segmentation, int) []Segmentation) Segmentation {
	seen := map[string]bool{start.signature(): true}
	frontier := []candidate{{seg: start, cost: start.Cost(summaries)}}
	var best Segmentation
	bestCost := math.Inf(1)
	if start.Legal(summaries, minEffectiveSize) {
		best = start
		bestCost = start.Cost(summaries)
	}

	for len(frontier) > 0 {
		var next []candidate
		for _, c := range frontier {
			for _, s := range expandLegal(summaries, c.seg, minEffectiveSize, expand) {
				sig := s.signature()
				if seen[sig] {
					continue
				}
				seen[sig] = true
				cost := s.Cost(summaries)
				if cost < bestCost {
					best = s
					bestCost = cost
				}
				next = append(next, candidate{seg: s, cost: cost})
			}
		}
		next = topK(next, searchDepth)
		frontier = next
	}
	return best
}

func expandLegal(summaries []NodeSummary, s Segmentation, minEffectiveSize int, expand func([]NodeSummary, Segmentation, int) []Segmentation) []Segmentation {
	candidates := expand(summaries, s, minEffectiveSize)
	out := candidates[:0:0]
	for _, c := range candidates {
		if c.Legal(summaries, minEffectiveSize) {
			out = append(out, c)
		}
	}
	return out
}

// topK keeps the searchDepth cheapest candidates, the search's beam
// width, using a simple insertion sort since frontiers stay small.
func topK(cs []candidate, k int) []candidate {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j].cost < cs[j-1].cost; j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
	if len(cs) > k {
		cs = cs[:k]
	}
	return cs
}

// SearchByInserting starts from the single whole-sequence segment and
// repeatedly tries splitting it further, keeping the cheapest legal
// segmentation found within searchDepth beam width.
func SearchByInserting(summaries []NodeSummary, minEffectiveSize, searchDepth int) (Segmentation, error) {
	if err := validateInput(summaries, minEffectiveSize, searchDepth); err != nil {
		return nil, err
	}
	start := wholeSegmentation(len(summaries))
	best := searchTree(summaries, start, minEffectiveSize, searchDepth, Segmentor)
	if best == nil {
		return nil, errs.New(errs.InvariantViolation, "no legal segmentation found")
	}
	return best, nil
}

// SearchByDeleting starts from the finest per-node segmentation and
// repeatedly tries merging adjacent segments back together.
func SearchByDeleting(summaries []NodeSummary, minEffectiveSize, searchDepth int) (Segmentation, error) {
	if err := validateInput(summaries, minEffectiveSize, searchDepth); err != nil {
		return nil, err
	}
	start := initialSegmentation(len(summaries))
	adapter := func(smry []NodeSummary, s Segmentation, mes int) []Segmentation {
		return Amalgamator(s)
	}
	best := searchTree(summaries, start, minEffectiveSize, searchDepth, adapter)
	if best == nil {
		return nil, errs.New(errs.InvariantViolation, "no legal segmentation found")
	}
	return best, nil
}

// SearchByComparing runs both SearchByInserting and SearchByDeleting
// and returns whichever found the strictly cheaper segmentation,
// preferring the inserting result on a tie.
func SearchByComparing(summaries []NodeSummary, minEffectiveSize, searchDepth int) (Segmentation, error) {
	inserted, err := SearchByInserting(summaries, minEffectiveSize, searchDepth)
	if err != nil {
		return nil, err
	}
	deleted, err := SearchByDeleting(summaries, minEffectiveSize, searchDepth)
	if err != nil {
		return nil, err
	}
	if deleted.Cost(summaries) < inserted.Cost(summaries) {
		return deleted, nil
	}
	return inserted, nil
}
