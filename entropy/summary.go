// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package entropy searches for a minimum-entropy segmentation of an
// ordered sequence of per-node residue histograms, the way gtfstidy's
// ShapeMinimizer (processors/shapeminimizer.go) recursively splits a
// shape under a Douglas-Peucker error bound: both pick boundaries by
// repeatedly asking "does splitting here reduce the cost enough to
// justify it".
package entropy

import (
	"math"
	"sort"

	"github.com/evolbioinfo/sitepath/errs"
)

// NodeSummary is a residue histogram for the tips under one tree node
// at one alignment site.
type NodeSummary map[byte]int

// Total sums every residue count in the histogram.
func (s NodeSummary) Total() int {
	total := 0
	for _, c := range s {
		total += c
	}
	return total
}

// Segment is a contiguous, inclusive index range over a NodeSummary
// sequence.
type Segment struct {
	Start, End int
}

// Total sums the residue counts of every node spanned by seg.
func (seg Segment) Total(summaries []NodeSummary) int {
	total := 0
	for i := seg.Start; i <= seg.End; i++ {
		total += summaries[i].Total()
	}
	return total
}

// Cost is the entropy of the pooled histogram across seg's nodes:
// sum over residues r of -count_r*log(count_r/total). An empty
// segment (spec.md §7's NumericEdge case) contributes zero.
func (seg Segment) Cost(summaries []NodeSummary) float64 {
	pooled := make(map[byte]int)
	for i := seg.Start; i <= seg.End; i++ {
		for r, c := range summaries[i] {
			pooled[r] += c
		}
	}
	total := 0
	for _, c := range pooled {
		total += c
	}
	if total == 0 {
		return 0
	}
	cost := 0.0
	for _, c := range pooled {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		cost += -float64(c) * math.Log(p)
	}
	return cost
}

// Segmentation is an ordered, non-overlapping, contiguous partition
// of a NodeSummary sequence.
type Segmentation []Segment

// Cost sums every segment's entropy cost.
func (s Segmentation) Cost(summaries []NodeSummary) float64 {
	total := 0.0
	for _, seg := range s {
		total += seg.Cost(summaries)
	}
	return total
}

// Legal reports whether every segment's total count meets
// minEffectiveSize, the invariant spec.md §8 requires of any
// non-empty result.
func (s Segmentation) Legal(summaries []NodeSummary, minEffectiveSize int) bool {
	for _, seg := range s {
		if seg.Total(summaries) < minEffectiveSize {
			return false
		}
	}
	return true
}

// signature produces a deterministic key for deduplicating
// segmentations reached via different split/merge orders.
func (s Segmentation) signature() string {
	keys := make([]int, 0, len(s)+1)
	for _, seg := range s {
		keys = append(keys, seg.Start)
	}
	if len(s) > 0 {
		keys = append(keys, s[len(s)-1].End)
	}
	sort.Ints(keys) // boundaries are already ascending; sort is a cheap safety net
	buf := make([]byte, 0, len(keys)*4)
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendInt(buf, k)
	}
	return string(buf)
}

func appendInt(buf []byte, n int) []byte {
	if n == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for n > 0 {
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}
	// reverse the digits just appended
	end := len(buf) - 1
	for start < end {
		buf[start], buf[end] = buf[end], buf[start]
		start++
		end--
	}
	return buf
}

// UpdatedSegmentation maps a segmentation back to 1-based node
// indices, one group per segment, matching the external index
// convention of spec.md §6.
func UpdatedSegmentation(s Segmentation) [][]int {
	out := make([][]int, len(s))
	for i, seg := range s {
		idxs := make([]int, 0, seg.End-seg.Start+1)
		for n := seg.Start; n <= seg.End; n++ {
			idxs = append(idxs, n+1)
		}
		out[i] = idxs
	}
	return out
}

func validateInput(summaries []NodeSummary, minEffectiveSize, searchDepth int) error {
	if len(summaries) == 0 {
		return errs.New(errs.InvalidInput, "empty node summary sequence")
	}
	if minEffectiveSize <= 0 {
		return errs.New(errs.InvalidInput, "minEffectiveSize must be positive")
	}
	if searchDepth <= 0 {
		return errs.New(errs.InvalidInput, "searchDepth must be positive")
	}
	total := 0
	for _, s := range summaries {
		total += s.Total()
	}
	if total < minEffectiveSize {
		return errs.New(errs.InvariantViolation, "whole-sequence total is below minEffectiveSize; no legal segmentation exists")
	}
	return nil
}
