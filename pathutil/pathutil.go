// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package pathutil operates on rooted-tree root-to-tip paths and raw
// aligned sequences, the small set of helpers the higher-level
// clustering operations are built from.
package pathutil

import (
	"sort"

	"golang.org/x/exp/slices"

	"github.com/evolbioinfo/sitepath/errs"
)

// MergePaths collapses paths so that no kept path is a strict prefix
// of another kept path. The first path is always kept. Each
// subsequent path is compared, in order, against the paths kept so
// far: if it is itself a prefix of one of them, it is dropped; if one
// of them is a prefix of it, that one is removed from the kept set
// (at most one removal per incoming path, even if several kept paths
// would qualify) and the incoming path is kept.
func MergePaths(paths [][]int) ([][]int, error) {
	if len(paths) == 0 {
		return nil, errs.New(errs.InvalidInput, "empty path list")
	}
	res := [][]int{slices.Clone(paths[0])}
	for i := 1; i < len(paths); i++ {
		toAddNew := true
		removeIdx := -1
		for k, kept := range res {
			if slices.Equal(paths[i], kept) {
				// an exact duplicate is simultaneously a prefix of kept
				// and kept a prefix of it; the character walk below
				// would land on toRemoveOld, so take that shortcut.
				removeIdx = k
				break
			}
			q, s := 0, 0
			toRemoveOld := false
			for paths[i][q] == kept[s] {
				q++
				s++
				if s == len(kept) {
					toRemoveOld = true
					break
				}
				if q == len(paths[i]) {
					toAddNew = false
					break
				}
			}
			if toRemoveOld {
				removeIdx = k
				break
			}
			if !toAddNew {
				break
			}
		}
		if removeIdx >= 0 {
			res = append(res[:removeIdx], res[removeIdx+1:]...)
		}
		if toAddNew {
			res = append(res, slices.Clone(paths[i]))
		}
	}
	return res, nil
}

// DivergentNodes returns, for every pair of paths, the last node they
// share before diverging, excluding the shared root. The result is
// deduplicated and sorted ascending for deterministic output.
func DivergentNodes(paths [][]int) ([]int, error) {
	if len(paths) < 2 {
		return nil, errs.New(errs.InvalidInput, "need at least two paths to diverge")
	}
	seen := make(map[int]bool)
	for i := 0; i < len(paths)-1; i++ {
		for j := i + 1; j < len(paths); j++ {
			node, ok := lastShared(paths[i], paths[j])
			if ok {
				seen[node] = true
			}
		}
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// lastShared walks a and b from the root and returns the last node
// both carry before they differ (or before the shorter one ends),
// together with whether that node is not the shared root.
func lastShared(a, b []int) (int, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	k := 0
	for k < n && a[k] == b[k] {
		k++
	}
	if k <= 1 {
		// no shared node at all, or only the shared root
		return 0, false
	}
	return a[k-1], true
}

// GetReference returns the 1-based positions of refSeq that are not
// the gap character.
func GetReference(refSeq []byte, gap byte) []int {
	var out []int
	for i, c := range refSeq {
		if c != gap {
			out = append(out, i+1)
		}
	}
	return out
}

// TableAA tallies the residue carried by every sequence in seqs at
// the given 0-based alignment position.
func TableAA(seqs [][]byte, siteIdx int) (map[byte]int, error) {
	if len(seqs) == 0 {
		return nil, errs.New(errs.InvalidInput, "empty sequence list")
	}
	counts := make(map[byte]int)
	for _, seq := range seqs {
		if siteIdx < 0 || siteIdx >= len(seq) {
			return nil, errs.New(errs.InvalidInput, "site index out of range")
		}
		counts[seq[siteIdx]]++
	}
	return counts, nil
}

// SortedKeys returns the residue keys of counts in ascending order,
// the deterministic traversal order every map-keyed-by-residue result
// in this module uses instead of relying on Go's randomized map
// iteration.
func SortedKeys(counts map[byte]int) []byte {
	keys := make([]byte, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

