// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package treemer

import (
	"sort"

	"github.com/evolbioinfo/sitepath/errs"
)

// Clusters maps a clade-node index to the tips currently coalesced
// there.
type Clusters map[int][]*TipSeqLinker

// SiteClusters maps a residue character, at one alignment site, to
// the raw clusters observed carrying that residue.
type SiteClusters map[byte][]Clusters

// InitialClusters returns the starting clustering: each tip is its
// own singleton cluster, keyed by its current (tip-node) clade.
func InitialClusters(tips []*TipSeqLinker) Clusters {
	c := make(Clusters, len(tips))
	for _, t := range tips {
		c[t.CurrentClade()] = append(c[t.CurrentClade()], t)
	}
	return c
}

// BySite is the result of coalescing one batch of tips up the tree,
// for agreement at one alignment site.
type BySite struct {
	site  int // 0-based
	final Clusters
}

// RunBySite coalesces raw clusters up the tree so long as every
// member of a cluster shares the same next clade and the same
// residue at site (1-based, matching the external convention of
// spec.md §6). It first resets every supplied tip's cursor to the tip
// itself, then mutates the cursors as it coalesces.
func RunBySite(tips []*TipSeqLinker, site int) (*BySite, error) {
	if err := ValidateBatch(tips); err != nil {
		return nil, err
	}
	seqLen := tips[0].GetSeqLen()
	siteIdx := site - 1
	if siteIdx < 0 || siteIdx >= seqLen {
		return nil, errs.New(errs.InvalidInput, "site index out of range")
	}

	// Each site starts from the tips, even when an earlier call on the
	// same batch left the cursors advanced.
	for _, t := range tips {
		t.pIndex = len(t.path) - 1
	}
	clusters := InitialClusters(tips)
	// Repeat until a full pass advances nothing; every pass either
	// advances at least one cursor or merges at least one pair, so
	// this is bounded by total path length times tip count.
	for {
		changed := false
		for _, members := range clusters {
			if canAdvance(members, siteIdx) {
				for _, m := range members {
					m.Proceed()
				}
				changed = true
			}
		}
		if !changed {
			break
		}
		// Clade keys are no longer valid once cursors moved; rebuild
		// from the tips' current clades so clusters that now share a
		// clade merge automatically.
		clusters = InitialClusters(tips)
	}

	return &BySite{site: siteIdx, final: clusters}, nil
}

// canAdvance reports whether every member of a raw cluster shares
// the same next clade and the same residue at siteIdx, and at least
// one member is not already at the root (a cluster already at the
// root can never advance further).
func canAdvance(members []*TipSeqLinker, siteIdx int) bool {
	if len(members) == 0 {
		return false
	}
	rep := members[0]
	if rep.CurrentClade() == rep.GetRoot() {
		return false
	}
	nextClade := rep.NextClade()
	residue := rep.ResidueAt(siteIdx)
	for _, m := range members {
		if m.NextClade() != nextClade {
			return false
		}
		if m.ResidueAt(siteIdx) != residue {
			return false
		}
	}
	return true
}

// SiteClusters splits the final coalesced raw clusters by residue at
// the tracked site: a raw cluster whose members carry more than one
// residue (because two independently-homogeneous clusters merged
// onto a shared clade after advancing) produces one entry per
// distinct residue it contains, preserving each tip's original
// relative order. Iteration is in ascending clade-index order for
// reproducibility, matching spec.md §9's "reimplement with an
// explicit sort" guidance.
func (b *BySite) SiteClusters() SiteClusters {
	clades := make([]int, 0, len(b.final))
	for clade := range b.final {
		clades = append(clades, clade)
	}
	sort.Ints(clades)

	out := make(SiteClusters)
	for _, clade := range clades {
		members := b.final[clade]
		byResidue := make(map[byte][]*TipSeqLinker)
		order := make([]byte, 0, 4)
		for _, m := range members {
			r := m.ResidueAt(b.site)
			if _, ok := byResidue[r]; !ok {
				order = append(order, r)
			}
			byResidue[r] = append(byResidue[r], m)
		}
		sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
		for _, r := range order {
			sub := Clusters{clade: byResidue[r]}
			out[r] = append(out[r], sub)
		}
	}
	return out
}

// SortedResidueKeys returns the residues present in sc in a
// deterministic ascending order.
func SortedResidueKeys(sc SiteClusters) []byte {
	keys := make([]byte, 0, len(sc))
	for r := range sc {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
