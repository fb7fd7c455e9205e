// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package treemer coalesces tips up a rooted tree as long as the tips
// agree on the residue carried at one alignment site.
package treemer

import "github.com/evolbioinfo/sitepath/errs"

// DefaultGap is the gap character assumed by TipSeqLinker.Compare when
// a linker is built with New instead of NewWithGap.
const DefaultGap byte = '-'

// TipSeqLinker binds one tip index to its aligned sequence and its
// root-to-tip path, and tracks a cursor that walks the path toward
// the root one clade at a time.
type TipSeqLinker struct {
	tip    int
	seq    []byte
	path   []int // root..tip inclusive
	pIndex int    // cursor into path; starts at len(path)-1 (the tip)
	gap    byte
}

// New builds a TipSeqLinker with the default gap character '-'.
func New(tip int, seq []byte, path []int) *TipSeqLinker {
	return NewWithGap(tip, seq, path, DefaultGap)
}

// NewWithGap builds a TipSeqLinker, copying seq and path so the
// linker owns its data independent of caller-held slices.
func NewWithGap(tip int, seq []byte, path []int, gap byte) *TipSeqLinker {
	s := make([]byte, len(seq))
	copy(s, seq)
	p := make([]int, len(path))
	copy(p, path)
	return &TipSeqLinker{
		tip:    tip,
		seq:    s,
		path:   p,
		pIndex: len(p) - 1,
		gap:    gap,
	}
}

// CurrentClade returns the node at the cursor.
func (l *TipSeqLinker) CurrentClade() int {
	return l.path[l.pIndex]
}

// NextClade returns the node one step rootward of the cursor, capped
// at the root once the cursor is already there.
func (l *TipSeqLinker) NextClade() int {
	if l.pIndex == 0 {
		return l.path[0]
	}
	return l.path[l.pIndex-1]
}

// Proceed advances the cursor one step toward the root. It is a
// silent no-op once the cursor already sits on the root.
func (l *TipSeqLinker) Proceed() {
	if l.pIndex > 0 {
		l.pIndex--
	}
}

// GetTip returns the tip index this linker was built for.
func (l *TipSeqLinker) GetTip() int { return l.tip }

// GetRoot returns the root node of this linker's path.
func (l *TipSeqLinker) GetRoot() int { return l.path[0] }

// GetSeqLen returns the aligned sequence length.
func (l *TipSeqLinker) GetSeqLen() int { return len(l.seq) }

// GetPath returns a copy of the full root-to-tip path.
func (l *TipSeqLinker) GetPath() []int {
	p := make([]int, len(l.path))
	copy(p, l.path)
	return p
}

// ResidueAt returns the residue at the given 0-based alignment
// position.
func (l *TipSeqLinker) ResidueAt(pos int) byte {
	return l.seq[pos]
}

// Compare returns the fraction of alignment positions at which l and
// other carry the same non-gap residue, over positions where both
// are non-gap. Identical sequences yield 1. A pair that is all-gap at
// every shared position has no valid comparison and returns 0 (this
// case is excluded from valid inputs by the caller).
func (l *TipSeqLinker) Compare(other *TipSeqLinker) float64 {
	return CompareSeqs(l.seq, other.seq, l.gap)
}

// CompareSeqs returns the fraction of positions at which a and b
// carry the same non-gap residue, over positions where both are
// non-gap. It underlies TipSeqLinker.Compare and the standalone
// similarity-matrix builder in package lumpy, which has no path to
// attach a TipSeqLinker to.
func CompareSeqs(a, b []byte, gap byte) float64 {
	shared := 0
	same := 0
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, y := a[i], b[i]
		if x == gap || y == gap {
			continue
		}
		shared++
		if x == y {
			same++
		}
	}
	if shared == 0 {
		return 0
	}
	return float64(same) / float64(shared)
}

// ValidateBatch checks that every linker shares the same root and
// sequence length, the invariant spec.md §3 requires of a batch of
// tips belonging to one tree.
func ValidateBatch(tips []*TipSeqLinker) error {
	if len(tips) == 0 {
		return errs.New(errs.InvalidInput, "empty tip set")
	}
	root := tips[0].GetRoot()
	seqLen := tips[0].GetSeqLen()
	for _, t := range tips[1:] {
		if t.GetRoot() != root {
			return errs.New(errs.InvalidInput, "root in tree paths not equal")
		}
		if t.GetSeqLen() != seqLen {
			return errs.New(errs.InvalidInput, "sequence length not equal")
		}
	}
	return nil
}
