// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package sitepath

import (
	"reflect"
	"sort"
	"testing"

	"github.com/evolbioinfo/sitepath/lumpy"
)

func allOnesMatrix(n int) lumpy.Matrix {
	m := lumpy.NewMatrix(n)
	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			m.Set(i, j, 1)
		}
	}
	return m
}

// TestScenarioATrivialClustering encodes the published end-to-end
// scenario: three identical-sequence tips under one root collapse
// into a single cluster.
func TestScenarioATrivialClustering(t *testing.T) {
	paths := [][]int{{1, 2}, {1, 3}, {1, 4}}
	seqs := [][]byte{[]byte("AA"), []byte("AA"), []byte("AA")}
	sim := allOnesMatrix(3)
	got, err := LineageTerminalTips(paths, seqs, sim, []int{1}, 1, 0)
	if err != nil {
		t.Fatalf("LineageTerminalTips() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v, want exactly one cluster", got)
	}
	sort.Ints(got[0])
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("cluster = %v, want %v", got[0], want)
	}
}

// TestScenarioBDivergentResidues encodes the published scenario where
// a divergent residue at site 1 yields two merged clusters, {1,2} and
// {3}.
func TestScenarioBDivergentResidues(t *testing.T) {
	paths := [][]int{{1, 2, 5}, {1, 2, 6}, {1, 3, 7}}
	seqs := [][]byte{[]byte("AC"), []byte("AC"), []byte("TG")}
	sim := allOnesMatrix(3)
	got, err := LineageTerminalTips(paths, seqs, sim, []int{1}, 1, 0)
	if err != nil {
		t.Fatalf("LineageTerminalTips() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want two clusters", got)
	}
	var sizes []int
	for _, c := range got {
		sizes = append(sizes, len(c))
	}
	sort.Ints(sizes)
	if !reflect.DeepEqual(sizes, []int{1, 2}) {
		t.Errorf("cluster sizes = %v, want [1 2]", sizes)
	}
}

// TestLineageTerminalTipsOutputIsSubsetOfInputTips checks invariant 1:
// every tip referenced in the output appears in the input tip set.
func TestLineageTerminalTipsOutputIsSubsetOfInputTips(t *testing.T) {
	paths := [][]int{{1, 2, 5}, {1, 2, 6}, {1, 3, 7}, {1, 3, 8}}
	seqs := [][]byte{[]byte("AC"), []byte("AG"), []byte("TC"), []byte("TG")}
	sim := GetSimilarityMatrix(seqs)
	got, err := LineageTerminalTips(paths, seqs, sim, []int{1, 2}, 1, 0)
	if err != nil {
		t.Fatalf("LineageTerminalTips() error = %v", err)
	}
	valid := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, cluster := range got {
		for _, tip := range cluster {
			if !valid[tip] {
				t.Errorf("output references tip %d outside input set", tip)
			}
		}
	}
}

// TestLineageTerminalTipsIdenticalSequencesSingleCluster checks
// invariant 5: identical sequences across every tip collapse to one
// cluster containing all tips, for any site and any k.
func TestLineageTerminalTipsIdenticalSequencesSingleCluster(t *testing.T) {
	paths := [][]int{{1, 2, 5}, {1, 2, 6}, {1, 3, 7}, {1, 3, 8}}
	seqs := [][]byte{[]byte("ACGT"), []byte("ACGT"), []byte("ACGT"), []byte("ACGT")}
	sim := allOnesMatrix(4)
	for _, site := range []int{1, 2, 3, 4} {
		for _, k := range []int{0, 1, 2} {
			got, err := LineageTerminalTips(paths, seqs, sim, []int{site}, 1, k)
			if err != nil {
				t.Fatalf("LineageTerminalTips(site=%d, k=%d) error = %v", site, k, err)
			}
			if len(got) != 1 || len(got[0]) != 4 {
				t.Errorf("site=%d k=%d: got %v, want one cluster of 4 tips", site, k, got)
			}
		}
	}
}

func TestGetSimilarityMatrixIsSymmetricUnitDiagonal(t *testing.T) {
	seqs := [][]byte{[]byte("AC"), []byte("AG"), []byte("TC")}
	m := GetSimilarityMatrix(seqs)
	for i := 1; i <= 3; i++ {
		if m.Get(i, i) != 1 {
			t.Errorf("Get(%d,%d) = %v, want 1", i, i, m.Get(i, i))
		}
		for j := 1; j <= 3; j++ {
			if m.Get(i, j) != m.Get(j, i) {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
}

func TestLineageTerminalTipsRejectsEmptySiteList(t *testing.T) {
	paths := [][]int{{1, 2}, {1, 3}}
	seqs := [][]byte{[]byte("A"), []byte("A")}
	sim := allOnesMatrix(2)
	if _, err := LineageTerminalTips(paths, seqs, sim, nil, 1, 0); err == nil {
		t.Error("expected error for empty site list")
	}
}

// TestTerminalTipsByDistMatrixKeepsDistantGroupsSeparate builds two
// raw clusters that share a residue but reach the final coalescing
// step via different clades (tip2 and tip4 each detour through an
// extra clade before rejoining their sibling's clade, so the two
// pairs never fully coalesce to the root). Both pairs carry the same
// residue, so they land in a single SiteClusters entry spanning two
// clades — exercising lumpy.MergeClusters with more than one raw
// cluster instead of hitting its single-cluster early return. The
// pairwise distances keep the two groups on opposite sides of the
// mean±k·stdev threshold, so they stay separate.
func TestTerminalTipsByDistMatrixKeepsDistantGroupsSeparate(t *testing.T) {
	paths := [][]int{
		{1, 2, 5},
		{1, 3, 2, 6},
		{1, 4, 7},
		{1, 5, 4, 8},
	}
	seqs := [][]byte{[]byte("A"), []byte("A"), []byte("A"), []byte("A")}
	dist := lumpy.NewMatrix(4)
	dist.Set(1, 2, 0.05)
	dist.Set(3, 4, 0.05)
	dist.Set(1, 3, 0.9)
	dist.Set(1, 4, 0.9)
	dist.Set(2, 3, 0.9)
	dist.Set(2, 4, 0.9)

	got, err := TerminalTipsByDistMatrix(paths, seqs, dist, []int{1}, 1, 0)
	if err != nil {
		t.Fatalf("TerminalTipsByDistMatrix() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %v, want two separate clusters", got)
	}
	var sizes []int
	for _, c := range got {
		sizes = append(sizes, len(c))
	}
	sort.Ints(sizes)
	if !reflect.DeepEqual(sizes, []int{2, 2}) {
		t.Errorf("cluster sizes = %v, want [2 2]", sizes)
	}
}
