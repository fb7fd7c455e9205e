// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package pathutil

import (
	"reflect"
	"testing"
)

func TestMergePathsPrefixCollapse(t *testing.T) {
	paths := [][]int{{1, 2, 3}, {1, 2}, {1, 2, 3, 4}}
	got, err := MergePaths(paths)
	if err != nil {
		t.Fatalf("MergePaths() error = %v", err)
	}
	want := [][]int{{1, 2, 3, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergePaths() = %v, want %v", got, want)
	}
}

func TestMergePathsRejectsEmptyInput(t *testing.T) {
	if _, err := MergePaths(nil); err == nil {
		t.Error("expected error for empty path list")
	}
}

func TestMergePathsNoOverlapKeepsAll(t *testing.T) {
	paths := [][]int{{1, 2}, {1, 3}, {1, 4}}
	got, err := MergePaths(paths)
	if err != nil {
		t.Fatalf("MergePaths() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("MergePaths() = %v, want all three paths kept", got)
	}
}

func TestDivergentNodesExcludesRoot(t *testing.T) {
	paths := [][]int{{1, 2, 4}, {1, 2, 5}, {1, 3, 6}}
	got, err := DivergentNodes(paths)
	if err != nil {
		t.Fatalf("DivergentNodes() error = %v", err)
	}
	want := []int{2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DivergentNodes() = %v, want %v", got, want)
	}
}

func TestDivergentNodesRejectsSinglePath(t *testing.T) {
	if _, err := DivergentNodes([][]int{{1, 2}}); err == nil {
		t.Error("expected error for fewer than two paths")
	}
}

func TestGetReferenceSkipsGaps(t *testing.T) {
	got := GetReference([]byte("A-C-G"), '-')
	want := []int{1, 3, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetReference() = %v, want %v", got, want)
	}
}

func TestTableAACounts(t *testing.T) {
	seqs := [][]byte{[]byte("AC"), []byte("AC"), []byte("TG")}
	got, err := TableAA(seqs, 0)
	if err != nil {
		t.Fatalf("TableAA() error = %v", err)
	}
	want := map[byte]int{'A': 2, 'T': 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TableAA() = %v, want %v", got, want)
	}
}

func TestTableAARejectsOutOfRangeSite(t *testing.T) {
	seqs := [][]byte{[]byte("AC")}
	if _, err := TableAA(seqs, 5); err == nil {
		t.Error("expected error for out-of-range site index")
	}
}

func TestSortedKeysAscending(t *testing.T) {
	counts := map[byte]int{'T': 1, 'A': 2, 'C': 3}
	got := SortedKeys(counts)
	want := []byte{'A', 'C', 'T'}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys() = %v, want %v", got, want)
	}
}
