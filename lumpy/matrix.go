// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package lumpy merges the raw clusters produced by package treemer,
// using a mean±k·stdev threshold over a pairwise metric, the way
// gtfstidy's StopReclusterer greedily folds geo/name-similar stop
// clusters into each other under a single distance threshold.
package lumpy

import (
	"github.com/evolbioinfo/sitepath/errs"
	"github.com/evolbioinfo/sitepath/treemer"
)

// Matrix is a symmetric N×N pairwise metric over 1-based tip indices.
type Matrix struct {
	data [][]float64
}

// NewMatrix allocates a Matrix sized for tip indices 1..n.
func NewMatrix(n int) Matrix {
	data := make([][]float64, n)
	for i := range data {
		data[i] = make([]float64, n)
	}
	return Matrix{data: data}
}

// Size returns the number of tips the matrix covers.
func (m Matrix) Size() int { return len(m.data) }

// Get returns the metric between tipA and tipB (both 1-based).
func (m Matrix) Get(tipA, tipB int) float64 {
	return m.data[tipA-1][tipB-1]
}

// Set stores the metric between tipA and tipB (both 1-based),
// keeping the matrix symmetric.
func (m Matrix) Set(tipA, tipB int, v float64) {
	m.data[tipA-1][tipB-1] = v
	m.data[tipB-1][tipA-1] = v
}

// inRange reports whether tip (1-based) addresses a valid row.
func (m Matrix) inRange(tip int) bool {
	return tip >= 1 && tip <= len(m.data)
}

// GetSimilarityMatrix computes the pairwise identity similarity
// among alignedSeqs: entry (i,j) is the fraction of shared non-gap
// positions at which sequences i and j (1-based tip indices i, j)
// agree. The diagonal is 1. Computed once per batch and shared
// read-only by every LumpyCluster invocation for that batch.
func GetSimilarityMatrix(alignedSeqs [][]byte, gap byte) Matrix {
	n := len(alignedSeqs)
	m := NewMatrix(n)
	for i := 1; i <= n; i++ {
		m.Set(i, i, 1)
		for j := i + 1; j <= n; j++ {
			m.Set(i, j, treemer.CompareSeqs(alignedSeqs[i-1], alignedSeqs[j-1], gap))
		}
	}
	return m
}

// validateClusters fails if any tip referenced by clusters falls
// outside the matrix range — an invariant violation per spec.md §7.
func validateClusters(m Matrix, clusters treemer.Clusters) error {
	for _, members := range clusters {
		for _, t := range members {
			if !m.inRange(t.GetTip()) {
				return errs.New(errs.InvariantViolation, "raw cluster references a tip outside the metric matrix range")
			}
		}
	}
	return nil
}
