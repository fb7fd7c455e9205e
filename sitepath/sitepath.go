// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package sitepath wires together treemer, lumpy and pathutil into
// the handful of entry points a host process calls: a similarity
// matrix builder, the two site-clustering variants and the path
// helpers, mirroring how gtfstidy's top-level Processor chains its
// cleaning steps over one shared Feed. The minimum-entropy search is
// not wrapped here; it is called directly from package entropy.
package sitepath

import (
	"github.com/evolbioinfo/sitepath/errs"
	"github.com/evolbioinfo/sitepath/lumpy"
	"github.com/evolbioinfo/sitepath/pathutil"
	"github.com/evolbioinfo/sitepath/treemer"
)

// GetSimilarityMatrix computes the pairwise identity matrix for a
// batch of aligned sequences, using '-' as the gap character.
func GetSimilarityMatrix(alignedSeqs [][]byte) lumpy.Matrix {
	return lumpy.GetSimilarityMatrix(alignedSeqs, treemer.DefaultGap)
}

// LineageTerminalTips coalesces tips up the tree at each requested
// site, merges the resulting raw clusters with lumpy's similarity
// variant, and keeps only merged clusters reaching minSNPnum members.
// Every TipSeqLinker built for the call is scoped to this function and
// discarded on every exit path, including error returns, matching the
// source's manual-allocate/manual-free discipline without needing an
// explicit free call.
func LineageTerminalTips(
	tipPaths [][]int,
	alignedSeqs [][]byte,
	simMatrix lumpy.Matrix,
	siteIndices []int,
	minSNPnum int,
	zValue int,
) ([][]int, error) {
	tips, err := buildTips(tipPaths, alignedSeqs)
	if err != nil {
		return nil, err
	}
	if len(siteIndices) == 0 {
		return nil, errs.New(errs.InvalidInput, "empty site list")
	}
	if minSNPnum <= 0 {
		return nil, errs.New(errs.InvalidInput, "minSNPnum must be positive")
	}

	var res [][]int
	for _, site := range siteIndices {
		bySite, err := treemer.RunBySite(tips, site)
		if err != nil {
			return nil, err
		}
		siteClusters := bySite.SiteClusters()
		for _, residue := range treemer.SortedResidueKeys(siteClusters) {
			raw := toRawClusters(siteClusters[residue])
			merged, err := lumpy.MergeClusters(simMatrix, raw, zValue, lumpy.BySimMatrix)
			if err != nil {
				return nil, err
			}
			for _, cluster := range merged {
				if len(cluster) >= minSNPnum {
					res = append(res, cluster)
				}
			}
		}
	}
	return res, nil
}

// TerminalTipsBySimMatrix is LineageTerminalTips fixed to the
// similarity-matrix merge variant (higher metric is closer).
func TerminalTipsBySimMatrix(
	tipPaths [][]int,
	alignedSeqs [][]byte,
	simMatrix lumpy.Matrix,
	siteIndices []int,
	minSNPnum int,
	zValue int,
) ([][]int, error) {
	return LineageTerminalTips(tipPaths, alignedSeqs, simMatrix, siteIndices, minSNPnum, zValue)
}

// TerminalTipsByDistMatrix mirrors TerminalTipsBySimMatrix but merges
// under a distance metric (lower is closer).
func TerminalTipsByDistMatrix(
	tipPaths [][]int,
	alignedSeqs [][]byte,
	distMatrix lumpy.Matrix,
	siteIndices []int,
	minSNPnum int,
	zValue int,
) ([][]int, error) {
	tips, err := buildTips(tipPaths, alignedSeqs)
	if err != nil {
		return nil, err
	}
	if len(siteIndices) == 0 {
		return nil, errs.New(errs.InvalidInput, "empty site list")
	}
	if minSNPnum <= 0 {
		return nil, errs.New(errs.InvalidInput, "minSNPnum must be positive")
	}

	var res [][]int
	for _, site := range siteIndices {
		bySite, err := treemer.RunBySite(tips, site)
		if err != nil {
			return nil, err
		}
		siteClusters := bySite.SiteClusters()
		for _, residue := range treemer.SortedResidueKeys(siteClusters) {
			raw := toRawClusters(siteClusters[residue])
			merged, err := lumpy.MergeClusters(distMatrix, raw, zValue, lumpy.ByDistMatrix)
			if err != nil {
				return nil, err
			}
			for _, cluster := range merged {
				if len(cluster) >= minSNPnum {
					res = append(res, cluster)
				}
			}
		}
	}
	return res, nil
}

// MergePaths exposes pathutil.MergePaths at the package's top level
// so a host only needs to import one package per call shape.
func MergePaths(paths [][]int) ([][]int, error) { return pathutil.MergePaths(paths) }

// DivergentNodes exposes pathutil.DivergentNodes.
func DivergentNodes(paths [][]int) ([]int, error) { return pathutil.DivergentNodes(paths) }

// GetReference exposes pathutil.GetReference.
func GetReference(refSeq []byte, gapChar byte) []int {
	return pathutil.GetReference(refSeq, gapChar)
}

// TableAA exposes pathutil.TableAA.
func TableAA(seqs [][]byte, siteIndex int) (map[byte]int, error) {
	return pathutil.TableAA(seqs, siteIndex)
}

// buildTips numbers tips 1..N by their position in tipPaths/alignedSeqs
// — the same order the similarity/distance matrix rows use — keeping
// that external tip identity distinct from the tree-node indices
// carried inside each path.
func buildTips(tipPaths [][]int, alignedSeqs [][]byte) ([]*treemer.TipSeqLinker, error) {
	if len(tipPaths) != len(alignedSeqs) {
		return nil, errs.New(errs.InvalidInput, "tipPaths and alignedSeqs length mismatch")
	}
	tips := make([]*treemer.TipSeqLinker, len(tipPaths))
	for i, path := range tipPaths {
		tips[i] = treemer.New(i+1, alignedSeqs[i], path)
	}
	if err := treemer.ValidateBatch(tips); err != nil {
		return nil, err
	}
	return tips, nil
}

// toRawClusters flattens every clade->tips clustering sharing one
// residue (treemer.SiteClusters splits a merged clade into one
// treemer.Clusters per distinct residue it carries, so a residue can
// span several clades) into the flat per-cluster tip lists
// lumpy.MergeClusters expects: one lumpy.RawCluster per clade, ordered
// by ascending clade index for determinism. Passing every clade's raw
// cluster into a single MergeClusters call, rather than one call per
// clade, is what lets LumpyCluster's mean±k·stdev threshold actually
// compare clusters against each other instead of seeing only one at a
// time.
func toRawClusters(clustersByClade []treemer.Clusters) []lumpy.RawCluster {
	tipsByClade := make(map[int][]*treemer.TipSeqLinker)
	for _, cl := range clustersByClade {
		for c, tips := range cl {
			tipsByClade[c] = append(tipsByClade[c], tips...)
		}
	}
	clades := make([]int, 0, len(tipsByClade))
	for c := range tipsByClade {
		clades = append(clades, c)
	}
	sortInts(clades)
	out := make([]lumpy.RawCluster, 0, len(clades))
	for _, c := range clades {
		out = append(out, lumpy.RawCluster(tipsByClade[c]))
	}
	return out
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
