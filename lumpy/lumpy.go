// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package lumpy

import (
	"math"

	"github.com/evolbioinfo/sitepath/errs"
	"github.com/evolbioinfo/sitepath/treemer"
)

// RawCluster is one coalesced group of tips, as produced by package
// treemer for a single residue key.
type RawCluster []*treemer.TipSeqLinker

// Variant supplies the three pure functions that distinguish
// BySimMatrix (bigger metric = closer) from ByDistMatrix (smaller
// metric = closer), following spec.md §9's "polymorphism over metric
// semantics" note: a capability trio rather than a class hierarchy.
type Variant interface {
	// Threshold derives the pass/fail cutoff from the pooled mean and
	// standard deviation, and the stringency multiplier k.
	Threshold(mean, stdev float64, k int) float64
	// Better reports whether metric a is a closer match than metric b.
	Better(a, b float64) bool
	// Qualifies reports whether metric passes threshold.
	Qualifies(metric, threshold float64) bool
}

type bySimMatrix struct{}

func (bySimMatrix) Threshold(mean, stdev float64, k int) float64 {
	return mean + stdev*float64(k)
}
func (bySimMatrix) Better(a, b float64) bool                 { return a > b }
func (bySimMatrix) Qualifies(metric, threshold float64) bool { return metric > threshold }

type byDistMatrix struct{}

func (byDistMatrix) Threshold(mean, stdev float64, k int) float64 {
	return mean - stdev*float64(k)
}
func (byDistMatrix) Better(a, b float64) bool                 { return a < b }
func (byDistMatrix) Qualifies(metric, threshold float64) bool { return metric < threshold }

// BySimMatrix merges on a similarity metric: higher means closer, and
// the threshold is mean+k·stdev.
var BySimMatrix Variant = bySimMatrix{}

// ByDistMatrix merges on a distance metric: lower means closer, and
// the threshold is mean-k·stdev.
var ByDistMatrix Variant = byDistMatrix{}

// MergeClusters greedily folds rawClusters (in input order) into
// merged clusters under variant's threshold rule. The first raw
// cluster always seeds the first merged cluster; each subsequent raw
// cluster either joins whichever existing merged cluster pairs best
// with it, if that pairing qualifies, or starts a new merged cluster.
// The returned lists preserve construction order.
func MergeClusters(metric Matrix, rawClusters []RawCluster, k int, variant Variant) ([][]int, error) {
	if len(rawClusters) == 0 {
		return nil, errs.New(errs.InvalidInput, "no raw clusters to merge")
	}
	for _, rc := range rawClusters {
		if err := validateClusters(metric, treemer.Clusters{0: rc}); err != nil {
			return nil, err
		}
	}

	merged := []RawCluster{rawClusters[0]}
	if len(rawClusters) == 1 {
		return toTipLists(merged), nil
	}

	allTips := make(RawCluster, 0)
	for _, rc := range rawClusters {
		allTips = append(allTips, rc...)
	}
	mean, stdev := meanStdev(metric, allTips)
	threshold := variant.Threshold(mean, stdev, k)

	for _, candidate := range rawClusters[1:] {
		bestIdx := 0
		bestMetric := clusterCompare(metric, candidate, merged[0])
		for i := 1; i < len(merged); i++ {
			m := clusterCompare(metric, candidate, merged[i])
			if variant.Better(m, bestMetric) {
				bestIdx = i
				bestMetric = m
			}
		}
		if variant.Qualifies(bestMetric, threshold) {
			merged[bestIdx] = append(merged[bestIdx], candidate...)
		} else {
			merged = append(merged, candidate)
		}
	}

	return toTipLists(merged), nil
}

// meanStdev computes the mean and standard deviation of metric over
// every unordered pair of pooled tips, using the sums-of-squares form
// (sum_sq*n - sum*sum)/n² so a single pass suffices. Small negative
// variance from floating rounding is clamped to zero before sqrt. A
// pooled tip count of 0 or 1 (no pairs at all, a NumericEdge per
// spec.md §7) yields a zero mean and stdev, so the caller's threshold
// collapses to zero.
func meanStdev(metric Matrix, tips RawCluster) (mean, stdev float64) {
	var sum, sumSq float64
	var count int
	for i := 0; i < len(tips)-1; i++ {
		for j := i + 1; j < len(tips); j++ {
			v := metric.Get(tips[i].GetTip(), tips[j].GetTip())
			sum += v
			sumSq += v * v
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	mean = sum / float64(count)
	variance := (float64(count)*sumSq - sum*sum) / (float64(count) * float64(count))
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// clusterCompare approximates the metric between two clusters as the
// unordered mean of the pairwise metric across their cross product.
func clusterCompare(metric Matrix, a, b RawCluster) float64 {
	var sum float64
	var count int
	for _, x := range a {
		for _, y := range b {
			sum += metric.Get(x.GetTip(), y.GetTip())
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func toTipLists(merged []RawCluster) [][]int {
	out := make([][]int, len(merged))
	for i, rc := range merged {
		tips := make([]int, len(rc))
		for j, t := range rc {
			tips[j] = t.GetTip()
		}
		out[i] = tips
	}
	return out
}
