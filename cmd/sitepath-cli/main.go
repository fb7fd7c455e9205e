// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package main

import (
	"encoding/json"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/evolbioinfo/sitepath/internal/config"
	"github.com/evolbioinfo/sitepath/lumpy"
	"github.com/evolbioinfo/sitepath/sitepath"
)

// fixture is the shape of the JSON file sitepath-cli drives: one
// rooted-tree path and one aligned sequence per tip, in matching
// order.
type fixture struct {
	TipPaths    [][]int  `json:"tipPaths"`
	AlignedSeqs []string `json:"alignedSeqs"`
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "sitepath-cli - site-based tip clustering over a rooted tree\n\nUsage:\n\n  %s [<options>] <fixture.json>\n\nAllowed options:\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	configPath := flag.StringP("config", "c", "", "run configuration YAML (defaults are used for any field it omits)")
	variant := flag.StringP("variant", "", "", "simMatrix or distMatrix (any other value uses simMatrix); overrides the config file")
	zValue := flag.IntP("z-value", "z", -1, "stringency multiplier k; overrides the config file (-1 means unset)")
	minSNP := flag.IntP("min-snp", "m", -1, "minimum cluster size to report; overrides the config file (-1 means unset)")
	sites := flag.IntSliceP("site", "s", nil, "1-based alignment site to cluster on; may be repeated")
	help := flag.BoolP("help", "?", false, "this message")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "No fixture file specified, see --help")
		os.Exit(1)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "Error:", r)
			os.Exit(1)
		}
	}()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if *variant != "" {
		cfg.Run.Variant = *variant
	}
	if *zValue >= 0 {
		cfg.Run.ZValue = *zValue
	}
	if *minSNP >= 0 {
		cfg.Run.MinSNP = *minSNP
	}
	siteIndices := *sites
	if len(siteIndices) == 0 {
		fmt.Fprintln(os.Stderr, "No --site given, see --help")
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Reading fixture '%s' ...", args[0])
	fx, err := readFixture(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError while reading fixture:\n%s\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done.\n")

	alignedSeqs := make([][]byte, len(fx.AlignedSeqs))
	for i, s := range fx.AlignedSeqs {
		alignedSeqs[i] = []byte(s)
	}

	fmt.Fprintf(os.Stdout, "Clustering on %d site(s) using %s ...", len(siteIndices), cfg.Run.Variant)
	clusters, err := runClustering(cfg, fx.TipPaths, alignedSeqs, siteIndices)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError while clustering:\n%s\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done.\n")

	for _, cl := range clusters {
		fmt.Fprintln(os.Stdout, cl)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

func readFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, err
	}
	return &fx, nil
}

// runClustering builds the appropriate metric matrix for cfg's
// variant and dispatches to the matching sitepath entry point.
// distMatrix derives a distance from the similarity matrix (1-sim)
// since the fixture format only carries raw aligned sequences.
func runClustering(cfg *config.Config, tipPaths [][]int, alignedSeqs [][]byte, siteIndices []int) ([][]int, error) {
	sim := sitepath.GetSimilarityMatrix(alignedSeqs)
	if cfg.Run.Variant == "distMatrix" {
		dist := toDistance(sim)
		return sitepath.TerminalTipsByDistMatrix(tipPaths, alignedSeqs, dist, siteIndices, cfg.Run.MinSNP, cfg.Run.ZValue)
	}
	return sitepath.TerminalTipsBySimMatrix(tipPaths, alignedSeqs, sim, siteIndices, cfg.Run.MinSNP, cfg.Run.ZValue)
}

func toDistance(sim lumpy.Matrix) lumpy.Matrix {
	dist := lumpy.NewMatrix(sim.Size())
	for i := 1; i <= sim.Size(); i++ {
		for j := i; j <= sim.Size(); j++ {
			dist.Set(i, j, 1-sim.Get(i, j))
		}
	}
	return dist
}
