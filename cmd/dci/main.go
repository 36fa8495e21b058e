package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/dci/pkg/core"
	"github.com/liliang-cn/dci/pkg/gemm"
)

var (
	dim            int
	numComposite   int
	numSimple      int
	numLevels      int
	numPoints      int
	intrinsicDim   int
	numQueries     int
	topK           int
	seed           int64
	blind          bool
	numToVisit     int
	propToVisit    float64
	numToRetrieve  int
	propToRetrieve float64
	fieldOfView    int
	verbose        bool
)

var rootCmd = &cobra.Command{
	Use:   "dci",
	Short: "CLI demo for the prioritized DCI approximate k-NN index",
	Long:  `A command-line demo that generates synthetic data, builds a DCI index over it, and runs queries against it. No persistence: every invocation builds a fresh in-memory index.`,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate synthetic data and report the time to build an index over it",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewSource(seed))
		start := time.Now()
		_, idx, _, err := buildDemoIndex(rng)
		elapsed := time.Since(start)
		if err != nil {
			return fmt.Errorf("build: %w", err)
		}
		fmt.Printf("built index: n=%d dim=%d num_composite=%d num_simple=%d num_levels=%d elapsed=%s\n",
			idx.Len(), dim, numComposite, numSimple, numLevels, elapsed)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Build a fresh index and run a batch of random queries against it",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewSource(seed))
		_, idx, _, err := buildDemoIndex(rng)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}

		queries := make([][]float64, numQueries)
		for i := range queries {
			q := make([]float64, dim)
			for j := range q {
				q[j] = 2*rng.Float64() - 1
			}
			queries[i] = q
		}

		qcfg := queryConfigFromFlags()
		for i, q := range queries {
			results, err := idx.Query(q, topK, qcfg)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			fmt.Printf("query %d:\n", i)
			for _, r := range results {
				fmt.Printf("  id=%d dist=%.6f\n", r.GlobalID, r.Dist)
			}
		}
		return nil
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Build a fresh index and report visited/retrieved counts and wall-clock per query",
	RunE: func(cmd *cobra.Command, args []string) error {
		rng := rand.New(rand.NewSource(seed))
		_, idx, _, err := buildDemoIndex(rng)
		if err != nil {
			return fmt.Errorf("bench: %w", err)
		}

		qcfg := queryConfigFromFlags()
		var totalVisited, totalRetrieved int
		var totalElapsed time.Duration

		for i := 0; i < numQueries; i++ {
			q := make([]float64, dim)
			for j := range q {
				q[j] = 2*rng.Float64() - 1
			}

			start := time.Now()
			results, stats, err := idx.QueryWithStats(q, topK, qcfg)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			totalElapsed += elapsed

			visited, retrieved := 0, 0
			for _, v := range stats.LevelVisited {
				visited += v
			}
			for _, r := range stats.LevelRetrieved {
				retrieved += r
			}
			totalVisited += visited
			totalRetrieved += retrieved

			if verbose {
				fmt.Printf("query %d: visited=%d retrieved=%d results=%d elapsed=%s\n",
					i, visited, retrieved, len(results), elapsed)
			}
		}

		fmt.Printf("%d queries: avg_visited=%.1f avg_retrieved=%.1f avg_elapsed=%s\n",
			numQueries,
			float64(totalVisited)/float64(numQueries),
			float64(totalRetrieved)/float64(numQueries),
			totalElapsed/time.Duration(numQueries))
		return nil
	},
}

// buildDemoIndex generates a synthetic dataset via genData and builds an
// index over it, returning the gemm engine and raw dataset too so
// subcommands can reuse them without recomputing.
func buildDemoIndex(rng *rand.Rand) (gemm.Engine, *core.Engine, *gemm.Matrix, error) {
	eng := gemm.NewGonumEngine()

	data, err := genData(rng, eng, dim, intrinsicDim, numPoints)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("generating data: %w", err)
	}

	cfg := core.Config{Dim: dim, NumComposite: numComposite, NumSimple: numSimple}
	opts := []core.Option{core.WithGEMMEngine(eng)}
	if verbose {
		opts = append(opts, core.WithLogger(core.NewStdLogger(core.LevelInfo)))
	}

	idx, err := core.New(cfg, opts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing index: %w", err)
	}

	ccfg := core.ConstructionConfig{NumLevels: numLevels}
	if err := idx.Add(data, ccfg, rng); err != nil {
		return nil, nil, nil, fmt.Errorf("adding data: %w", err)
	}

	return eng, idx, data, nil
}

func queryConfigFromFlags() core.QueryConfig {
	return core.QueryConfig{
		Blind:          blind,
		NumToVisit:     numToVisit,
		PropToVisit:    propToVisit,
		NumToRetrieve:  numToRetrieve,
		PropToRetrieve: propToRetrieve,
		FieldOfView:    fieldOfView,
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(&dim, "dim", 8, "ambient vector space dimension")
	rootCmd.PersistentFlags().IntVar(&numComposite, "num-composite", 20, "number of composite indices")
	rootCmd.PersistentFlags().IntVar(&numSimple, "num-simple", 2, "number of simple indices per composite")
	rootCmd.PersistentFlags().IntVar(&numLevels, "num-levels", 1, "number of hierarchy levels")
	rootCmd.PersistentFlags().IntVar(&numPoints, "num-points", 1000, "number of synthetic points to generate")
	rootCmd.PersistentFlags().IntVar(&intrinsicDim, "intrinsic-dim", 4, "intrinsic subspace dimension for synthetic data")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "random seed")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	for _, c := range []*cobra.Command{queryCmd, benchCmd} {
		c.Flags().IntVar(&numQueries, "num-queries", 10, "number of queries to run")
		c.Flags().IntVar(&topK, "k", 10, "number of neighbors to retrieve per query")
		c.Flags().BoolVar(&blind, "blind", false, "run in blind mode (ignore k, return every visited point)")
		c.Flags().IntVar(&numToVisit, "num-to-visit", 100, "minimum points to visit before stopping")
		c.Flags().Float64Var(&propToVisit, "prop-to-visit", 0.1, "minimum proportion of the sub-population to visit")
		c.Flags().IntVar(&numToRetrieve, "num-to-retrieve", 10, "minimum points to retrieve before stopping")
		c.Flags().Float64Var(&propToRetrieve, "prop-to-retrieve", 0.1, "minimum proportion of the sub-population to retrieve")
		c.Flags().IntVar(&fieldOfView, "field-of-view", 10, "candidates carried from each level to the next")
	}

	rootCmd.AddCommand(buildCmd, queryCmd, benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
