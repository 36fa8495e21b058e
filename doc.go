// Package dci implements Prioritized Dynamic Continuous Indexing, an
// approximate k-nearest-neighbour index over dense real-valued vectors
// in R^D. Given N points, it builds a set of composite indices — each a
// group of one-dimensional sorted random projections — and, optionally,
// a coarse-to-fine hierarchy of levels, then answers queries with a
// best-first, budget-limited traversal.
//
// # Key properties
//
//   - Append-only: points are added once via Add; there are no updates
//     or deletions afterward.
//   - In-memory only: no persistence, no disk format.
//   - Single metric: L2 distance, no pluggable metrics.
//   - Budget-driven, not distance-driven, termination: a query stops
//     once it has visited or retrieved enough candidates, not once it
//     has found "good enough" neighbours.
//
// # Quick start
//
//	cfg := dci.Config{Dim: 8, NumComposite: 20, NumSimple: 2}
//	idx, err := dci.Init(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// data is a Dim x N, column-major point matrix; the index borrows
//	// it for its lifetime and never copies or mutates it.
//	rng := rand.New(rand.NewSource(1))
//	if err := idx.Add(data, dci.ConstructionConfig{NumLevels: 2}, rng); err != nil {
//	    log.Fatal(err)
//	}
//
//	results, err := idx.Query(queryVec, 10, dci.DefaultQueryConfig())
//
// # Package layout
//
// pkg/gemm treats dense matrix-multiply as an injected capability rather
// than a vendored routine, with a gonum-backed default. pkg/index holds
// the index structures themselves: the projection store, sorted
// projection tables, the hierarchy builder, and the prioritized query
// engine. pkg/core wires those into the Engine lifecycle (Init/Add/
// Query/Clear/Reset) plus logging, configuration, and error handling.
// This top-level package is a thin, ergonomic façade over pkg/core.
package dci
