package dci

import (
	"fmt"

	"github.com/liliang-cn/dci/pkg/core"
)

// Index is a DCI index. See pkg/core.Engine for the full method set;
// Index is a type alias so every core.Engine method is available
// directly on a dci.Index.
type Index = core.Engine

// Config, ConstructionConfig, QueryConfig and Result are re-exported from
// pkg/core so callers never need to import it directly.
type (
	Config             = core.Config
	ConstructionConfig = core.ConstructionConfig
	QueryConfig        = core.QueryConfig
	Result             = core.Result
	Option             = core.Option
)

// Init fixes an Index's dimensions (spec.md section 6's init operation).
// No data is indexed yet; call Add.
func Init(cfg Config, opts ...Option) (*Index, error) {
	return core.New(cfg, opts...)
}

// DefaultConfig, DefaultConstructionConfig and DefaultQueryConfig forward
// to their pkg/core counterparts.
func DefaultConfig(dim int) Config                  { return core.DefaultConfig(dim) }
func DefaultConstructionConfig() ConstructionConfig { return core.DefaultConstructionConfig() }
func DefaultQueryConfig() QueryConfig               { return core.DefaultQueryConfig() }

// Logger is pkg/core's logging interface, re-exported so callers can
// implement or pass one through WithLogger without importing pkg/core.
type Logger = core.Logger

// WithGEMMEngine and WithLogger forward to pkg/core's Options.
var (
	WithGEMMEngine = core.WithGEMMEngine
	WithLogger     = core.WithLogger
	NopLogger      = core.NopLogger
	NewStdLogger   = core.NewStdLogger
)

// QueryBatch runs Query once per row of queries (a numQueries x Dim,
// row-major slice of slices) and gathers the per-query variable-length
// outputs spec.md section 6 describes as query's external signature:
// ids[j], dists[j] and counts[j] for the j-th query.
func QueryBatch(ix *Index, queries [][]float64, k int, cfg QueryConfig) (ids [][]int32, dists [][]float64, counts []int, err error) {
	ids = make([][]int32, len(queries))
	dists = make([][]float64, len(queries))
	counts = make([]int, len(queries))

	for j, q := range queries {
		results, qErr := ix.Query(q, k, cfg)
		if qErr != nil {
			return nil, nil, nil, fmt.Errorf("dci: query %d: %w", j, qErr)
		}
		rowIDs := make([]int32, len(results))
		rowDists := make([]float64, len(results))
		for i, r := range results {
			rowIDs[i] = r.GlobalID
			rowDists[i] = r.Dist
		}
		ids[j], dists[j], counts[j] = rowIDs, rowDists, len(results)
	}
	return ids, dists, counts, nil
}
