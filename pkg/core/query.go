package core

import (
	"math"
	"sort"

	"github.com/liliang-cn/dci/pkg/gemm"
	"github.com/liliang-cn/dci/pkg/index"
)

// Result is one entry of a Query's ranked output.
type Result struct {
	GlobalID int32
	Dist     float64
}

// Stats reports the per-level visited/retrieved counts of a Query call,
// for diagnostics and benchmarking (spec.md section 4.4's complexity
// discussion made concrete). LevelVisited[l]/LevelRetrieved[l] are the
// sizes of V_l/R_l for level l.
type Stats struct {
	LevelVisited   []int
	LevelRetrieved []int
}

// Query projects q through the Engine's projection matrix and drives the
// prioritized query engine level by level, coarsest to finest, carrying
// field_of_view top-scoring retrieved points between levels. At the
// finest level it ranks the retrieved (or, in blind mode, visited) set by
// true L2 distance to q and returns up to k results ascending.
func (e *Engine) Query(q []float64, k int, qcfg QueryConfig) ([]Result, error) {
	results, _, err := e.QueryWithStats(q, k, qcfg)
	return results, err
}

// QueryWithStats is Query plus the per-level Stats accumulated along the
// way, used by cmd/dci's bench subcommand.
func (e *Engine) QueryWithStats(q []float64, k int, qcfg QueryConfig) ([]Result, Stats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.built {
		return nil, Stats{}, wrapError("Query", ErrEmptyIndex)
	}
	if len(q) == 0 {
		return nil, Stats{}, wrapError("Query", ErrEmptyQuery)
	}
	if len(q) != e.cfg.Dim {
		return nil, Stats{}, wrapError("Query", ErrDimensionMismatch)
	}
	if err := validateQueryConfig(qcfg); err != nil {
		return nil, Stats{}, wrapError("Query", err)
	}

	qProj, err := e.projectQuery(q)
	if err != nil {
		return nil, Stats{}, wrapError("Query", err)
	}

	numComposite, numSimple := e.cfg.NumComposite, e.cfg.NumSimple
	h := e.hierarchy

	var allowed map[int32]bool // nil at level 0: no restriction
	var finalResult *index.LevelResult
	var stats Stats

	for l := 0; l < h.NumLevels; l++ {
		level := h.Levels[l]
		tables := index.RestrictTables(level.Tables, allowed)

		subPop := len(level.GlobalIDs)
		if allowed != nil {
			subPop = len(allowed)
		}

		res := index.RunLevel(tables, numComposite, numSimple, qProj, subPop, qcfg)
		stats.LevelVisited = append(stats.LevelVisited, len(res.Visited))
		stats.LevelRetrieved = append(stats.LevelRetrieved, len(res.Retrieved))
		e.logger.WithComponent("query").With("level", l).Debug("level run",
			"sub_pop", subPop, "visited", len(res.Visited), "retrieved", len(res.Retrieved))

		if l == h.NumLevels-1 {
			finalResult = res
			break
		}

		allowed = carryForward(res, level.GlobalIDs, h.Levels[l+1].GlobalIDs, h.NextLevelRanges[l], qcfg.FieldOfView)
	}

	candidates := finalResult.Retrieved
	if qcfg.Blind {
		candidates = finalResult.Visited
	}

	return e.rank(q, candidates, k, qcfg.Blind), stats, nil
}

// projectQuery computes q̂ = P^T · q for a single query vector.
func (e *Engine) projectQuery(q []float64) ([]float64, error) {
	qMatrix := &gemm.Matrix{Rows: e.cfg.Dim, Cols: 1, Data: append([]float64(nil), q...)}
	projMatrix := &gemm.Matrix{Rows: e.proj.Dim, Cols: e.proj.Cols(), Data: e.proj.Matrix}
	out, err := e.gemmEngine.MulT(projMatrix, qMatrix)
	if err != nil {
		return nil, err
	}
	return out.Col(0), nil
}

// carryForward picks the top field_of_view retrieved points (by smallest
// BestPriority, i.e. closest observed projected distance) from the level
// just run, and expands them through next_level_ranges into the set of
// finer-level global ids to restrict the next level to.
func carryForward(res *index.LevelResult, levelGlobalIDs, finerGlobalIDs []int32, ranges []index.Range, fieldOfView int) map[int32]bool {
	globalToLocal := make(map[int32]int32, len(levelGlobalIDs))
	for i, g := range levelGlobalIDs {
		globalToLocal[g] = int32(i)
	}

	type scored struct {
		global   int32
		priority float64
	}
	carried := make([]scored, 0, len(res.Retrieved))
	for g := range res.Retrieved {
		carried = append(carried, scored{global: g, priority: res.BestPriority[g]})
	}
	sort.Slice(carried, func(i, j int) bool {
		if carried[i].priority != carried[j].priority {
			return carried[i].priority < carried[j].priority
		}
		return carried[i].global < carried[j].global
	})
	if fieldOfView > 0 && len(carried) > fieldOfView {
		carried = carried[:fieldOfView]
	}

	allowed := make(map[int32]bool)
	for _, c := range carried {
		local := globalToLocal[c.global]
		r := ranges[local]
		for i := r.Start; i < r.Start+r.Num; i++ {
			allowed[finerGlobalIDs[i]] = true
		}
	}
	return allowed
}

// rank computes true L2 distance from q to each candidate and returns up
// to k results ascending by distance. In blind mode k is ignored and
// every candidate is returned.
func (e *Engine) rank(q []float64, candidates map[int32]bool, k int, blind bool) []Result {
	results := make([]Result, 0, len(candidates))
	for g := range candidates {
		results = append(results, Result{GlobalID: g, Dist: e.l2Dist(q, g)})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Dist != results[j].Dist {
			return results[i].Dist < results[j].Dist
		}
		return results[i].GlobalID < results[j].GlobalID
	})
	if !blind && k < len(results) {
		results = results[:k]
	}
	return results
}

func (e *Engine) l2Dist(q []float64, global int32) float64 {
	col := e.dataset.Col(int(global))
	var sum float64
	for i, v := range q {
		d := col[i] - v
		sum += d * d
	}
	return math.Sqrt(sum)
}
