package index

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/liliang-cn/dci/pkg/gemm"
)

// Range is a contiguous slice [Start, Start+Num) into a finer level's
// GlobalIDs, holding the descendants of one coarser-level point.
type Range struct {
	Start int32
	Num   int32
}

// Level is one level of the coarse-to-fine hierarchy: the global ids of
// the points assigned to it (index in this slice is the level-local id)
// and their projection tables.
type Level struct {
	GlobalIDs []int32
	Tables    []Table
}

// Hierarchy is the coarse-to-fine structure built over a dataset: Levels
// runs from coarsest (index 0) to finest (index NumLevels-1, the full
// population). NextLevelRanges[l] and NumFinestLevelPoints[l] are indexed
// by a level-l local id and only populated for non-leaf levels
// (0..NumLevels-2).
type Hierarchy struct {
	NumLevels            int
	Levels               []*Level
	NextLevelRanges      [][]Range
	NumFinestLevelPoints [][]int32
}

// levelSize returns ceil(n^((l+1)/numLevels)), clamped to [1, n], per
// spec.md section 4.3's geometric level population formula.
func levelSize(n, l, numLevels int) int {
	frac := float64(l+1) / float64(numLevels)
	s := int(math.Ceil(math.Pow(float64(n), frac)))
	if s < 1 {
		s = 1
	}
	if s > n {
		s = n
	}
	return s
}

func buildLevelTables(eng gemm.Engine, proj *Projection, data *gemm.Matrix, globalIDs []int32) ([]Table, error) {
	sub := gemm.NewMatrix(data.Rows, len(globalIDs))
	for i, g := range globalIDs {
		copy(sub.Col(i), data.Col(int(g)))
	}
	localIDs := make([]int32, len(globalIDs))
	for i := range localIDs {
		localIDs[i] = int32(i)
	}
	return BuildTables(eng, proj, sub, globalIDs, localIDs)
}

// nearestFrom picks the global id with the smallest BestPriority observed
// during a level run, tie-breaking on the lower global id. It is the
// "nearest point under DCI" readout used both to assign hierarchy parents
// and, at the finest level, is superseded by true L2 ranking.
func nearestFrom(res *LevelResult) (int32, bool) {
	var best int32
	bestPriority := math.Inf(1)
	found := false
	for g, pr := range res.BestPriority {
		if !found || pr < bestPriority || (pr == bestPriority && g < best) {
			best, bestPriority, found = g, pr, true
		}
	}
	return best, found
}

// assignAndGroup assigns each point in childRaw to its nearest point in
// the (already built) parent level, via a unit-budget run of the
// prioritized query engine (spec.md section 4.3), then regroups the
// children so that points sharing a parent sit in a contiguous range.
func assignAndGroup(
	parentGlobalIDs []int32,
	parentGlobalToLocal map[int32]int32,
	parentTables []Table,
	childRaw []int32,
	eng gemm.Engine,
	proj *Projection,
	data *gemm.Matrix,
	cfg QueryConfig,
) ([]int32, []Range, error) {
	children := append([]int32(nil), childRaw...)
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })

	childData := gemm.NewMatrix(data.Rows, len(children))
	for i, g := range children {
		copy(childData.Col(i), data.Col(int(g)))
	}
	projMatrix := &gemm.Matrix{Rows: proj.Dim, Cols: proj.Cols(), Data: proj.Matrix}
	qProjAll, err := eng.MulT(projMatrix, childData)
	if err != nil {
		return nil, nil, err
	}

	buckets := make([][]int32, len(parentGlobalIDs))
	for i, g := range children {
		res := RunLevel(parentTables, proj.NumComposite, proj.NumSimple, qProjAll.Col(i), len(parentGlobalIDs), cfg)
		nearestGlobal, ok := nearestFrom(res)
		if !ok {
			return nil, nil, fmt.Errorf("index: unit-budget parent assignment visited nothing for child %d", g)
		}
		parentLocal := parentGlobalToLocal[nearestGlobal]
		buckets[parentLocal] = append(buckets[parentLocal], g)
	}

	grouped := make([]int32, 0, len(children))
	ranges := make([]Range, len(parentGlobalIDs))
	for p, bucket := range buckets {
		ranges[p] = Range{Start: int32(len(grouped)), Num: int32(len(bucket))}
		grouped = append(grouped, bucket...)
	}
	return grouped, ranges, nil
}

func computeNumFinestLevelPoints(ranges [][]Range, numLevels int) [][]int32 {
	if numLevels < 2 {
		return nil
	}
	numFinest := make([][]int32, numLevels-1)
	leaf := numLevels - 2
	numFinest[leaf] = make([]int32, len(ranges[leaf]))
	for p, r := range ranges[leaf] {
		numFinest[leaf][p] = r.Num
	}
	for l := leaf - 1; l >= 0; l-- {
		numFinest[l] = make([]int32, len(ranges[l]))
		for p, r := range ranges[l] {
			var sum int32
			for q := r.Start; q < r.Start+r.Num; q++ {
				sum += numFinest[l+1][q]
			}
			numFinest[l][p] = sum
		}
	}
	return numFinest
}

// BuildHierarchy constructs the coarse-to-fine hierarchy over data (a
// dim x n, column-major point matrix) using numLevels levels. Level 0 is
// coarsest; level numLevels-1 is the full population. rng drives both the
// nested level-membership sampling and is otherwise unused here (parent
// assignment is deterministic given the already-sampled projections).
func BuildHierarchy(eng gemm.Engine, proj *Projection, data *gemm.Matrix, numLevels int, rng *rand.Rand) (*Hierarchy, error) {
	n := data.Cols
	if numLevels < 1 {
		return nil, fmt.Errorf("index: numLevels must be positive")
	}
	if n < 1 {
		return nil, fmt.Errorf("index: dataset must contain at least one point")
	}

	perm := rng.Perm(n)

	levels := make([]*Level, numLevels)

	lvl0Size := levelSize(n, 0, numLevels)
	lvl0IDs := make([]int32, lvl0Size)
	for i, g := range perm[:lvl0Size] {
		lvl0IDs[i] = int32(g)
	}
	sort.Slice(lvl0IDs, func(i, j int) bool { return lvl0IDs[i] < lvl0IDs[j] })

	tables0, err := buildLevelTables(eng, proj, data, lvl0IDs)
	if err != nil {
		return nil, err
	}
	levels[0] = &Level{GlobalIDs: lvl0IDs, Tables: tables0}

	if numLevels == 1 {
		return &Hierarchy{NumLevels: 1, Levels: levels}, nil
	}

	ranges := make([][]Range, numLevels-1)
	assignCfg := QueryConfig{Blind: true, NumToVisit: 1}

	for l := 0; l < numLevels-1; l++ {
		var childRaw []int32
		if l+1 == numLevels-1 {
			childRaw = make([]int32, n)
			for i := 0; i < n; i++ {
				childRaw[i] = int32(i)
			}
		} else {
			size := levelSize(n, l+1, numLevels)
			childRaw = make([]int32, size)
			for i, g := range perm[:size] {
				childRaw[i] = int32(g)
			}
		}

		parentGlobalToLocal := make(map[int32]int32, len(levels[l].GlobalIDs))
		for i, g := range levels[l].GlobalIDs {
			parentGlobalToLocal[g] = int32(i)
		}

		grouped, rngs, err := assignAndGroup(levels[l].GlobalIDs, parentGlobalToLocal, levels[l].Tables, childRaw, eng, proj, data, assignCfg)
		if err != nil {
			return nil, err
		}

		tables, err := buildLevelTables(eng, proj, data, grouped)
		if err != nil {
			return nil, err
		}

		levels[l+1] = &Level{GlobalIDs: grouped, Tables: tables}
		ranges[l] = rngs
	}

	return &Hierarchy{
		NumLevels:            numLevels,
		Levels:               levels,
		NextLevelRanges:      ranges,
		NumFinestLevelPoints: computeNumFinestLevelPoints(ranges, numLevels),
	}, nil
}
