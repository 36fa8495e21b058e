package index

import (
	"sort"

	"github.com/liliang-cn/dci/pkg/gemm"
)

// Element is a single (projected_value, local_id, global_id) entry in a
// sorted projection table.
type Element struct {
	Key    float64
	Local  int32
	Global int32
}

// Table is a simple index's sorted projection table: all Elements for one
// projection column, kept sorted ascending by Key.
type Table []Element

// BuildTables projects pointData (dim x n, column-major) through proj and
// returns one sorted Table per projection column. globalIDs[i] is the
// original dataset index of point i; localIDs[i] is its index within the
// level being built (the two coincide only when the level lists every
// point in ascending id order, as a single-level index does).
func BuildTables(eng gemm.Engine, proj *Projection, pointData *gemm.Matrix, globalIDs, localIDs []int32) ([]Table, error) {
	n := pointData.Cols
	projMatrix := &gemm.Matrix{Rows: proj.Dim, Cols: proj.Cols(), Data: proj.Matrix}

	projected, err := eng.MulT(projMatrix, pointData) // (C*S) x n
	if err != nil {
		return nil, err
	}

	tables := make([]Table, proj.Cols())
	for j := range tables {
		t := make(Table, n)
		for p := 0; p < n; p++ {
			t[p] = Element{Key: projected.At(j, p), Local: localIDs[p], Global: globalIDs[p]}
		}
		sort.Slice(t, func(a, b int) bool { return t[a].Key < t[b].Key })
		tables[j] = t
	}
	return tables, nil
}

// ClosestIndex returns the position i such that table[i].Key is the
// largest key <= target, or 0 if target precedes every key. Callers that
// also want the next-larger candidate use i+1 when it is in range.
func ClosestIndex(t Table, target float64) int {
	if len(t) == 0 {
		return 0
	}
	// sort.Search finds the smallest i such that t[i].Key > target.
	i := sort.Search(len(t), func(i int) bool { return t[i].Key > target })
	if i == 0 {
		return 0
	}
	return i - 1
}
