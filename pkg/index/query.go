package index

import (
	"container/heap"
	"math"
	"sort"
)

// QueryConfig carries the termination budget and hierarchy navigation
// knobs described in spec.md section 6. The reference dci_query_config_t's
// min_num_finest_level_points is not reproduced here: the original header
// documents it as "internal use only; setting it has no effect" and it is
// never read anywhere in original_source's own .c files either — this
// restructuring computes each level's sub-population directly from
// len(level.GlobalIDs)/len(allowed) rather than through a carried field,
// so there is nothing for it to do here that isn't already dead in the
// reference implementation it comes from.
type QueryConfig struct {
	Blind          bool
	NumToVisit     int
	PropToVisit    float64
	NumToRetrieve  int
	PropToRetrieve float64
	FieldOfView    int
}

// budgetMet reports whether the level's termination condition (spec.md
// section 4.4 step 5) has fired.
func budgetMet(visited, retrieved, subPop int, cfg QueryConfig) bool {
	visitBudget := math.Max(float64(cfg.NumToVisit), cfg.PropToVisit*float64(subPop))
	if float64(visited) >= visitBudget {
		return true
	}
	if !cfg.Blind {
		retrieveBudget := math.Max(float64(cfg.NumToRetrieve), cfg.PropToRetrieve*float64(subPop))
		if float64(retrieved) >= retrieveBudget {
			return true
		}
	}
	return false
}

// cursorState is the (left, right) pair over one simple index's sorted
// table, stepped outward from the point closest to target on either side.
type cursorState struct {
	table  Table
	target float64
	left   int // -1 once exhausted
	right  int // -1 once exhausted
}

func newCursorState(table Table, target float64) *cursorState {
	rawRight := sort.Search(len(table), func(i int) bool { return table[i].Key > target })
	right := rawRight
	if right >= len(table) {
		right = -1
	}
	left := rawRight - 1
	if left < 0 {
		left = -1
	}
	return &cursorState{table: table, target: target, left: left, right: right}
}

// next returns the next candidate on this simple index: whichever of
// left/right is closer to target, then steps that side outward.
func (cs *cursorState) next() (Element, bool) {
	switch {
	case cs.left < 0 && cs.right < 0:
		return Element{}, false
	case cs.left < 0:
		e := cs.table[cs.right]
		cs.right++
		if cs.right >= len(cs.table) {
			cs.right = -1
		}
		return e, true
	case cs.right < 0:
		e := cs.table[cs.left]
		cs.left--
		return e, true
	default:
		dl := math.Abs(cs.table[cs.left].Key - cs.target)
		dr := math.Abs(cs.table[cs.right].Key - cs.target)
		if dl <= dr {
			e := cs.table[cs.left]
			cs.left--
			return e, true
		}
		e := cs.table[cs.right]
		cs.right++
		if cs.right >= len(cs.table) {
			cs.right = -1
		}
		return e, true
	}
}

// pqItem is one entry in a composite index's priority queue.
type pqItem struct {
	priority  float64
	global    int32
	simpleIdx int
}

// pqHeap implements container/heap.Interface, ordered by increasing
// priority then by increasing global id (spec.md section 4.4).
type pqHeap []pqItem

func (h pqHeap) Len() int { return len(h) }
func (h pqHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].global < h[j].global
}
func (h pqHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *pqHeap) Push(x any)   { *h = append(*h, x.(pqItem)) }
func (h *pqHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// LevelResult is the outcome of running the prioritized engine over one
// level's (possibly restricted) sub-population.
type LevelResult struct {
	Visited      map[int32]bool
	Retrieved    map[int32]bool
	BestPriority map[int32]float64 // smallest |key-target| seen per global id, for field-of-view ranking
}

// RunLevel drives the prioritized query engine over one level's tables,
// already restricted to the active sub-population by the caller. tables
// must have length numComposite*numSimple, column j = composite*numSimple+simple.
// qProj is the query's projection, same length and layout.
func RunLevel(tables []Table, numComposite, numSimple int, qProj []float64, subPopSize int, cfg QueryConfig) *LevelResult {
	cursors := make([][]*cursorState, numComposite)
	heaps := make([]pqHeap, numComposite)
	states := make([]*compositeState, numComposite)

	for c := 0; c < numComposite; c++ {
		cursors[c] = make([]*cursorState, numSimple)
		states[c] = newCompositeState(numSimple)
		h := make(pqHeap, 0, numSimple)
		for s := 0; s < numSimple; s++ {
			col := c*numSimple + s
			cur := newCursorState(tables[col], qProj[col])
			cursors[c][s] = cur
			if e, ok := cur.next(); ok {
				h = append(h, pqItem{priority: math.Abs(e.Key - qProj[col]), global: e.Global, simpleIdx: s})
			}
		}
		heap.Init(&h)
		heaps[c] = h
	}

	majorityThreshold := int(math.Ceil(float64(numComposite) / 2))
	visited := make(map[int32]bool)
	retrieved := make(map[int32]bool)
	bestPriority := make(map[int32]float64)
	voteCount := make(map[int32]int)

	for {
		if budgetMet(len(visited), len(retrieved), subPopSize, cfg) {
			break
		}

		best := -1
		var bestTop pqItem
		for c := 0; c < numComposite; c++ {
			if len(heaps[c]) == 0 {
				continue
			}
			top := heaps[c][0]
			if best == -1 || top.priority < bestTop.priority {
				best = c
				bestTop = top
			}
		}
		if best == -1 {
			break // every composite's cursors are drained
		}

		item := heap.Pop(&heaps[best]).(pqItem)

		if prev, ok := bestPriority[item.global]; !ok || item.priority < prev {
			bestPriority[item.global] = item.priority
		}
		visited[item.global] = true

		if states[best].visit(item.global) {
			voteCount[item.global]++
			if voteCount[item.global] == majorityThreshold {
				retrieved[item.global] = true
			}
		}

		col := best*numSimple + item.simpleIdx
		if e, ok := cursors[best][item.simpleIdx].next(); ok {
			heap.Push(&heaps[best], pqItem{priority: math.Abs(e.Key - qProj[col]), global: e.Global, simpleIdx: item.simpleIdx})
		}
	}

	return &LevelResult{Visited: visited, Retrieved: retrieved, BestPriority: bestPriority}
}

// RestrictTables filters each of tables down to the entries whose Global
// id is present in allowed, preserving sort order. A nil allowed set is
// treated as "no restriction" and returns tables unchanged.
func RestrictTables(tables []Table, allowed map[int32]bool) []Table {
	if allowed == nil {
		return tables
	}
	out := make([]Table, len(tables))
	for j, t := range tables {
		filtered := make(Table, 0, len(t))
		for _, e := range t {
			if allowed[e.Global] {
				filtered = append(filtered, e)
			}
		}
		out[j] = filtered
	}
	return out
}
