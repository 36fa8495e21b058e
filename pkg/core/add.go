package core

import (
	"fmt"
	"math/rand"

	"github.com/liliang-cn/dci/pkg/gemm"
	"github.com/liliang-cn/dci/pkg/index"
)

// Add populates the index: dataset is a Dim x N, column-major point
// matrix that must remain valid (and unmutated) for the Engine's
// lifetime — the Engine borrows it, never copies it. rng seeds both
// projection sampling (skipped if a projection matrix already survives
// from a prior Add/Clear cycle) and the hierarchy's level-membership
// sampling.
//
// Add may only be called once per projection generation: call Clear to
// rebuild the hierarchy over new data while keeping the same
// projections, or Reset to also resample the projections before the next
// Add.
func (e *Engine) Add(dataset *gemm.Matrix, ccfg ConstructionConfig, rng *rand.Rand) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ccfg.validate(); err != nil {
		return wrapError("Add", err)
	}
	if dataset == nil || dataset.Rows != e.cfg.Dim {
		return wrapError("Add", ErrDimensionMismatch)
	}
	if dataset.Cols < 1 {
		return wrapError("Add", ErrEmptyIndex)
	}

	if e.proj == nil {
		proj, err := index.SampleProjections(e.cfg.Dim, e.cfg.NumComposite, e.cfg.NumSimple, rng)
		if err != nil {
			// Config.validate has already rejected non-positive dimensions,
			// so the only failure left is a projection matrix too large to
			// allocate.
			return wrapError("Add", fmt.Errorf("%w: %v", ErrAllocationFailure, err))
		}
		e.proj = proj
	}

	hierarchy, err := index.BuildHierarchy(e.gemmEngine, e.proj, dataset, ccfg.NumLevels, rng)
	if err != nil {
		return wrapError("Add", err)
	}

	e.dataset = dataset
	e.hierarchy = hierarchy
	e.built = true

	e.logger.WithComponent("add").Info("index built", "n", dataset.Cols, "dim", e.cfg.Dim,
		"num_composite", e.cfg.NumComposite, "num_simple", e.cfg.NumSimple, "num_levels", ccfg.NumLevels)

	return nil
}
