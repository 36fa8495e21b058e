package dci

import "github.com/liliang-cn/dci/pkg/core"

// Common errors, re-exported from pkg/core so callers can errors.Is
// against them without importing pkg/core directly.
var (
	// ErrDimensionMismatch is returned when a point's dimension doesn't
	// match the dimension fixed by Init.
	ErrDimensionMismatch = core.ErrDimensionMismatch

	// ErrEmptyIndex is returned when Query is called before Add, or after
	// Clear/Reset.
	ErrEmptyIndex = core.ErrEmptyIndex

	// ErrInvalidConfig is returned for non-positive budgets, L < 1, C < 1
	// or S < 1.
	ErrInvalidConfig = core.ErrInvalidConfig

	// ErrEmptyQuery is returned when a query vector is nil or empty.
	ErrEmptyQuery = core.ErrEmptyQuery

	// ErrAllocationFailure is returned when a buffer needed to hold a
	// projection, table, or dataset cannot be allocated.
	ErrAllocationFailure = core.ErrAllocationFailure
)

// EngineError wraps an error with the operation name that produced it.
type EngineError = core.EngineError
