package core

// Clear drops the hierarchy and the dataset reference, keeping the
// sampled projection matrix. The next Add rebuilds tables and the
// hierarchy over new data without resampling projections.
func (e *Engine) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.hierarchy = nil
	e.dataset = nil
	e.built = false

	e.logger.WithComponent("clear").Info("index cleared")
	return nil
}

// Reset is Clear plus dropping the projection matrix, so the next Add
// resamples it. Calling Add with an RNG seeded identically to the one
// used before Reset reproduces the prior index bit-for-bit.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.proj = nil
	e.hierarchy = nil
	e.dataset = nil
	e.built = false

	e.logger.WithComponent("reset").Info("index reset")
	return nil
}

// Free releases the Engine's reference to its dataset and internal
// structures. Go's garbage collector reclaims them once the last
// reference (this one, and any the caller still holds to the Engine
// itself) drops; Free exists so callers migrating from the reference C
// API have an explicit lifecycle hook to call.
func (e *Engine) Free() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.proj = nil
	e.hierarchy = nil
	e.dataset = nil
	e.built = false
}
