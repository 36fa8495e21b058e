// Package index implements the DCI index structures: the projection
// store, sorted projection tables, the coarse-to-fine hierarchy, and the
// prioritized query engine that ties them together.
package index

import (
	"fmt"
	"math"
	"math/rand"
)

// Projection owns the dim x (numComposite*numSimple) matrix of unit
// projection directions, column-major.
type Projection struct {
	Dim          int
	NumComposite int
	NumSimple    int
	Matrix       []float64 // dim * (numComposite*numSimple), column-major
}

// Cols returns the total number of projection columns (numComposite*numSimple).
func (p *Projection) Cols() int {
	return p.NumComposite * p.NumSimple
}

// Column returns a view over projection column j, length Dim.
func (p *Projection) Column(j int) []float64 {
	return p.Matrix[j*p.Dim : (j+1)*p.Dim]
}

// SampleProjections draws a fresh projection matrix: every entry i.i.d.
// standard normal, then each column normalized to unit L2 norm. rng is
// caller-supplied so there is no hidden process-global generator.
func SampleProjections(dim, numComposite, numSimple int, rng *rand.Rand) (*Projection, error) {
	if dim <= 0 || numComposite <= 0 || numSimple <= 0 {
		return nil, fmt.Errorf("index: dim, numComposite and numSimple must all be positive")
	}

	cols := numComposite * numSimple
	size := dim * cols
	if size/dim != cols {
		return nil, fmt.Errorf("index: projection matrix size overflows int")
	}

	matrix := make([]float64, size)
	for j := 0; j < cols; j++ {
		col := matrix[j*dim : (j+1)*dim]
		var normSq float64
		for i := range col {
			v := rng.NormFloat64()
			col[i] = v
			normSq += v * v
		}
		norm := math.Sqrt(normSq)
		if norm == 0 {
			// Vanishingly unlikely for a Gaussian draw, but guard against a
			// degenerate all-zero column so every direction stays unit norm.
			col[0] = 1
			norm = 1
		}
		for i := range col {
			col[i] /= norm
		}
	}

	return &Projection{Dim: dim, NumComposite: numComposite, NumSimple: numSimple, Matrix: matrix}, nil
}
