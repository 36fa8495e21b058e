package gemm

import "gonum.org/v1/gonum/mat"

// GonumEngine is the default Engine, backed by gonum's dense matrix
// multiply. It is the library-provided alternative to a hand-rolled
// triple loop for the "GEMM as a capability" contract.
type GonumEngine struct{}

// NewGonumEngine returns the default gonum-backed GEMM engine.
func NewGonumEngine() *GonumEngine {
	return &GonumEngine{}
}

// MulT computes C <- A^T * B. A and B must have the same number of rows.
func (GonumEngine) MulT(a, b *Matrix) (*Matrix, error) {
	if a.Rows != b.Rows {
		return nil, ErrDimensionMismatch
	}

	// mat.NewDense takes row-major data; our Matrix is column-major, so we
	// build the Dense views via the transpose trick: a column-major K x M
	// matrix is the same backing layout as a row-major M x K matrix.
	aT := mat.NewDense(a.Cols, a.Rows, a.Data)
	bView := mat.NewDense(b.Cols, b.Rows, b.Data)

	var c mat.Dense
	c.Mul(aT, bView.T())

	out := NewMatrix(a.Cols, b.Cols)
	for j := 0; j < b.Cols; j++ {
		for i := 0; i < a.Cols; i++ {
			out.Set(i, j, c.At(i, j))
		}
	}
	return out, nil
}
