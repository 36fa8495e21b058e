// Package gemm defines the matrix-multiply capability the index core
// consumes to project data and queries through the projection matrix.
package gemm

import "fmt"

// Matrix is a dense, column-major matrix: Data[i+j*Rows] is row i, column j.
type Matrix struct {
	Rows, Cols int
	Data       []float64
}

// NewMatrix allocates a zeroed Rows x Cols column-major matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.Data[i+j*m.Rows]
}

// Set assigns the value at row i, column j.
func (m *Matrix) Set(i, j int, v float64) {
	m.Data[i+j*m.Rows] = v
}

// Col returns a view over column j as a slice of length Rows.
func (m *Matrix) Col(j int) []float64 {
	return m.Data[j*m.Rows : (j+1)*m.Rows]
}

// Engine computes C <- A^T * B for column-major matrices A (K x M) and
// B (K x N), producing C (M x N). Implementations are free to use any
// backend; the core treats this as a black box.
type Engine interface {
	MulT(a, b *Matrix) (*Matrix, error)
}

// ErrDimensionMismatch is returned when A and B don't share the same
// number of rows (the contraction dimension K).
var ErrDimensionMismatch = fmt.Errorf("gemm: A and B must share the same number of rows")
