package gemm

import "testing"

func TestGonumEngineMulT(t *testing.T) {
	// A: 2x3 (2 rows, 3 cols), column-major
	a := &Matrix{Rows: 2, Cols: 3, Data: []float64{
		1, 2, // col 0
		3, 4, // col 1
		5, 6, // col 2
	}}
	// B: 2x2, column-major
	b := &Matrix{Rows: 2, Cols: 2, Data: []float64{
		1, 0, // col 0
		0, 1, // col 1
	}}

	out, err := NewGonumEngine().MulT(a, b)
	if err != nil {
		t.Fatalf("MulT: %v", err)
	}
	if out.Rows != 3 || out.Cols != 2 {
		t.Fatalf("got shape %dx%d, want 3x2", out.Rows, out.Cols)
	}

	// A^T * B with B = identity should return A^T unchanged.
	want := [][2]float64{{1, 2}, {3, 4}, {5, 6}}
	for i := 0; i < 3; i++ {
		if out.At(i, 0) != want[i][0] || out.At(i, 1) != want[i][1] {
			t.Errorf("row %d: got (%v, %v), want (%v, %v)", i, out.At(i, 0), out.At(i, 1), want[i][0], want[i][1])
		}
	}
}

func TestMulTRejectsDimensionMismatch(t *testing.T) {
	a := NewMatrix(3, 2)
	b := NewMatrix(4, 2)
	if _, err := NewGonumEngine().MulT(a, b); err != ErrDimensionMismatch {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
}

func TestMatrixAtSetRoundTrip(t *testing.T) {
	m := NewMatrix(3, 4)
	m.Set(1, 2, 9.5)
	if got := m.At(1, 2); got != 9.5 {
		t.Errorf("At(1,2) = %v, want 9.5", got)
	}
	col := m.Col(2)
	if col[1] != 9.5 {
		t.Errorf("Col(2)[1] = %v, want 9.5", col[1])
	}
}
