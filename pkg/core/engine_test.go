package core

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/liliang-cn/dci/pkg/gemm"
)

func newTestDataset(rng *rand.Rand, dim, n int) *gemm.Matrix {
	m := gemm.NewMatrix(dim, n)
	for i := range m.Data {
		m.Data[i] = rng.NormFloat64()
	}
	return m
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(Config{Dim: 0, NumComposite: 1, NumSimple: 1}); err == nil {
		t.Error("expected error for Dim=0")
	}
	if _, err := New(Config{Dim: 4, NumComposite: 0, NumSimple: 1}); err == nil {
		t.Error("expected error for NumComposite=0")
	}
}

func TestQueryBeforeAddReturnsErrEmptyIndex(t *testing.T) {
	e, err := New(Config{Dim: 4, NumComposite: 2, NumSimple: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = e.Query(make([]float64, 4), 1, DefaultQueryConfig())
	if !errors.Is(err, ErrEmptyIndex) {
		t.Fatalf("querying an empty index: got %v, want ErrEmptyIndex", err)
	}
}

func TestQueryAfterClearReturnsErrEmptyIndex(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	e, err := New(Config{Dim: 4, NumComposite: 2, NumSimple: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data := newTestDataset(rng, 4, 50)
	if err := e.Add(data, ConstructionConfig{NumLevels: 1}, rng); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := e.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := e.Query(make([]float64, 4), 1, DefaultQueryConfig()); !errors.Is(err, ErrEmptyIndex) {
		t.Fatalf("querying a cleared index: got %v, want ErrEmptyIndex", err)
	}
}

func TestAddRejectsDimensionMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	e, err := New(Config{Dim: 4, NumComposite: 2, NumSimple: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data := newTestDataset(rng, 8, 10) // wrong dim
	if err := e.Add(data, ConstructionConfig{NumLevels: 1}, rng); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("got %v, want ErrDimensionMismatch", err)
	}
	if e.Len() != 0 {
		t.Fatal("failed Add must not leave the engine built")
	}
}

func TestResetThenAddWithSameSeedReproducesIndex(t *testing.T) {
	cfg := Config{Dim: 6, NumComposite: 4, NumSimple: 2}
	dataSeed := rand.New(rand.NewSource(42))
	data := newTestDataset(dataSeed, 6, 80)

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Add(data, ConstructionConfig{NumLevels: 1}, rand.New(rand.NewSource(99))); err != nil {
		t.Fatalf("Add: %v", err)
	}
	firstProj := append([]float64(nil), e.proj.Matrix...)

	if err := e.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := e.Add(data, ConstructionConfig{NumLevels: 1}, rand.New(rand.NewSource(99))); err != nil {
		t.Fatalf("Add after Reset: %v", err)
	}
	secondProj := e.proj.Matrix

	if len(firstProj) != len(secondProj) {
		t.Fatalf("projection length changed: %d vs %d", len(firstProj), len(secondProj))
	}
	for i := range firstProj {
		if firstProj[i] != secondProj[i] {
			t.Fatalf("projection entry %d differs after reset+add with same seed: %v vs %v", i, firstProj[i], secondProj[i])
		}
	}
}

func TestClearKeepsProjectionsAcrossRebuild(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cfg := Config{Dim: 5, NumComposite: 3, NumSimple: 2}
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data := newTestDataset(rng, 5, 40)
	if err := e.Add(data, ConstructionConfig{NumLevels: 1}, rng); err != nil {
		t.Fatalf("Add: %v", err)
	}
	proj := e.proj

	if err := e.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	data2 := newTestDataset(rng, 5, 40)
	if err := e.Add(data2, ConstructionConfig{NumLevels: 1}, rng); err != nil {
		t.Fatalf("Add after Clear: %v", err)
	}
	if e.proj != proj {
		t.Error("Clear should not cause projections to be resampled")
	}
}
