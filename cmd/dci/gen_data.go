package main

import (
	"math/rand"

	"github.com/liliang-cn/dci/pkg/gemm"
)

// genData synthesizes an ambientDim x numPoints column-major point matrix
// living near an intrinsicDim-dimensional random linear subspace: the
// supplemented feature from original_source/src/util.c's gen_data,
// data = transformation * latent, kept test/demo-only per spec.md's
// scoping (the index itself never assumes or exploits low-dimensional
// structure).
func genData(rng *rand.Rand, eng gemm.Engine, ambientDim, intrinsicDim, numPoints int) (*gemm.Matrix, error) {
	latent := gemm.NewMatrix(intrinsicDim, numPoints)
	for i := range latent.Data {
		latent.Data[i] = 2*rng.Float64() - 1
	}

	// transformationT is stored intrinsicDim x ambientDim so that
	// MulT's A^T is the ambientDim x intrinsicDim transformation matrix
	// the original multiplies latent by.
	transformationT := gemm.NewMatrix(intrinsicDim, ambientDim)
	for i := range transformationT.Data {
		transformationT.Data[i] = 2*rng.Float64() - 1
	}

	return eng.MulT(transformationT, latent)
}
