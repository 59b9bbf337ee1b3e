package decomposition

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dimred/pkg/datasets"
	"dimred/pkg/kernel"
)

func TestKernelPCACircles(t *testing.T) {
	ds, err := datasets.MakeCircles(
		datasets.WithSamples(1000),
		datasets.WithSeed(1),
		datasets.WithNoise(0.1),
		datasets.WithFactor(0.1),
	)
	require.NoError(t, err)

	kpca := NewKernelPCA(WithKernel(kernel.RBF), WithGamma(15), WithComponents(1))
	Z, err := kpca.FitTransform(ds.X)
	require.NoError(t, err)

	require.Len(t, Z, 1000)
	for _, row := range Z {
		require.Len(t, row, 1)
	}
	require.Len(t, kpca.Eigenvalues, 1)
	assert.Positive(t, kpca.Eigenvalues[0])

	// the embedding of a centered kernel has zero mean
	sum := 0.0
	for _, row := range Z {
		sum += row[0]
	}
	assert.InDelta(t, 0, sum/float64(len(Z)), 1e-9)
}

func TestKernelPCATransformMatchesFitTransform(t *testing.T) {
	ds, err := datasets.MakeMoons(datasets.WithSamples(60), datasets.WithSeed(3), datasets.WithNoise(0.05))
	require.NoError(t, err)

	kpca := NewKernelPCA(WithKernel(kernel.RBF), WithGamma(2), WithComponents(3))
	fitted, err := kpca.FitTransform(ds.X)
	require.NoError(t, err)
	again, err := kpca.Transform(ds.X)
	require.NoError(t, err)

	for i := range fitted {
		assert.InDeltaSlice(t, fitted[i], again[i], 1e-8)
	}
}

func TestKernelPCALinearMatchesPCA(t *testing.T) {
	ds, err := datasets.LoadIris()
	require.NoError(t, err)

	kpca := NewKernelPCA(WithKernel(kernel.Linear), WithComponents(2))
	kz, err := kpca.FitTransform(ds.X)
	require.NoError(t, err)

	pz, err := NewPCA(2).FitTransform(ds.X)
	require.NoError(t, err)

	for i := range kz {
		for c := 0; c < 2; c++ {
			assert.InDelta(t, math.Abs(pz[i][c]), math.Abs(kz[i][c]), 1e-8)
		}
	}
}

func TestKernelPCAAllComponentsDropsZeros(t *testing.T) {
	X := [][]float64{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	kpca := NewKernelPCA(WithKernel(kernel.Linear))
	Z, err := kpca.FitTransform(X)
	require.NoError(t, err)

	// collinear points span a single direction
	assert.Len(t, kpca.Eigenvalues, 1)
	assert.Len(t, Z[0], 1)
}

func TestKernelPCAInverseTransform(t *testing.T) {
	ds, err := datasets.MakeCircles(datasets.WithSamples(80), datasets.WithSeed(5), datasets.WithFactor(0.3))
	require.NoError(t, err)

	plain := NewKernelPCA(WithKernel(kernel.RBF), WithGamma(10), WithComponents(2))
	Z, err := plain.FitTransform(ds.X)
	require.NoError(t, err)
	_, err = plain.InverseTransform(Z)
	assert.True(t, errors.Is(err, ErrNoInverse))

	kpca := NewKernelPCA(
		WithKernel(kernel.RBF), WithGamma(10), WithComponents(2),
		WithFitInverseTransform(0.1),
	)
	Z, err = kpca.FitTransform(ds.X)
	require.NoError(t, err)
	back, err := kpca.InverseTransform(Z)
	require.NoError(t, err)
	require.Len(t, back, 80)
	assert.Len(t, back[0], 2)
}

func TestKernelPCAErrors(t *testing.T) {
	kpca := NewKernelPCA(WithComponents(1))
	_, err := kpca.Transform([][]float64{{1, 2}})
	assert.True(t, errors.Is(err, ErrNotFitted))

	err = NewKernelPCA(WithComponents(5)).Fit([][]float64{{1, 2}, {3, 4}})
	assert.True(t, errors.Is(err, ErrComponents))

	err = NewKernelPCA(WithKernel("laplacian")).Fit([][]float64{{1, 2}, {3, 4}})
	assert.True(t, errors.Is(err, kernel.ErrUnknownKernel))

	require.NoError(t, kpca.Fit([][]float64{{1, 2}, {3, 5}, {0, 1}}))
	_, err = kpca.Transform([][]float64{{1}})
	assert.True(t, errors.Is(err, ErrFeatureMismatch))
}

func TestKernelPCAFailedRefitLeavesModelUnfitted(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 5}, {0, 1}, {4, 4}}
	kpca := NewKernelPCA(WithKernel(kernel.RBF), WithComponents(2))
	require.NoError(t, kpca.Fit(X))

	kpca.NComponents = 10
	assert.True(t, errors.Is(kpca.Fit(X), ErrComponents))
	_, err := kpca.Transform(X)
	assert.True(t, errors.Is(err, ErrNotFitted))
}

func TestKernelPCAKeepsOwnCopyOfTrainingData(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 5}, {0, 1}, {4, 4}}
	kpca := NewKernelPCA(WithKernel(kernel.RBF), WithGamma(0.5), WithComponents(2))
	fitted, err := kpca.FitTransform(X)
	require.NoError(t, err)

	query := [][]float64{{1, 2}}
	before, err := kpca.Transform(query)
	require.NoError(t, err)

	X[0][0], X[1][1] = 100, -100
	after, err := kpca.Transform(query)
	require.NoError(t, err)
	assert.InDeltaSlice(t, before[0], after[0], 1e-12)
	assert.InDeltaSlice(t, fitted[0], after[0], 1e-8)
}
