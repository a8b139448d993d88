package quant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/mat"
)

func TestPerformance(t *testing.T) {
	mean := []float64{0.001, 0.0005}
	cov := mat.NewSymDense(2, []float64{
		0.0004, 0.0001,
		0.0001, 0.0001,
	})
	weights := []float64{0.5, 0.5}

	ret, vol, err := Performance(weights, mean, cov)
	require.NoError(t, err)

	assert.InDelta(t, PeriodsPerYear*0.00075, ret, 1e-9)
	wantVar := 0.25*0.0004 + 0.25*0.0001 + 2*0.25*0.0001
	assert.InDelta(t, math.Sqrt(wantVar)*math.Sqrt(PeriodsPerYear), vol, 1e-9)
}

func TestPerformanceSingleAsset(t *testing.T) {
	mean := []float64{0.001}
	cov := mat.NewSymDense(1, []float64{0.0004})

	ret, vol, err := Performance([]float64{1}, mean, cov)
	require.NoError(t, err)
	assert.InDelta(t, PeriodsPerYear*0.001, ret, 1e-9)
	assert.InDelta(t, 0.02*math.Sqrt(PeriodsPerYear), vol, 1e-9)
}

func TestPerformancePermutationSymmetry(t *testing.T) {
	mean := []float64{0.001, 0.0005, 0.002}
	cov := mat.NewSymDense(3, []float64{
		0.0004, 0.0001, 0.0000,
		0.0001, 0.0001, 0.0002,
		0.0000, 0.0002, 0.0009,
	})
	weights := []float64{0.2, 0.3, 0.5}

	ret, vol, err := Performance(weights, mean, cov)
	require.NoError(t, err)

	// Reorder assets 3,1,2 consistently across all three inputs.
	permMean := []float64{0.002, 0.001, 0.0005}
	permCov := mat.NewSymDense(3, []float64{
		0.0009, 0.0000, 0.0002,
		0.0000, 0.0004, 0.0001,
		0.0002, 0.0001, 0.0001,
	})
	permWeights := []float64{0.5, 0.2, 0.3}

	permRet, permVol, err := Performance(permWeights, permMean, permCov)
	require.NoError(t, err)
	assert.InDelta(t, ret, permRet, 1e-12)
	assert.InDelta(t, vol, permVol, 1e-12)
}

func TestPerformanceDimensionMismatch(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{0.0004, 0.0001, 0.0001, 0.0001})

	_, _, err := Performance([]float64{0.5, 0.5}, []float64{0.001}, cov)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, _, err = Performance([]float64{1}, []float64{0.001}, cov)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, _, err = Performance(nil, nil, nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
