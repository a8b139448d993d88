package quant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
)

func testReturnTable() *models.ReturnTable {
	return &models.ReturnTable{
		Assets: []string{"AAA", "BBB"},
		Rows: [][]float64{
			{0.01, 0.02},
			{-0.01, 0.00},
			{0.02, -0.01},
		},
	}
}

func TestSimulatorShapes(t *testing.T) {
	s := NewSimulator(2)
	out, err := s.Run(context.Background(), testReturnTable(), []float64{0.5, 0.5}, 20, 1, WithSeed(42))
	require.NoError(t, err)

	assert.Equal(t, 20, out.Paths)
	assert.Equal(t, PeriodsPerYear, out.Days)
	assert.Len(t, out.EndingValues, 20)
	assert.Len(t, out.DailyReturns, 20*PeriodsPerYear)
	for _, v := range out.EndingValues {
		assert.Greater(t, v, 0.0)
	}
}

func TestSimulatorHalfYearRounding(t *testing.T) {
	s := NewSimulator(1)
	out, err := s.Run(context.Background(), testReturnTable(), []float64{0.5, 0.5}, 1, 0.5, WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, 126, out.Days)
}

func TestSimulatorSingleRowIsDeterministic(t *testing.T) {
	// With one historical row every draw returns it, so each path compounds
	// the same weighted return regardless of seed.
	rt := &models.ReturnTable{
		Assets: []string{"AAA", "BBB"},
		Rows:   [][]float64{{0.01, 0.03}},
	}
	weights := []float64{0.5, 0.5}

	s := NewSimulator(4)
	out, err := s.Run(context.Background(), rt, weights, 3, 1)
	require.NoError(t, err)

	want := 1.0
	for d := 0; d < PeriodsPerYear; d++ {
		want *= 1.02
	}
	for _, v := range out.EndingValues {
		assert.InDelta(t, want, v, want*1e-9)
	}
	for _, r := range out.DailyReturns {
		assert.InDelta(t, 0.02, r, 1e-12)
	}
}

func TestSimulatorSingleDayPath(t *testing.T) {
	rt := &models.ReturnTable{
		Assets: []string{"AAA", "BBB"},
		Rows:   [][]float64{{0.01, 0.03}},
	}

	s := NewSimulator(1)
	out, err := s.Run(context.Background(), rt, []float64{0.5, 0.5}, 1, 1.0/PeriodsPerYear)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Days)
	require.Len(t, out.EndingValues, 1)
	assert.InDelta(t, 1.02, out.EndingValues[0], 1e-12)
}

func TestSimulatorSeedReproducible(t *testing.T) {
	s := NewSimulator(4)
	weights := []float64{0.3, 0.7}

	first, err := s.Run(context.Background(), testReturnTable(), weights, 10, 1, WithSeed(7))
	require.NoError(t, err)
	second, err := s.Run(context.Background(), testReturnTable(), weights, 10, 1, WithSeed(7))
	require.NoError(t, err)

	assert.Equal(t, first.EndingValues, second.EndingValues)
	assert.Equal(t, first.DailyReturns, second.DailyReturns)

	other, err := s.Run(context.Background(), testReturnTable(), weights, 10, 1, WithSeed(8))
	require.NoError(t, err)
	assert.NotEqual(t, first.EndingValues, other.EndingValues)
}

func TestSimulatorEmptyTable(t *testing.T) {
	s := NewSimulator(1)

	out, err := s.Run(context.Background(), &models.ReturnTable{Assets: []string{"AAA"}}, []float64{1}, 5, 1)
	require.NoError(t, err)
	assert.Empty(t, out.EndingValues)
	assert.Empty(t, out.DailyReturns)
	assert.Zero(t, out.Paths)

	out, err = s.Run(context.Background(), nil, nil, 5, 1)
	require.NoError(t, err)
	assert.Empty(t, out.EndingValues)
}

func TestSimulatorDimensionMismatch(t *testing.T) {
	s := NewSimulator(1)
	_, err := s.Run(context.Background(), testReturnTable(), []float64{1}, 5, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestSimulatorBadArguments(t *testing.T) {
	s := NewSimulator(1)

	_, err := s.Run(context.Background(), testReturnTable(), []float64{0.5, 0.5}, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Run(context.Background(), testReturnTable(), []float64{0.5, 0.5}, 5, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
