package quant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPenaltySolverQuadratic(t *testing.T) {
	// Minimize (x-0.3)^2 + (y-0.7)^2 subject to x+y=1 over the unit box.
	// The unconstrained optimum already satisfies the constraint.
	s := NewPenaltySolver()
	x, err := s.Solve(context.Background(), SolveRequest{
		Objective: func(v []float64) float64 {
			return (v[0]-0.3)*(v[0]-0.3) + (v[1]-0.7)*(v[1]-0.7)
		},
		Equalities: []EqualityConstraint{sumToOne},
		Bounds:     [][2]float64{{0, 1}, {0, 1}},
		Initial:    []float64{0.5, 0.5},
	})
	require.NoError(t, err)
	require.Len(t, x, 2)
	assert.InDelta(t, 0.3, x[0], 0.02)
	assert.InDelta(t, 0.7, x[1], 0.02)
}

func TestPenaltySolverRespectsBounds(t *testing.T) {
	// The unconstrained minimum sits outside the box; the result must not.
	s := NewPenaltySolver()
	x, err := s.Solve(context.Background(), SolveRequest{
		Objective: func(v []float64) float64 {
			return (v[0]+0.5)*(v[0]+0.5) + (v[1]-2)*(v[1]-2)
		},
		Bounds:  [][2]float64{{0, 1}, {0, 1}},
		Initial: []float64{0.5, 0.5},
	})
	require.NoError(t, err)
	for i, v := range x {
		assert.GreaterOrEqual(t, v, 0.0, "dimension %d", i)
		assert.LessOrEqual(t, v, 1.0, "dimension %d", i)
	}
}

func TestPenaltySolverBadRequest(t *testing.T) {
	s := NewPenaltySolver()

	_, err := s.Solve(context.Background(), SolveRequest{Initial: []float64{0.5}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Solve(context.Background(), SolveRequest{
		Objective: func(v []float64) float64 { return v[0] },
		Bounds:    [][2]float64{{0, 1}, {0, 1}},
		Initial:   []float64{0.5},
	})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestPenaltySolverCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewPenaltySolver()
	_, err := s.Solve(ctx, SolveRequest{
		Objective: func(v []float64) float64 { return v[0] * v[0] },
		Initial:   []float64{0.5},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
