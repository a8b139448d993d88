package quant

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Objective evaluates the cost of a candidate point.
type Objective func(x []float64) float64

// EqualityConstraint is satisfied when it evaluates to zero.
type EqualityConstraint func(x []float64) float64

// SolveRequest describes a bounded minimization with equality constraints.
// Bounds, when present, must have one [lo, hi] pair per dimension.
type SolveRequest struct {
	Objective  Objective
	Equalities []EqualityConstraint
	Bounds     [][2]float64
	Initial    []float64
}

// Solver is the seam between the optimizer and a concrete minimization
// backend, so the backend can be swapped without touching portfolio code.
type Solver interface {
	Solve(ctx context.Context, req SolveRequest) ([]float64, error)
}

// PenaltySolver folds equality constraints into the objective as quadratic
// penalties and projects every iterate onto the box bounds. Minimization
// runs derivative-free with Nelder-Mead first and retries with BFGS when
// that fails to converge.
type PenaltySolver struct {
	// Penalty scales the squared constraint violations added to the
	// objective. Too small lets the solver trade violation for objective.
	Penalty float64
}

// NewPenaltySolver returns a solver with the default penalty weight.
func NewPenaltySolver() *PenaltySolver {
	return &PenaltySolver{Penalty: 1000}
}

func (s *PenaltySolver) Solve(ctx context.Context, req SolveRequest) ([]float64, error) {
	if req.Objective == nil || len(req.Initial) == 0 {
		return nil, fmt.Errorf("solver: missing objective or initial point: %w", ErrInvalidInput)
	}
	if len(req.Bounds) != 0 && len(req.Bounds) != len(req.Initial) {
		return nil, fmt.Errorf("solver: %d bounds for %d dimensions: %w", len(req.Bounds), len(req.Initial), ErrDimensionMismatch)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	penalty := s.Penalty
	if penalty <= 0 {
		penalty = 1000
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			xp := projectBounds(x, req.Bounds)
			v := req.Objective(xp)
			for _, eq := range req.Equalities {
				d := eq(xp)
				v += penalty * d * d
			}
			return v
		},
	}

	result, err := optimize.Minimize(problem, append([]float64(nil), req.Initial...), nil, &optimize.NelderMead{})
	if err != nil || !converged(result.Status) {
		result, err = optimize.Minimize(problem, append([]float64(nil), req.Initial...), nil, &optimize.BFGS{})
		if err != nil {
			return nil, fmt.Errorf("solver: %v: %w", err, ErrNoFeasibleSolution)
		}
		if !converged(result.Status) {
			return nil, fmt.Errorf("solver: terminated with status %v: %w", result.Status, ErrNoFeasibleSolution)
		}
	}
	return projectBounds(result.X, req.Bounds), nil
}

func converged(status optimize.Status) bool {
	switch status {
	case optimize.Success,
		optimize.GradientThreshold,
		optimize.FunctionConvergence,
		optimize.StepConvergence:
		return true
	}
	return false
}

func projectBounds(x []float64, bounds [][2]float64) []float64 {
	out := append([]float64(nil), x...)
	if len(bounds) != len(out) {
		return out
	}
	for i := range out {
		out[i] = math.Max(bounds[i][0], math.Min(bounds[i][1], out[i]))
	}
	return out
}
