package quant

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
)

// DefaultTargetExtension is how far past the tangency return the frontier
// sweep reaches, as a multiplier.
const DefaultTargetExtension = 1.2

// targetTolerance is the largest annualized-return miss a sweep solution may
// have before its target counts as unattainable. The penalty formulation
// leaves a residual of roughly 1/(2*penalty) on feasible targets, well under
// this.
const targetTolerance = 0.01

// OptimizerConfig tunes frontier construction.
type OptimizerConfig struct {
	// TargetExtension stretches the sweep's upper return target beyond the
	// max-Sharpe portfolio's return. Must be >= 1; zero means the default.
	TargetExtension float64
	// SweepParallelism bounds concurrent sweep solves. Zero means 4.
	SweepParallelism int
}

// Optimizer finds long-only, fully-invested portfolios on the efficient
// frontier. All solves share the constraint set Σw = 1, 0 <= w <= 1.
type Optimizer struct {
	solver Solver
	cfg    OptimizerConfig
}

// NewOptimizer builds an optimizer around the given solver. A nil solver
// gets the default penalty solver.
func NewOptimizer(solver Solver, cfg OptimizerConfig) *Optimizer {
	if solver == nil {
		solver = NewPenaltySolver()
	}
	if cfg.TargetExtension <= 0 {
		cfg.TargetExtension = DefaultTargetExtension
	}
	if cfg.SweepParallelism <= 0 {
		cfg.SweepParallelism = 4
	}
	return &Optimizer{solver: solver, cfg: cfg}
}

// MinVolatility solves for the portfolio with the lowest annualized
// volatility.
func (o *Optimizer) MinVolatility(ctx context.Context, mean []float64, cov *mat.SymDense, riskFree float64) (models.PortfolioPoint, error) {
	if err := checkAssets(mean, cov); err != nil {
		return models.PortfolioPoint{}, fmt.Errorf("min volatility: %w", err)
	}
	n := len(mean)
	x, err := o.solver.Solve(ctx, SolveRequest{
		Objective: func(w []float64) float64 {
			_, vol, _ := Performance(w, mean, cov)
			return vol
		},
		Equalities: []EqualityConstraint{sumToOne},
		Bounds:     unitBounds(n),
		Initial:    equalWeights(n),
	})
	if err != nil {
		return models.PortfolioPoint{}, fmt.Errorf("min volatility: %w", err)
	}
	return o.point(models.LabelMinVolatility, finishWeights(x), mean, cov, riskFree)
}

// MaxSharpe solves for the tangency portfolio, the one maximizing
// (return - riskFree) / volatility.
func (o *Optimizer) MaxSharpe(ctx context.Context, mean []float64, cov *mat.SymDense, riskFree float64) (models.PortfolioPoint, error) {
	if err := checkAssets(mean, cov); err != nil {
		return models.PortfolioPoint{}, fmt.Errorf("max sharpe: %w", err)
	}
	n := len(mean)
	x, err := o.solver.Solve(ctx, SolveRequest{
		Objective: func(w []float64) float64 {
			ret, vol, _ := Performance(w, mean, cov)
			if vol == 0 {
				return math.Inf(1)
			}
			return -(ret - riskFree) / vol
		},
		Equalities: []EqualityConstraint{sumToOne},
		Bounds:     unitBounds(n),
		Initial:    equalWeights(n),
	})
	if err != nil {
		return models.PortfolioPoint{}, fmt.Errorf("max sharpe: %w", err)
	}
	return o.point(models.LabelMaxSharpe, finishWeights(x), mean, cov, riskFree)
}

// Frontier builds the efficient frontier: the two distinguished portfolios
// plus a sweep of count-2 minimum-volatility solves at evenly spaced return
// targets between the min-volatility return and the extended max-Sharpe
// return. A sweep target the solver cannot hit is dropped; failure on a
// distinguished portfolio is fatal.
func (o *Optimizer) Frontier(ctx context.Context, mean []float64, cov *mat.SymDense, riskFree float64, count int) (*models.FrontierTable, error) {
	minVol, err := o.MinVolatility(ctx, mean, cov, riskFree)
	if err != nil {
		return nil, err
	}
	maxSharpe, err := o.MaxSharpe(ctx, mean, cov, riskFree)
	if err != nil {
		return nil, err
	}

	sweep := count - 2
	if sweep < 0 {
		sweep = 0
	}
	table := &models.FrontierTable{
		Points:         []models.PortfolioPoint{minVol, maxSharpe},
		SweepRequested: sweep,
	}
	if sweep == 0 {
		return table, nil
	}

	targets := linspace(minVol.Return, maxSharpe.Return*o.cfg.TargetExtension, sweep)
	results := make([]*models.PortfolioPoint, sweep)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.SweepParallelism)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := o.solveTarget(gctx, mean, cov, riskFree, target)
			if err != nil {
				// Unreachable targets leave a gap, not a failed frontier.
				if errors.Is(err, ErrNoFeasibleSolution) {
					return nil
				}
				return err
			}
			results[i] = &p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, p := range results {
		if p != nil {
			table.Points = append(table.Points, *p)
			table.SweepReturned++
		}
	}
	return table, nil
}

// solveTarget finds the minimum-volatility portfolio whose annualized return
// equals target.
func (o *Optimizer) solveTarget(ctx context.Context, mean []float64, cov *mat.SymDense, riskFree, target float64) (models.PortfolioPoint, error) {
	n := len(mean)
	x, err := o.solver.Solve(ctx, SolveRequest{
		Objective: func(w []float64) float64 {
			_, vol, _ := Performance(w, mean, cov)
			return vol
		},
		Equalities: []EqualityConstraint{
			sumToOne,
			func(w []float64) float64 {
				ret, _, _ := Performance(w, mean, cov)
				return ret - target
			},
		},
		Bounds:  unitBounds(n),
		Initial: equalWeights(n),
	})
	if err != nil {
		return models.PortfolioPoint{}, fmt.Errorf("target %.4f: %w", target, err)
	}
	p, err := o.point("", finishWeights(x), mean, cov, riskFree)
	if err != nil {
		return models.PortfolioPoint{}, err
	}
	if math.Abs(p.Return-target) > targetTolerance {
		return models.PortfolioPoint{}, fmt.Errorf("target %.4f unattainable, best %.4f: %w", target, p.Return, ErrNoFeasibleSolution)
	}
	return p, nil
}

func (o *Optimizer) point(label string, weights, mean []float64, cov *mat.SymDense, riskFree float64) (models.PortfolioPoint, error) {
	ret, vol, err := Performance(weights, mean, cov)
	if err != nil {
		return models.PortfolioPoint{}, err
	}
	sharpe := 0.0
	if vol > 0 {
		sharpe = (ret - riskFree) / vol
	}
	return models.PortfolioPoint{
		Label:      label,
		Return:     ret,
		Volatility: vol,
		Sharpe:     sharpe,
		Weights:    weights,
	}, nil
}

func checkAssets(mean []float64, cov *mat.SymDense) error {
	n := len(mean)
	if n < 2 {
		return fmt.Errorf("%d assets: %w", n, ErrInsufficientAssets)
	}
	if cov == nil || cov.SymmetricDim() != n {
		return fmt.Errorf("covariance does not match %d assets: %w", n, ErrDimensionMismatch)
	}
	return nil
}

func sumToOne(x []float64) float64 {
	s := -1.0
	for _, v := range x {
		s += v
	}
	return s
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

func unitBounds(n int) [][2]float64 {
	b := make([][2]float64, n)
	for i := range b {
		b[i] = [2]float64{0, 1}
	}
	return b
}

// finishWeights clamps a solver result to [0, 1] and renormalizes it to sum
// to one, absorbing the penalty method's small constraint slack.
func finishWeights(x []float64) []float64 {
	w := make([]float64, len(x))
	sum := 0.0
	for i, v := range x {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		w[i] = v
		sum += v
	}
	if sum <= 0 {
		return equalWeights(len(x))
	}
	for i := range w {
		w[i] /= sum
	}
	return w
}

// linspace returns k evenly spaced values from a to b inclusive.
func linspace(a, b float64, k int) []float64 {
	if k <= 0 {
		return nil
	}
	out := make([]float64, k)
	if k == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(k-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	return out
}
