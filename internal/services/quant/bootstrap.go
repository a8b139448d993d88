package quant

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
)

// Simulator estimates the distribution of multi-year outcomes for a fixed
// allocation by bootstrap resampling of historical daily returns: whole
// rows are drawn with replacement so cross-asset co-movement survives.
type Simulator struct {
	parallelism int
}

// NewSimulator builds a simulator running up to parallelism paths at once.
// Zero means 4.
func NewSimulator(parallelism int) *Simulator {
	if parallelism <= 0 {
		parallelism = 4
	}
	return &Simulator{parallelism: parallelism}
}

type simConfig struct {
	seed int64
}

// SimOption tunes a single simulation run.
type SimOption func(*simConfig)

// WithSeed pins the random source so a run is reproducible.
func WithSeed(seed int64) SimOption {
	return func(c *simConfig) { c.seed = seed }
}

// Run simulates numSims independent paths of round(simYears * 252) trading
// days each, compounding a starting value of 1. It returns ending values
// per path and the pooled daily portfolio returns across all paths. An
// empty return table yields an empty outcome.
func (s *Simulator) Run(ctx context.Context, rt *models.ReturnTable, weights []float64, numSims int, simYears float64, opts ...SimOption) (*models.SimulationOutcome, error) {
	if rt == nil || rt.NumRows() == 0 {
		return &models.SimulationOutcome{}, nil
	}
	if len(weights) != rt.NumAssets() {
		return nil, fmt.Errorf("simulate: %d weights for %d assets: %w", len(weights), rt.NumAssets(), ErrDimensionMismatch)
	}
	if numSims < 1 || simYears <= 0 {
		return nil, fmt.Errorf("simulate: %d paths over %v years: %w", numSims, simYears, ErrInvalidInput)
	}
	simDays := int(math.Round(simYears * PeriodsPerYear))
	if simDays < 1 {
		simDays = 1
	}

	// Weighted daily return per historical row, computed once up front.
	rowReturns := make([]float64, rt.NumRows())
	for i, row := range rt.Rows {
		var v float64
		for j, w := range weights {
			v += row[j] * w
		}
		rowReturns[i] = v
	}

	cfg := simConfig{seed: time.Now().UnixNano()}
	for _, opt := range opts {
		opt(&cfg)
	}

	ending := make([]float64, numSims)
	daily := make([]float64, numSims*simDays)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for p := 0; p < numSims; p++ {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each path derives its own source from the base seed, so a
			// seeded run reproduces under any scheduling.
			rng := rand.New(rand.NewSource(cfg.seed + int64(p)*0x9E3779B9))
			value := 1.0
			base := p * simDays
			for d := 0; d < simDays; d++ {
				r := rowReturns[rng.Intn(len(rowReturns))]
				daily[base+d] = r
				value *= 1 + r
			}
			ending[p] = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.SimulationOutcome{
		EndingValues: ending,
		DailyReturns: daily,
		Paths:        numSims,
		Days:         simDays,
	}, nil
}
