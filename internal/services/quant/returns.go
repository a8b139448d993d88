// Package quant implements the numeric core: return derivation, asset
// statistics, portfolio performance, the constrained mean-variance
// optimizer and the bootstrap simulator.
package quant

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
)

// PeriodsPerYear is the trading-day count used for annualization.
const PeriodsPerYear = 252

// Returns computes period-over-period fractional changes p_t/p_{t-1} - 1.
// A series shorter than two observations yields nil.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			out[i-1] = 0
			continue
		}
		out[i-1] = prices[i]/prev - 1
	}
	return out
}

// TableReturns derives an aligned return table from an aligned price table.
// Every row must carry a positive, finite price for every asset; a table
// that fails this is rejected rather than silently patched.
func TableReturns(t *models.PriceTable) (*models.ReturnTable, error) {
	if t == nil || t.NumAssets() == 0 {
		return nil, fmt.Errorf("returns: empty price table: %w", ErrInvalidInput)
	}
	n := t.NumAssets()
	for i, row := range t.Rows {
		if len(row) != n {
			return nil, fmt.Errorf("returns: row %d has %d prices for %d assets: %w", i, len(row), n, ErrDimensionMismatch)
		}
		for j, p := range row {
			if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("returns: bad price %v for %s at row %d: %w", p, t.Assets[j], i, ErrInvalidInput)
			}
		}
	}
	rows := make([][]float64, 0, max(0, len(t.Rows)-1))
	for i := 1; i < len(t.Rows); i++ {
		row := make([]float64, n)
		for j := 0; j < n; j++ {
			row[j] = t.Rows[i][j]/t.Rows[i-1][j] - 1
		}
		rows = append(rows, row)
	}
	return &models.ReturnTable{
		Assets: append([]string(nil), t.Assets...),
		Rows:   rows,
	}, nil
}

// MeanReturns computes the per-asset arithmetic mean daily return.
func MeanReturns(rt *models.ReturnTable) []float64 {
	n := rt.NumAssets()
	out := make([]float64, n)
	if rt.NumRows() == 0 {
		return out
	}
	for _, row := range rt.Rows {
		for j := 0; j < n; j++ {
			out[j] += row[j]
		}
	}
	inv := 1 / float64(rt.NumRows())
	for j := range out {
		out[j] *= inv
	}
	return out
}

// Covariance computes the sample covariance matrix of daily returns.
// With fewer than two observations the matrix is all zeros.
func Covariance(rt *models.ReturnTable) *mat.SymDense {
	n := rt.NumAssets()
	cov := mat.NewSymDense(n, nil)
	rows := rt.NumRows()
	if rows < 2 {
		return cov
	}
	flat := make([]float64, 0, rows*n)
	for _, row := range rt.Rows {
		flat = append(flat, row...)
	}
	stat.CovarianceMatrix(cov, mat.NewDense(rows, n, flat), nil)
	return cov
}

// Statistics summarizes one asset's daily return series. Annualized figures
// use the trading-day convention; higher moments need enough observations
// for their bias corrections and are zero below that.
func Statistics(returns []float64) models.Stats {
	s := models.Stats{Observations: len(returns)}
	if len(returns) == 0 {
		return s
	}
	mean := stat.Mean(returns, nil)
	s.MeanAnnual = mean * PeriodsPerYear
	if len(returns) >= 2 {
		s.Variance = stat.Variance(returns, nil)
		s.VolatilityAnnual = math.Sqrt(s.Variance) * math.Sqrt(PeriodsPerYear)
	}
	if len(returns) >= 3 {
		s.Skewness = stat.Skew(returns, nil)
	}
	if len(returns) >= 4 {
		s.ExcessKurtosis = stat.ExKurtosis(returns, nil)
	}
	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)
	s.Median = median(sorted)
	return s
}

// median takes the conventional sample median of a sorted series: the
// middle value, or the mean of the two middle values for even lengths.
// gonum's quantile kinds pick an empirical data point instead.
func median(sorted []float64) float64 {
	m := len(sorted)
	if m == 0 {
		return 0
	}
	if m%2 == 1 {
		return sorted[m/2]
	}
	return (sorted[m/2-1] + sorted[m/2]) / 2
}

// SharpeRatio computes the annualized Sharpe ratio of a daily return series
// against an annual risk-free rate. A series with zero (or undefined)
// dispersion has Sharpe 0 rather than a division blowup.
func SharpeRatio(returns []float64, riskFreeAnnual float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd := stat.StdDev(returns, nil)
	if sd == 0 {
		return 0
	}
	excess := stat.Mean(returns, nil) - riskFreeAnnual/PeriodsPerYear
	return excess / sd * math.Sqrt(PeriodsPerYear)
}
