package models

import "time"

// PriceTable is an aligned price history: one row per timestamp, one column
// per asset. Rows with a missing price for any asset must be dropped before
// the table reaches the statistics engine.
type PriceTable struct {
	Assets     []string    `json:"assets"`
	Timestamps []time.Time `json:"timestamps"`
	Rows       [][]float64 `json:"rows"`
}

// NumAssets returns the asset count.
func (t *PriceTable) NumAssets() int {
	if t == nil {
		return 0
	}
	return len(t.Assets)
}

// NumRows returns the observation count.
func (t *PriceTable) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ReturnTable holds period-over-period fractional returns, one row per
// period, one column per asset, in the same asset order as the PriceTable it
// was derived from.
type ReturnTable struct {
	Assets []string    `json:"assets"`
	Rows   [][]float64 `json:"rows"`
}

// NumAssets returns the asset count.
func (t *ReturnTable) NumAssets() int {
	if t == nil {
		return 0
	}
	return len(t.Assets)
}

// NumRows returns the period count.
func (t *ReturnTable) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column copies out the return series of one asset.
func (t *ReturnTable) Column(i int) []float64 {
	out := make([]float64, len(t.Rows))
	for r := range t.Rows {
		out[r] = t.Rows[r][i]
	}
	return out
}

// Stats holds annualized descriptive statistics for one return series.
type Stats struct {
	Observations       int     `json:"observations"`
	MeanAnnual         float64 `json:"mean_annual"`
	VolatilityAnnual   float64 `json:"volatility_annual"`
	Median             float64 `json:"median"`
	Variance           float64 `json:"variance"`
	Skewness           float64 `json:"skewness"`
	ExcessKurtosis     float64 `json:"excess_kurtosis"`
}

// AssetStats pairs a ticker with its return statistics and Sharpe ratio.
type AssetStats struct {
	Symbol string  `json:"symbol"`
	Stats  Stats   `json:"stats"`
	Sharpe float64 `json:"sharpe"`
}
