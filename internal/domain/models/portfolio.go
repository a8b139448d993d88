package models

import "time"

// Distinguished portfolio labels. Sweep points carry an empty label.
const (
	LabelMinVolatility = "MinVolatility"
	LabelMaxSharpe     = "MaxSharpe"
)

// PortfolioPoint is one point on or near the efficient frontier.
type PortfolioPoint struct {
	Label      string    `json:"label,omitempty"`
	Return     float64   `json:"return"`
	Volatility float64   `json:"volatility"`
	Sharpe     float64   `json:"sharpe"`
	Weights    []float64 `json:"weights"`
}

// FrontierTable is an ordered collection of portfolio points. The two
// distinguished points always occupy positions 0 and 1; sweep points follow
// in target-return order. SweepRequested/SweepReturned make dropped solver
// failures observable instead of silently shrinking the table.
type FrontierTable struct {
	Points         []PortfolioPoint `json:"points"`
	SweepRequested int              `json:"sweep_requested"`
	SweepReturned  int              `json:"sweep_returned"`
}

// Distinguished returns the labeled point, if present.
func (t *FrontierTable) Distinguished(label string) (PortfolioPoint, bool) {
	for _, p := range t.Points {
		if p.Label == label {
			return p, true
		}
	}
	return PortfolioPoint{}, false
}

// MinVolatility returns the minimum-volatility point.
func (t *FrontierTable) MinVolatility() PortfolioPoint {
	p, _ := t.Distinguished(LabelMinVolatility)
	return p
}

// MaxSharpe returns the tangency point.
func (t *FrontierTable) MaxSharpe() PortfolioPoint {
	p, _ := t.Distinguished(LabelMaxSharpe)
	return p
}

// SimulationOutcome holds the result of one bootstrap run: the compounded
// ending value of every simulated path (starting value 1) and the pooled
// weighted daily returns across all paths.
type SimulationOutcome struct {
	EndingValues []float64 `json:"ending_values"`
	DailyReturns []float64 `json:"daily_returns"`
	Paths        int       `json:"paths"`
	Days         int       `json:"days"`
}

// SimulationSummary is derived from ending values by the caller, expressed as
// percent total return over the horizon.
type SimulationSummary struct {
	MeanPct   float64 `json:"mean_pct"`
	MedianPct float64 `json:"median_pct"`
	P5Pct     float64 `json:"p5_pct"`
	P95Pct    float64 `json:"p95_pct"`
}

// AnalysisEvent is the audit record published after a completed request.
type AnalysisEvent struct {
	Operation      string    `json:"operation"`
	Symbols        []string  `json:"symbols"`
	DurationMs     int64     `json:"duration_ms"`
	SweepRequested int       `json:"sweep_requested,omitempty"`
	SweepReturned  int       `json:"sweep_returned,omitempty"`
	Paths          int       `json:"paths,omitempty"`
	At             time.Time `json:"at"`
}

// Commentary is free text produced by the external text-generation service.
type Commentary struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}
