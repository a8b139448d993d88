package repository

import (
	"context"
	"time"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
)

// PriceStore delivers an aligned price-history table for a set of symbols.
// This is the boundary to the market-data provider; the analysis core never
// fetches data itself.
type PriceStore interface {
	PriceTable(ctx context.Context, symbols []string, from, to time.Time) (*models.PriceTable, error)
	Health(ctx context.Context) error
	Close() error
}

// AuditPublisher emits one event per completed analysis request.
type AuditPublisher interface {
	Publish(ctx context.Context, e *models.AnalysisEvent) error
	Close() error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordRequest(operation, outcome string)
	RecordSolverFailure(program string)
	RecordSweepDropped(n int)
	RecordSimulationPaths(n int)
	RecordSharpe(portfolio string, v float64)
	RecordLatency(op string, seconds float64)
}
