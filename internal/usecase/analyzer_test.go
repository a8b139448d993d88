package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
	"github.com/vishal13230/BellCurve-Securities/internal/service/cache"
	"github.com/vishal13230/BellCurve-Securities/internal/services/quant"
)

// testPriceTable builds two deterministic but non-trivial price series: A is
// a volatile climber, B a steady one.
func testPriceTable() *models.PriceTable {
	t := &models.PriceTable{Assets: []string{"AAA", "BBB"}}
	a, b := 100.0, 100.0
	for i := 0; i < 60; i++ {
		if i%2 == 0 {
			a *= 1.02
			b *= 1.004
		} else {
			a *= 0.99
			b *= 0.999
		}
		t.Timestamps = append(t.Timestamps, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i))
		t.Rows = append(t.Rows, []float64{a, b})
	}
	return t
}

type stubStore struct {
	table   *models.PriceTable
	symbols []string
}

func (s *stubStore) PriceTable(_ context.Context, symbols []string, _, _ time.Time) (*models.PriceTable, error) {
	s.symbols = symbols
	return s.table, nil
}
func (s *stubStore) Health(context.Context) error { return nil }
func (s *stubStore) Close() error                 { return nil }

type capturedEvents struct {
	events []*models.AnalysisEvent
}

func (c *capturedEvents) Publish(_ context.Context, e *models.AnalysisEvent) error {
	c.events = append(c.events, e)
	return nil
}
func (c *capturedEvents) Close() error { return nil }

func TestFrontierWithInlinePrices(t *testing.T) {
	audit := &capturedEvents{}
	a := NewAnalyzer(AnalyzerOptions{
		Cache:    cache.NewMemoryCache(),
		Audit:    audit,
		CacheTTL: time.Minute,
	})
	req := &models.FrontierRequest{Portfolios: 6, Prices: testPriceTable()}

	resp, err := a.Frontier(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA", "BBB"}, resp.Assets)
	assert.False(t, resp.Cached)
	require.Len(t, resp.AssetStats, 2)
	assert.Equal(t, "AAA", resp.AssetStats[0].Symbol)
	assert.Equal(t, 59, resp.AssetStats[0].Stats.Observations)

	table := resp.Frontier
	require.NotNil(t, table)
	assert.Equal(t, 4, table.SweepRequested)
	for _, p := range table.Points {
		sum := 0.0
		for _, w := range p.Weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}

	require.Len(t, audit.events, 1)
	assert.Equal(t, "frontier", audit.events[0].Operation)
}

func TestFrontierCacheHit(t *testing.T) {
	a := NewAnalyzer(AnalyzerOptions{
		Cache:    cache.NewMemoryCache(),
		CacheTTL: time.Minute,
	})
	req := &models.FrontierRequest{Portfolios: 4, Prices: testPriceTable()}

	first, err := a.Frontier(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := a.Frontier(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Frontier.SweepReturned, second.Frontier.SweepReturned)
}

func TestFrontierInsufficientAssets(t *testing.T) {
	a := NewAnalyzer(AnalyzerOptions{})
	req := &models.FrontierRequest{
		Portfolios: 4,
		Prices: &models.PriceTable{
			Assets: []string{"AAA"},
			Rows:   [][]float64{{100}, {101}, {102}},
		},
	}

	_, err := a.Frontier(context.Background(), req)
	assert.ErrorIs(t, err, quant.ErrInsufficientAssets)
}

func TestFrontierNoSource(t *testing.T) {
	a := NewAnalyzer(AnalyzerOptions{})

	_, err := a.Frontier(context.Background(), &models.FrontierRequest{Portfolios: 4})
	assert.ErrorIs(t, err, quant.ErrInvalidInput)
}

func TestSimulate(t *testing.T) {
	a := NewAnalyzer(AnalyzerOptions{})
	seed := int64(11)
	req := &models.SimulateRequest{
		FrontierRequest: models.FrontierRequest{Portfolios: 4, Prices: testPriceTable()},
		Portfolio:       models.LabelMinVolatility,
		Simulations:     50,
		Years:           1,
		Seed:            &seed,
	}

	resp, err := a.Simulate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.LabelMinVolatility, resp.Portfolio)
	require.Len(t, resp.Weights, 2)
	assert.Equal(t, 50, resp.Outcome.Paths)
	assert.Equal(t, quant.PeriodsPerYear, resp.Outcome.Days)
	assert.LessOrEqual(t, resp.Summary.P5Pct, resp.Summary.MedianPct)
	assert.LessOrEqual(t, resp.Summary.MedianPct, resp.Summary.P95Pct)

	// Same seed reproduces the run.
	again, err := a.Simulate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, resp.Outcome.EndingValues, again.Outcome.EndingValues)
}

func TestStatsThroughStore(t *testing.T) {
	store := &stubStore{table: &models.PriceTable{
		Assets: []string{"AAA"},
		Rows:   [][]float64{{100}, {110}, {99}, {105}},
	}}
	a := NewAnalyzer(AnalyzerOptions{Store: store})

	resp, err := a.Stats(context.Background(), &models.StatsRequest{Symbol: "aaa "})
	require.NoError(t, err)

	assert.Equal(t, []string{"AAA"}, store.symbols)
	assert.Equal(t, "AAA", resp.Symbol)
	assert.Equal(t, 3, resp.Stats.Observations)
	assert.NotZero(t, resp.Stats.VolatilityAnnual)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{0.9, 1.0, 1.1, 1.2})
	assert.InDelta(t, 5.0, s.MeanPct, 1e-9)
	assert.InDelta(t, 5.0, s.MedianPct, 1e-9)
	assert.LessOrEqual(t, s.P5Pct, s.MedianPct)
	assert.LessOrEqual(t, s.MedianPct, s.P95Pct)

	assert.Equal(t, models.SimulationSummary{}, Summarize(nil))
}
