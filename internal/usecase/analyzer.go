package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
	domrepo "github.com/vishal13230/BellCurve-Securities/internal/domain/repository"
	domsvc "github.com/vishal13230/BellCurve-Securities/internal/domain/service"
	"github.com/vishal13230/BellCurve-Securities/internal/service/cache"
	"github.com/vishal13230/BellCurve-Securities/internal/services/quant"
	"github.com/vishal13230/BellCurve-Securities/pkg/logger"
	"github.com/vishal13230/BellCurve-Securities/pkg/util"
)

// defaultLookback is the price history window when a request gives no
// explicit date range.
const defaultLookback = 5 * 365 * 24 * time.Hour

// Analyzer orchestrates the full analysis flow: resolve prices, derive
// returns and statistics, run the optimizer or simulator, and record the
// operational trail (cache, audit, metrics).
type Analyzer struct {
	store       domrepo.PriceStore
	commentator domsvc.Commentator
	cache       cache.BytesCache
	audit       domrepo.AuditPublisher
	metrics     domrepo.Metrics
	log         *logger.Logger

	optimizer *quant.Optimizer
	simulator *quant.Simulator
	cacheTTL  time.Duration
}

// AnalyzerOptions carries the collaborators wired in by DI. Store,
// commentator, cache and audit may be nil or disabled variants.
type AnalyzerOptions struct {
	Store       domrepo.PriceStore
	Commentator domsvc.Commentator
	Cache       cache.BytesCache
	Audit       domrepo.AuditPublisher
	Metrics     domrepo.Metrics
	Log         *logger.Logger
	Optimizer   *quant.Optimizer
	Simulator   *quant.Simulator
	CacheTTL    time.Duration
}

func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	if opts.Optimizer == nil {
		opts.Optimizer = quant.NewOptimizer(nil, quant.OptimizerConfig{})
	}
	if opts.Simulator == nil {
		opts.Simulator = quant.NewSimulator(0)
	}
	if opts.Audit == nil {
		opts.Audit = nopAudit{}
	}
	return &Analyzer{
		store:       opts.Store,
		commentator: opts.Commentator,
		cache:       opts.Cache,
		audit:       opts.Audit,
		metrics:     opts.Metrics,
		log:         opts.Log,
		optimizer:   opts.Optimizer,
		simulator:   opts.Simulator,
		cacheTTL:    opts.CacheTTL,
	}
}

// Frontier computes asset statistics and the efficient frontier for the
// requested universe. Results are cached by request fingerprint because the
// computation is deterministic for identical inputs.
func (a *Analyzer) Frontier(ctx context.Context, req *models.FrontierRequest) (*models.FrontierResponse, error) {
	start := time.Now()

	key, cacheable := a.fingerprint("frontier", req)
	if cacheable {
		if resp := a.cachedFrontier(ctx, key); resp != nil {
			a.record("frontier", "cache_hit", start)
			return resp, nil
		}
	}

	prices, err := a.resolvePrices(ctx, req)
	if err != nil {
		a.record("frontier", "error", start)
		return nil, err
	}

	rt, mean, cov, err := a.derive(prices)
	if err != nil {
		a.record("frontier", "error", start)
		return nil, err
	}

	table, err := a.optimizer.Frontier(ctx, mean, cov, req.RiskFreeRate, req.Portfolios)
	if err != nil {
		a.recordSolverFailure("frontier", err)
		a.record("frontier", "error", start)
		return nil, fmt.Errorf("frontier: %w", err)
	}

	resp := &models.FrontierResponse{
		Assets:     rt.Assets,
		Frontier:   table,
		AssetStats: assetStats(rt, req.RiskFreeRate),
	}

	if a.metrics != nil {
		a.metrics.RecordSweepDropped(table.SweepRequested - table.SweepReturned)
		a.metrics.RecordSharpe(models.LabelMaxSharpe, table.MaxSharpe().Sharpe)
		a.metrics.RecordSharpe(models.LabelMinVolatility, table.MinVolatility().Sharpe)
	}
	if cacheable {
		a.storeFrontier(ctx, key, resp)
	}
	a.publishAudit(ctx, &models.AnalysisEvent{
		Operation:      "frontier",
		Symbols:        rt.Assets,
		DurationMs:     time.Since(start).Milliseconds(),
		SweepRequested: table.SweepRequested,
		SweepReturned:  table.SweepReturned,
		At:             time.Now().UTC(),
	})
	a.record("frontier", "ok", start)
	return resp, nil
}

// Simulate resolves one distinguished portfolio and bootstraps its
// multi-year outcome distribution.
func (a *Analyzer) Simulate(ctx context.Context, req *models.SimulateRequest) (*models.SimulateResponse, error) {
	start := time.Now()

	prices, err := a.resolvePrices(ctx, &req.FrontierRequest)
	if err != nil {
		a.record("simulate", "error", start)
		return nil, err
	}

	rt, mean, cov, err := a.derive(prices)
	if err != nil {
		a.record("simulate", "error", start)
		return nil, err
	}

	var point models.PortfolioPoint
	switch req.Portfolio {
	case models.LabelMinVolatility:
		point, err = a.optimizer.MinVolatility(ctx, mean, cov, req.RiskFreeRate)
	default:
		point, err = a.optimizer.MaxSharpe(ctx, mean, cov, req.RiskFreeRate)
	}
	if err != nil {
		a.recordSolverFailure("simulate", err)
		a.record("simulate", "error", start)
		return nil, fmt.Errorf("simulate: %w", err)
	}

	var opts []quant.SimOption
	if req.Seed != nil {
		opts = append(opts, quant.WithSeed(*req.Seed))
	}
	outcome, err := a.simulator.Run(ctx, rt, point.Weights, req.Simulations, req.Years, opts...)
	if err != nil {
		a.record("simulate", "error", start)
		return nil, fmt.Errorf("simulate: %w", err)
	}

	if a.metrics != nil {
		a.metrics.RecordSimulationPaths(outcome.Paths)
	}
	a.publishAudit(ctx, &models.AnalysisEvent{
		Operation:  "simulate",
		Symbols:    rt.Assets,
		DurationMs: time.Since(start).Milliseconds(),
		Paths:      outcome.Paths,
		At:         time.Now().UTC(),
	})
	a.record("simulate", "ok", start)

	return &models.SimulateResponse{
		Assets:    rt.Assets,
		Portfolio: point.Label,
		Weights:   point.Weights,
		Outcome:   outcome,
		Summary:   Summarize(outcome.EndingValues),
	}, nil
}

// Stats returns the annualized statistics of a single symbol.
func (a *Analyzer) Stats(ctx context.Context, req *models.StatsRequest) (*models.StatsResponse, error) {
	start := time.Now()

	freq := &models.FrontierRequest{
		Symbols:      []string{req.Symbol},
		From:         req.From,
		To:           req.To,
		RiskFreeRate: req.RiskFreeRate,
	}
	prices, err := a.resolvePrices(ctx, freq)
	if err != nil {
		a.record("stats", "error", start)
		return nil, err
	}

	rt, err := quant.TableReturns(prices)
	if err != nil {
		a.record("stats", "error", start)
		return nil, err
	}
	series := rt.Column(0)

	a.record("stats", "ok", start)
	return &models.StatsResponse{
		AssetStats: models.AssetStats{
			Symbol: rt.Assets[0],
			Stats:  quant.Statistics(series),
			Sharpe: quant.SharpeRatio(series, req.RiskFreeRate),
		},
		From: req.From,
		To:   req.To,
	}, nil
}

// Commentary forwards the request to the text-generation service.
func (a *Analyzer) Commentary(ctx context.Context, req *models.CommentaryRequest) (models.Commentary, error) {
	start := time.Now()
	if a.commentator == nil {
		a.record("commentary", "error", start)
		return models.Commentary{}, fmt.Errorf("commentary service not configured")
	}
	c, err := a.commentator.Commentary(ctx, req)
	if err != nil {
		a.record("commentary", "error", start)
		return models.Commentary{}, err
	}
	a.record("commentary", "ok", start)
	return c, nil
}

// Summarize reduces ending values to percent-return percentiles.
func Summarize(endingValues []float64) models.SimulationSummary {
	if len(endingValues) == 0 {
		return models.SimulationSummary{}
	}
	sorted := append([]float64(nil), endingValues...)
	sort.Float64s(sorted)
	pct := func(v float64) float64 { return (v - 1) * 100 }
	mid := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		mid = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}
	return models.SimulationSummary{
		MeanPct:   pct(stat.Mean(sorted, nil)),
		MedianPct: pct(mid),
		P5Pct:     pct(stat.Quantile(0.05, stat.Empirical, sorted, nil)),
		P95Pct:    pct(stat.Quantile(0.95, stat.Empirical, sorted, nil)),
	}
}

// resolvePrices picks the price source: an inline table when the request
// carries one, otherwise the configured store.
func (a *Analyzer) resolvePrices(ctx context.Context, req *models.FrontierRequest) (*models.PriceTable, error) {
	if req.Prices != nil {
		return req.Prices, nil
	}
	symbols := util.NormalizeSymbols(req.Symbols)
	if len(symbols) == 0 {
		return nil, fmt.Errorf("prices: no symbols and no inline table: %w", quant.ErrInvalidInput)
	}
	if a.store == nil {
		return nil, fmt.Errorf("prices: no price store configured for symbol lookup: %w", quant.ErrInvalidInput)
	}

	to := util.ParseTimeDefault(req.To, time.Now().UTC())
	from := util.ParseTimeDefault(req.From, to.Add(-defaultLookback))
	from, to = util.AlignDateRange(from, to)

	table, err := a.store.PriceTable(ctx, symbols, from, to)
	if err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	return table, nil
}

func (a *Analyzer) derive(prices *models.PriceTable) (*models.ReturnTable, []float64, *mat.SymDense, error) {
	rt, err := quant.TableReturns(prices)
	if err != nil {
		return nil, nil, nil, err
	}
	return rt, quant.MeanReturns(rt), quant.Covariance(rt), nil
}

func assetStats(rt *models.ReturnTable, riskFree float64) []models.AssetStats {
	out := make([]models.AssetStats, rt.NumAssets())
	for i, sym := range rt.Assets {
		series := rt.Column(i)
		out[i] = models.AssetStats{
			Symbol: sym,
			Stats:  quant.Statistics(series),
			Sharpe: quant.SharpeRatio(series, riskFree),
		}
	}
	return out
}

// fingerprint hashes the canonical request JSON. Inline price tables are
// hashed too, so identical uploads still hit the cache.
func (a *Analyzer) fingerprint(op string, req interface{}) (string, bool) {
	if a.cache == nil || a.cacheTTL <= 0 {
		return "", false
	}
	b, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(b)
	return op + ":" + hex.EncodeToString(sum[:]), true
}

func (a *Analyzer) cachedFrontier(ctx context.Context, key string) *models.FrontierResponse {
	b, ok, err := a.cache.GetBytes(ctx, key)
	if err != nil {
		if a.log != nil {
			a.log.Warn("cache read failed", logger.Error(err))
		}
		return nil
	}
	if !ok {
		return nil
	}
	var resp models.FrontierResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		return nil
	}
	resp.Cached = true
	return &resp
}

func (a *Analyzer) storeFrontier(ctx context.Context, key string, resp *models.FrontierResponse) {
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := a.cache.SetBytes(ctx, key, b, a.cacheTTL); err != nil && a.log != nil {
		a.log.Warn("cache write failed", logger.Error(err))
	}
}

func (a *Analyzer) publishAudit(ctx context.Context, e *models.AnalysisEvent) {
	if err := a.audit.Publish(ctx, e); err != nil && a.log != nil {
		a.log.Warn("audit publish failed", logger.String("operation", e.Operation), logger.Error(err))
	}
}

func (a *Analyzer) recordSolverFailure(program string, err error) {
	if a.metrics != nil && errors.Is(err, quant.ErrNoFeasibleSolution) {
		a.metrics.RecordSolverFailure(program)
	}
}

func (a *Analyzer) record(op, outcome string, start time.Time) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordRequest(op, outcome)
	a.metrics.RecordLatency(op, time.Since(start).Seconds())
}

type nopAudit struct{}

func (nopAudit) Publish(context.Context, *models.AnalysisEvent) error { return nil }
func (nopAudit) Close() error                                         { return nil }
