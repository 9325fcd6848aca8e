// Package service exposes the analytics operations the transports call:
// cached profile metrics, cached spending analyses, cache invalidation and
// snapshot reloads. It owns the cache keying discipline; the calculators
// underneath stay pure.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/breckhall/finsight/internal/cache"
	"github.com/breckhall/finsight/internal/ledger"
	"github.com/breckhall/finsight/internal/metrics"
	"github.com/breckhall/finsight/internal/spending"
	"github.com/breckhall/finsight/internal/store"
)

// Config carries the analytics tunables and cache TTLs.
type Config struct {
	Metrics     metrics.Config
	Spending    spending.Config
	MetricsTTL  time.Duration
	SpendingTTL time.Duration
	// Now is the clock used by the calculators; nil means time.Now.
	Now func() time.Time
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		Metrics:     metrics.DefaultConfig(),
		Spending:    spending.DefaultConfig(),
		MetricsTTL:  time.Minute,
		SpendingTTL: time.Minute,
	}
}

// Analytics is the cached facade over the snapshot store.
type Analytics struct {
	store    *store.Store
	cache    *cache.Cache
	metrics  *metrics.Calculator
	spending *spending.Aggregator
	cfg      Config
	log      zerolog.Logger
}

// New wires the facade. The cache is injected so its lifecycle and limits are
// owned by the caller, not the facade.
func New(st *store.Store, ca *cache.Cache, cfg Config, log zerolog.Logger) *Analytics {
	return &Analytics{
		store:    st,
		cache:    ca,
		metrics:  metrics.NewCalculator(cfg.Metrics, cfg.Now),
		spending: spending.NewAggregator(cfg.Spending, cfg.Now),
		cfg:      cfg,
		log:      log,
	}
}

// MetricsResult is the GetProfileMetrics payload plus cache provenance.
type MetricsResult struct {
	Metrics       *metrics.ProfileMetrics `json:"metrics"`
	Cached        bool                    `json:"cached"`
	ComputeTimeMs float64                 `json:"computeTimeMs"`
}

// SpendingResult is the GetSpendingAnalysis payload plus cache provenance.
type SpendingResult struct {
	Analysis      *spending.SpendingAnalysis `json:"analysis"`
	Cached        bool                       `json:"cached"`
	ComputeTimeMs float64                    `json:"computeTimeMs"`
}

// GetProfileMetrics computes or serves the cached metrics for one profile.
func (a *Analytics) GetProfileMetrics(ctx context.Context, customerID string) (*MetricsResult, error) {
	if customerID == "" {
		return nil, invalidArgument("customer id is required")
	}

	snap := a.store.Snapshot()
	key := cache.Key("metrics", strconv.FormatUint(snap.Generation(), 10), customerID)

	start := time.Now()
	v, hit, err := a.cache.GetOrCompute(key, a.cfg.MetricsTTL, func() (any, error) {
		return a.metrics.Compute(snap, customerID)
	})
	elapsed := elapsedMs(start)
	if err != nil {
		return nil, a.classify(err, "compute metrics for %q", customerID)
	}

	a.log.Debug().
		Str("key", key).
		Bool("cached", hit).
		Float64("ms", elapsed).
		Msg("profile metrics served")

	return &MetricsResult{
		Metrics:       v.(*metrics.ProfileMetrics),
		Cached:        hit,
		ComputeTimeMs: elapsed,
	}, nil
}

// GetSpendingAnalysis computes or serves the cached spending analysis for one
// profile window. Month zero selects the whole year.
func (a *Analytics) GetSpendingAnalysis(ctx context.Context, customerID string, year, month int) (*SpendingResult, error) {
	if customerID == "" {
		return nil, invalidArgument("customer id is required")
	}
	if year < 1970 || year > 2200 {
		return nil, invalidArgument("year %d is out of range", year)
	}
	if month < 0 || month > 12 {
		return nil, invalidArgument("month must be between 1 and 12, got %d", month)
	}

	snap := a.store.Snapshot()
	window := fmt.Sprintf("%04d", year)
	if month > 0 {
		window = fmt.Sprintf("%04d-%02d", year, month)
	}
	key := cache.Key("spending", strconv.FormatUint(snap.Generation(), 10), customerID, window)

	start := time.Now()
	v, hit, err := a.cache.GetOrCompute(key, a.cfg.SpendingTTL, func() (any, error) {
		return a.spending.Compute(snap, customerID, year, month)
	})
	elapsed := elapsedMs(start)
	if err != nil {
		return nil, a.classify(err, "compute spending for %q window %s", customerID, window)
	}

	a.log.Debug().
		Str("key", key).
		Bool("cached", hit).
		Float64("ms", elapsed).
		Msg("spending analysis served")

	return &SpendingResult{
		Analysis:      v.(*spending.SpendingAnalysis),
		Cached:        hit,
		ComputeTimeMs: elapsed,
	}, nil
}

// InvalidateSpendingCache drops every cached spending analysis across all
// snapshot generations and reports how many entries went.
func (a *Analytics) InvalidateSpendingCache(ctx context.Context) int {
	removed := a.cache.Invalidate("spending/")
	a.log.Info().Int("removed", removed).Msg("spending cache invalidated")
	return removed
}

// CacheStats exposes the cache counters for the operational surface.
func (a *Analytics) CacheStats() cache.Stats {
	return a.cache.Stats()
}

// ReloadSummary reports one snapshot reload.
type ReloadSummary struct {
	RunID             string   `json:"runId"`
	Generation        uint64   `json:"generation"`
	Customers         int      `json:"customers"`
	Accounts          int      `json:"accounts"`
	Transactions      int      `json:"transactions"`
	Categories        int      `json:"categories"`
	Goals             int      `json:"goals"`
	ParseWarnings     []string `json:"parseWarnings,omitempty"`
	ReferenceWarnings []string `json:"referenceWarnings,omitempty"`
	DurationMs        float64  `json:"durationMs"`
}

// ReloadSnapshot parses a fresh snapshot, swaps it in atomically and flushes
// the cache. Readers holding the previous snapshot finish against it.
func (a *Analytics) ReloadSnapshot(ctx context.Context, files ledger.SnapshotFiles) (*ReloadSummary, error) {
	if files.Customers == nil && files.Accounts == nil && files.Transactions == nil &&
		files.Categories == nil && files.Goals == nil && files.Budgets == nil {
		return nil, invalidArgument("no snapshot inputs provided")
	}

	runID := uuid.New().String()
	start := time.Now()

	records, parseWarns := ledger.ParseSnapshot(files)
	refWarns := a.store.Load(records)
	a.cache.Flush()

	snap := a.store.Snapshot()
	customers, accounts, transactions, categories, goals := snap.Counts()
	summary := &ReloadSummary{
		RunID:        runID,
		Generation:   snap.Generation(),
		Customers:    customers,
		Accounts:     accounts,
		Transactions: transactions,
		Categories:   categories,
		Goals:        goals,
		DurationMs:   elapsedMs(start),
	}
	for _, w := range parseWarns {
		summary.ParseWarnings = append(summary.ParseWarnings, w.String())
	}
	for _, w := range refWarns {
		summary.ReferenceWarnings = append(summary.ReferenceWarnings, w.String())
	}

	a.log.Info().
		Str("run_id", runID).
		Uint64("generation", summary.Generation).
		Int("customers", customers).
		Int("accounts", accounts).
		Int("transactions", transactions).
		Int("parse_warnings", len(summary.ParseWarnings)).
		Int("reference_warnings", len(summary.ReferenceWarnings)).
		Float64("ms", summary.DurationMs).
		Msg("snapshot reloaded")

	return summary, nil
}

// SnapshotInfo is the health-endpoint view of the current snapshot.
type SnapshotInfo struct {
	Generation   uint64 `json:"generation"`
	Customers    int    `json:"customers"`
	Accounts     int    `json:"accounts"`
	Transactions int    `json:"transactions"`
	Categories   int    `json:"categories"`
	Goals        int    `json:"goals"`
	Warnings     int    `json:"warnings"`
}

// SnapshotInfo describes the snapshot currently serving reads.
func (a *Analytics) SnapshotInfo() SnapshotInfo {
	snap := a.store.Snapshot()
	customers, accounts, transactions, categories, goals := snap.Counts()
	return SnapshotInfo{
		Generation:   snap.Generation(),
		Customers:    customers,
		Accounts:     accounts,
		Transactions: transactions,
		Categories:   categories,
		Goals:        goals,
		Warnings:     len(snap.Warnings()),
	}
}

// classify maps calculator errors onto the service error kinds.
func (a *Analytics) classify(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(err, format, args...)
	}
	return computationFailure(err, "failed to "+format, args...)
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1e6
}
