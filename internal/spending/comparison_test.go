package spending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breckhall/finsight/internal/ledger"
)

func TestComparisonAgainstHistory(t *testing.T) {
	snap := newSnapshot(t, []ledger.Transaction{
		debit("tx-1", "acc-1", "cat-groc", day(2025, time.March, 15), 10000),
		debit("tx-2", "acc-1", "cat-groc", day(2025, time.May, 5), 30000),
		debit("tx-3", "acc-1", "cat-groc", day(2025, time.June, 9), 20000),
	})

	analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 6)
	require.NoError(t, err)

	cmp := analysis.Comparison
	assert.Equal(t, ledger.Cents(30000), cmp.LastPeriodCents)
	// History covers March through May; the empty April counts as zero.
	assert.Equal(t, ledger.Cents(13333), cmp.AveragePeriodCents)
	assert.Zero(t, cmp.BestPeriodCents)
	assert.Equal(t, TrendDown, cmp.Trend)
	assert.InDelta(t, -33.33, cmp.ChangeFromLastPct, 0.01)
}

func TestComparisonWithoutHistory(t *testing.T) {
	snap := newSnapshot(t, []ledger.Transaction{
		debit("tx-1", "acc-1", "cat-groc", day(2025, time.June, 9), 20000),
	})

	analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 6)
	require.NoError(t, err)

	cmp := analysis.Comparison
	assert.Zero(t, cmp.LastPeriodCents)
	assert.Zero(t, cmp.AveragePeriodCents)
	assert.Zero(t, cmp.BestPeriodCents)
	assert.Equal(t, TrendUp, cmp.Trend)
	assert.Zero(t, cmp.ChangeFromLastPct)
}

func TestTrendStableOnExactMatch(t *testing.T) {
	snap := newSnapshot(t, []ledger.Transaction{
		debit("tx-1", "acc-1", "cat-groc", day(2025, time.May, 5), 2000),
		debit("tx-2", "acc-1", "cat-groc", day(2025, time.June, 9), 2000),
	})

	analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, TrendStable, analysis.Comparison.Trend)
	assert.Zero(t, analysis.Comparison.ChangeFromLastPct)
}

func TestTrendDirection(t *testing.T) {
	tests := []struct {
		name  string
		total ledger.Cents
		last  ledger.Cents
		want  string
	}{
		{"up", 5001, 5000, TrendUp},
		{"down", 4999, 5000, TrendDown},
		{"stable", 5000, 5000, TrendStable},
		{"both zero", 0, 0, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trendOf(tt.total, tt.last))
		})
	}
}

func TestProjectionMidWindow(t *testing.T) {
	snap := newSnapshot(t, []ledger.Transaction{
		debit("tx-1", "acc-1", "cat-groc", day(2025, time.July, 3), 15500),
		debit("tx-2", "acc-1", "cat-groc", day(2025, time.July, 8), 15500),
	})

	analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 7)
	require.NoError(t, err)

	// Fixed clock sits on July 10, ten days into a 31-day window.
	assert.Equal(t, 10, analysis.ElapsedDays)
	assert.Equal(t, 31, analysis.TotalDays)
	assert.Equal(t, ledger.Cents(31000), analysis.TotalCents)
	assert.Equal(t, ledger.Cents(3100), analysis.DailyAverageCents)
	assert.Equal(t, ledger.Cents(96100), analysis.ProjectedTotalCents)
}

func TestProjectionCompletedWindow(t *testing.T) {
	snap := newSnapshot(t, []ledger.Transaction{
		debit("tx-1", "acc-1", "cat-groc", day(2025, time.June, 3), 9000),
	})

	analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 6)
	require.NoError(t, err)

	assert.Equal(t, 30, analysis.ElapsedDays)
	assert.Equal(t, 30, analysis.TotalDays)
	assert.Equal(t, ledger.Cents(300), analysis.DailyAverageCents)
	assert.Equal(t, analysis.TotalCents, analysis.ProjectedTotalCents)
}

func TestProjectionFutureWindow(t *testing.T) {
	snap := newSnapshot(t, []ledger.Transaction{
		debit("tx-1", "acc-1", "cat-groc", day(2025, time.June, 3), 9000),
	})

	analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 9)
	require.NoError(t, err)

	assert.Zero(t, analysis.ElapsedDays)
	assert.Equal(t, 30, analysis.TotalDays)
	assert.Zero(t, analysis.TotalCents)
	assert.Zero(t, analysis.DailyAverageCents)
	assert.Zero(t, analysis.ProjectedTotalCents)
}

func TestWindowHelpers(t *testing.T) {
	t.Run("month", func(t *testing.T) {
		start, end := periodWindow(2025, 2)
		assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), end)
	})
	t.Run("year", func(t *testing.T) {
		start, end := periodWindow(2024, 0)
		assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)
	})
	t.Run("align month", func(t *testing.T) {
		got := alignWindow(day(2025, time.March, 17), 3)
		assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), got)
	})
	t.Run("align year", func(t *testing.T) {
		got := alignWindow(day(2025, time.March, 17), 0)
		assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), got)
	})
}
