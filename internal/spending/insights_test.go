package spending

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breckhall/finsight/internal/ledger"
)

func TestOverBudgetAlerts(t *testing.T) {
	snap := newSnapshot(t, []ledger.Transaction{
		debit("tx-1", "acc-1", "cat-hobby", day(2025, time.June, 2), 45000),
		debit("tx-2", "acc-1", "cat-groc", day(2025, time.June, 3), 6000),
	})

	analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 6)
	require.NoError(t, err)

	require.Len(t, analysis.Insights, 3)

	hobby := analysis.Insights[0]
	assert.Equal(t, InsightAlert, hobby.Kind)
	assert.Equal(t, "cat-hobby", hobby.CategoryID)
	assert.Equal(t, "high", hobby.Severity)
	assert.NotEmpty(t, hobby.ID)
	assert.Contains(t, hobby.Message, "Model Trains")
	assert.Contains(t, hobby.Message, "$450.00")
	assert.Contains(t, hobby.Message, "$200.00")

	groc := analysis.Insights[1]
	assert.Equal(t, InsightAlert, groc.Kind)
	assert.Equal(t, "cat-groc", groc.CategoryID)
	assert.Equal(t, "warning", groc.Severity)

	assert.Equal(t, InsightTrend, analysis.Insights[2].Kind)
	assert.NotEqual(t, hobby.ID, groc.ID)
}

func TestSuccessInsightBelowAverage(t *testing.T) {
	snap := newSnapshot(t, []ledger.Transaction{
		debit("tx-1", "acc-1", "cat-groc", day(2025, time.May, 5), 50000),
		debit("tx-2", "acc-1", "cat-groc", day(2025, time.June, 9), 2000),
	})

	analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 6)
	require.NoError(t, err)

	require.Len(t, analysis.Insights, 2)
	success := analysis.Insights[0]
	assert.Equal(t, InsightSuccess, success.Kind)
	assert.Empty(t, success.CategoryID)
	assert.Contains(t, success.Message, "$20.00")
	assert.Contains(t, success.Message, "96%")
	assert.Contains(t, success.Message, "$500.00")

	assert.Equal(t, InsightTrend, analysis.Insights[1].Kind)
	assert.Contains(t, analysis.Insights[1].Message, "down $480.00")
}

func TestNoSuccessInsightInsideMargin(t *testing.T) {
	snap := newSnapshot(t, []ledger.Transaction{
		debit("tx-1", "acc-1", "cat-groc", day(2025, time.May, 5), 2000),
		debit("tx-2", "acc-1", "cat-groc", day(2025, time.June, 9), 1900),
	})

	analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 6)
	require.NoError(t, err)

	// 5% under average is inside the 10% margin: only the trend remains.
	require.Len(t, analysis.Insights, 1)
	assert.Equal(t, InsightTrend, analysis.Insights[0].Kind)
}

func TestTrendInsightMessages(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		snap := newSnapshot(t, []ledger.Transaction{
			debit("tx-1", "acc-1", "cat-groc", day(2025, time.May, 5), 1000),
			debit("tx-2", "acc-1", "cat-groc", day(2025, time.June, 9), 3500),
		})
		analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 6)
		require.NoError(t, err)

		trend := analysis.Insights[len(analysis.Insights)-1]
		assert.Equal(t, InsightTrend, trend.Kind)
		assert.Contains(t, trend.Message, "up $25.00")
	})

	t.Run("stable", func(t *testing.T) {
		snap := newSnapshot(t, []ledger.Transaction{
			debit("tx-1", "acc-1", "cat-groc", day(2025, time.May, 5), 1000),
			debit("tx-2", "acc-1", "cat-groc", day(2025, time.June, 9), 1000),
		})
		analysis, err := newAggregator().Compute(snap, "cust-1", 2025, 6)
		require.NoError(t, err)

		trend := analysis.Insights[len(analysis.Insights)-1]
		assert.Equal(t, "Spending is unchanged from the previous period.", trend.Message)
	})
}

func TestAlertSeverityThreshold(t *testing.T) {
	tests := []struct {
		name   string
		spent  ledger.Cents
		budget ledger.Cents
		want   string
	}{
		{"just over", 5001, 5000, "warning"},
		{"at half again", 7500, 5000, "high"},
		{"beyond half again", 9000, 5000, "high"},
		{"zero budget", 100, 0, "warning"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, alertSeverity(tt.spent, tt.budget))
		})
	}
}

func TestDefaultBudgetTable(t *testing.T) {
	limit, ok := defaultMonthlyBudget("  Groceries ")
	assert.True(t, ok)
	assert.Equal(t, ledger.Cents(60000), limit)

	_, ok = defaultMonthlyBudget("model trains")
	assert.False(t, ok)
}
