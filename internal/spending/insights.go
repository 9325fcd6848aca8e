package spending

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/breckhall/finsight/internal/ledger"
)

// Insight kinds, in the order they are emitted.
const (
	InsightAlert   = "alert"
	InsightSuccess = "success"
	InsightTrend   = "trend"
)

// Insight is one human-readable observation derived from the analysis.
type Insight struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Severity   string `json:"severity"`
	CategoryID string `json:"categoryId,omitempty"`
	Message    string `json:"message"`
}

// defaultMonthlyBudgets backs profiles with no budget table of their own.
// Keys are normalized category names; amounts are monthly, in cents.
var defaultMonthlyBudgets = map[string]ledger.Cents{
	"groceries":      60000,
	"dining":         30000,
	"restaurants":    30000,
	"rent":           200000,
	"utilities":      22000,
	"transportation": 25000,
	"fuel":           18000,
	"entertainment":  15000,
	"shopping":       30000,
	"subscriptions":  8000,
	"healthcare":     15000,
	"insurance":      20000,
	"travel":         20000,
	"education":      15000,
	"fitness":        8000,
	"personal care":  10000,
	"gifts":          10000,
}

func defaultMonthlyBudget(name string) (ledger.Cents, bool) {
	limit, ok := defaultMonthlyBudgets[strings.ToLower(strings.TrimSpace(name))]
	return limit, ok
}

// buildInsights derives the rule-based observations: one alert per
// over-budget category, a success note when the window runs well below the
// historical average, and a closing trend summary.
func (a *Aggregator) buildInsights(analysis *SpendingAnalysis) []Insight {
	insights := make([]Insight, 0, len(analysis.Categories)+2)

	for _, row := range analysis.Categories {
		if !row.OverBudget {
			continue
		}
		insights = append(insights, Insight{
			ID:         uuid.NewString(),
			Kind:       InsightAlert,
			Severity:   alertSeverity(row.SpentCents, row.BudgetCents),
			CategoryID: row.CategoryID,
			Message: fmt.Sprintf("%s is over budget: %s spent of %s.",
				row.Name, row.SpentCents.Display(), row.BudgetCents.Display()),
		})
	}

	if ok, savedPct := a.belowAverage(analysis); ok {
		insights = append(insights, Insight{
			ID:       uuid.NewString(),
			Kind:     InsightSuccess,
			Severity: "info",
			Message: fmt.Sprintf("Spending of %s is %.0f%% below your typical period of %s.",
				analysis.TotalCents.Display(), savedPct, analysis.Comparison.AveragePeriodCents.Display()),
		})
	}

	insights = append(insights, a.trendInsight(analysis))
	return insights
}

// belowAverage reports whether the window total undercuts the historical
// average by at least the configured margin.
func (a *Aggregator) belowAverage(analysis *SpendingAnalysis) (bool, float64) {
	avg := analysis.Comparison.AveragePeriodCents
	if avg <= 0 {
		return false, 0
	}
	threshold := ledger.Cents(math.Round(float64(avg) * (100 - a.cfg.SuccessMarginPct) / 100))
	if analysis.TotalCents >= threshold {
		return false, 0
	}
	return true, float64(avg-analysis.TotalCents) / float64(avg) * 100
}

func (a *Aggregator) trendInsight(analysis *SpendingAnalysis) Insight {
	var msg string
	switch analysis.Comparison.Trend {
	case TrendUp:
		msg = fmt.Sprintf("Spending is up %s from the previous period.",
			(analysis.TotalCents - analysis.Comparison.LastPeriodCents).Display())
	case TrendDown:
		msg = fmt.Sprintf("Spending is down %s from the previous period.",
			(analysis.Comparison.LastPeriodCents - analysis.TotalCents).Display())
	default:
		msg = "Spending is unchanged from the previous period."
	}
	return Insight{
		ID:       uuid.NewString(),
		Kind:     InsightTrend,
		Severity: "info",
		Message:  msg,
	}
}

// alertSeverity escalates once a category overshoots its budget by half
// again.
func alertSeverity(spent, budget ledger.Cents) string {
	if budget > 0 && float64(spent) >= float64(budget)*1.5 {
		return "high"
	}
	return "warning"
}
