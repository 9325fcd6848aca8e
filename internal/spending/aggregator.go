// Package spending computes category and time-window spending analytics for
// one profile: breakdowns, period comparisons, projections and rule-based
// insights. Like the metrics calculator it is pure given a snapshot and a
// clock.
package spending

import (
	"fmt"
	"sort"
	"time"

	"github.com/breckhall/finsight/internal/ledger"
	"github.com/breckhall/finsight/internal/store"
)

// Trend describes the direction of the period-over-period comparison.
// Stable is reserved for an exact zero difference.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Config holds the aggregator tunables.
type Config struct {
	// SuccessMarginPct is how far below the average period total spending
	// must be before the success insight fires, in percent.
	SuccessMarginPct float64
	// DefaultMonthlyBudget applies to categories absent from both the
	// profile's budget table and the built-in defaults.
	DefaultMonthlyBudget ledger.Cents
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		SuccessMarginPct:     10,
		DefaultMonthlyBudget: 20000,
	}
}

// CategorySpend is one row of the per-category breakdown.
type CategorySpend struct {
	CategoryID  string       `json:"categoryId"`
	Name        string       `json:"name"`
	Icon        string       `json:"icon"`
	Rank        int          `json:"rank"`
	Spent       float64      `json:"spent"`
	SpentCents  ledger.Cents `json:"spentCents"`
	Budget      float64      `json:"budget"`
	BudgetCents ledger.Cents `json:"budgetCents"`
	OverBudget  bool         `json:"overBudget"`
	SharePct    float64      `json:"sharePct"`
	// Transactions is the number of debits aggregated into this row.
	Transactions int `json:"transactions"`
}

// Comparison relates the requested window to the profile's history of
// same-length windows.
type Comparison struct {
	LastPeriod         float64      `json:"lastPeriod"`
	LastPeriodCents    ledger.Cents `json:"lastPeriodCents"`
	AveragePeriod      float64      `json:"averagePeriod"`
	AveragePeriodCents ledger.Cents `json:"averagePeriodCents"`
	BestPeriod         float64      `json:"bestPeriod"`
	BestPeriodCents    ledger.Cents `json:"bestPeriodCents"`
	// ChangeFromLastPct is zero when the previous period had no spending.
	ChangeFromLastPct float64 `json:"changeFromLastPct"`
	Trend             string  `json:"trend"`
}

// SpendingAnalysis is the full derived result for one window.
type SpendingAnalysis struct {
	CustomerID string `json:"customerId"`
	Year       int    `json:"year"`
	// Month is zero for a full-year window.
	Month       int       `json:"month,omitempty"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	Total             float64      `json:"total"`
	TotalCents        ledger.Cents `json:"totalCents"`
	Recurring         float64      `json:"recurring"`
	RecurringCents    ledger.Cents `json:"recurringCents"`
	NonRecurring      float64      `json:"nonRecurring"`
	NonRecurringCents ledger.Cents `json:"nonRecurringCents"`

	Categories []CategorySpend `json:"categories"`
	Comparison Comparison      `json:"comparison"`

	ElapsedDays         int          `json:"elapsedDays"`
	TotalDays           int          `json:"totalDays"`
	DailyAverage        float64      `json:"dailyAverage"`
	DailyAverageCents   ledger.Cents `json:"dailyAverageCents"`
	ProjectedTotal      float64      `json:"projectedTotal"`
	ProjectedTotalCents ledger.Cents `json:"projectedTotalCents"`

	Insights []Insight `json:"insights"`
}

// Aggregator computes SpendingAnalysis values. Construct with NewAggregator.
type Aggregator struct {
	cfg Config
	now func() time.Time
}

// NewAggregator returns an aggregator using the given tunables. A nil clock
// falls back to time.Now; tests inject a fixed one.
func NewAggregator(cfg Config, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{cfg: cfg, now: now}
}

// Compute aggregates the window for one customer. Month zero means the full
// year. Unknown customers return an error wrapping store.ErrNotFound.
func (a *Aggregator) Compute(snap *store.Snapshot, customerID string, year, month int) (*SpendingAnalysis, error) {
	if _, ok := snap.Customer(customerID); !ok {
		return nil, fmt.Errorf("customer %q: %w", customerID, store.ErrNotFound)
	}

	accounts := snap.AccountsFor(customerID)
	accountIDs := make([]string, len(accounts))
	for i, acc := range accounts {
		accountIDs[i] = acc.ID
	}

	start, end := periodWindow(year, month)
	total, recurring, byCategory := a.aggregateWindow(snap, accountIDs, start, end)

	analysis := &SpendingAnalysis{
		CustomerID:        customerID,
		Year:              year,
		Month:             month,
		PeriodStart:       start,
		PeriodEnd:         end,
		Total:             total.Dollars(),
		TotalCents:        total,
		Recurring:         recurring.Dollars(),
		RecurringCents:    recurring,
		NonRecurring:      (total - recurring).Dollars(),
		NonRecurringCents: total - recurring,
		Categories:        a.rankCategories(snap, customerID, byCategory, total, monthsInWindow(month)),
		Comparison:        a.compare(snap, accountIDs, total, start, month),
	}

	a.project(analysis)
	analysis.Insights = a.buildInsights(analysis)
	return analysis, nil
}

// categoryBucket accumulates one category's debits during aggregation.
type categoryBucket struct {
	spent     ledger.Cents
	recurring ledger.Cents
	count     int
}

// aggregateWindow sums regular-category debit transactions in [start, end).
// Transfers and debt payments are excluded; unknown category references
// collapse into the uncategorized bucket.
func (a *Aggregator) aggregateWindow(snap *store.Snapshot, accountIDs []string, start, end time.Time) (total, recurring ledger.Cents, byCategory map[string]*categoryBucket) {
	byCategory = make(map[string]*categoryBucket)
	for _, tx := range snap.TransactionsFor(accountIDs, start, end) {
		if !tx.Debit {
			continue
		}
		bucketID := ledger.UncategorizedID
		kind := ledger.CategoryRegular
		if cat, ok := snap.Category(tx.CategoryID); ok {
			bucketID = cat.ID
			kind = ledger.ClassifyCategory(cat.Name).Kind
		}
		if kind != ledger.CategoryRegular {
			continue
		}

		b, ok := byCategory[bucketID]
		if !ok {
			b = &categoryBucket{}
			byCategory[bucketID] = b
		}
		amount := tx.Amount.Abs()
		b.spent += amount
		b.count++
		total += amount
		if tx.Recurring() {
			b.recurring += amount
			recurring += amount
		}
	}
	return total, recurring, byCategory
}

// rankCategories turns the aggregation buckets into the sorted breakdown:
// descending by spent, ties broken by category identifier for determinism.
func (a *Aggregator) rankCategories(snap *store.Snapshot, customerID string, byCategory map[string]*categoryBucket, total ledger.Cents, windowMonths int) []CategorySpend {
	rows := make([]CategorySpend, 0, len(byCategory))
	for id, b := range byCategory {
		name := ledger.UncategorizedName
		if cat, ok := snap.Category(id); ok {
			name = ledger.DisplayCategoryName(cat.Name)
		}
		budget := a.budgetFor(snap, customerID, id, name) * ledger.Cents(windowMonths)

		row := CategorySpend{
			CategoryID:   id,
			Name:         name,
			Icon:         ledger.ClassifyCategory(name).Icon,
			Spent:        b.spent.Dollars(),
			SpentCents:   b.spent,
			Budget:       budget.Dollars(),
			BudgetCents:  budget,
			OverBudget:   b.spent > budget,
			Transactions: b.count,
		}
		if total > 0 {
			row.SharePct = float64(b.spent) / float64(total) * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SpentCents != rows[j].SpentCents {
			return rows[i].SpentCents > rows[j].SpentCents
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// budgetFor resolves the monthly budget for a category: the profile's own
// table first, then the built-in per-name defaults, then the generic
// default.
func (a *Aggregator) budgetFor(snap *store.Snapshot, customerID, categoryID, name string) ledger.Cents {
	if limit, ok := snap.BudgetFor(customerID, categoryID); ok {
		return limit
	}
	if limit, ok := defaultMonthlyBudget(name); ok {
		return limit
	}
	return a.cfg.DefaultMonthlyBudget
}

// periodWindow resolves the requested [start, end) window in UTC.
func periodWindow(year, month int) (time.Time, time.Time) {
	if month == 0 {
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func monthsInWindow(month int) int {
	if month == 0 {
		return 12
	}
	return 1
}
