// Package metrics computes point-in-time financial metrics for one profile
// from a store snapshot. Computations are pure given the snapshot and the
// injected clock, so they can run concurrently without locking.
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/breckhall/finsight/internal/ledger"
	"github.com/breckhall/finsight/internal/store"
)

// EmergencyFundUndefined is the sentinel for "monthly spending is zero, the
// ratio is undefined". A negative month count can never occur naturally, and
// unlike NaN or Inf it survives JSON marshalling.
const EmergencyFundUndefined = -1.0

// utilizationPenaltyThreshold is the utilization percentage above which the
// credit score penalty starts.
const utilizationPenaltyThreshold = 30.0

// Config holds the calculator tunables. Values come from environment
// configuration, not call sites.
type Config struct {
	// IlliquidFrictionPct is the early-withdrawal/tax haircut applied to
	// illiquid assets in accessible net worth, in percent.
	IlliquidFrictionPct float64
	// BaseCreditScore is used when a profile carries no score of its own.
	BaseCreditScore int
	// UtilizationPenalty is score points lost per utilization point above
	// the threshold.
	UtilizationPenalty float64
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{
		IlliquidFrictionPct: 30,
		BaseCreditScore:     715,
		UtilizationPenalty:  2,
	}
}

// ProfileMetrics is the derived point-in-time picture of one profile.
// Monetary fields carry both minor units (authoritative) and major units
// (display); all arithmetic happens in cents.
type ProfileMetrics struct {
	CustomerID string `json:"customerId"`

	NetWorth              float64      `json:"netWorth"`
	NetWorthCents         ledger.Cents `json:"netWorthCents"`
	TotalAssets           float64      `json:"totalAssets"`
	TotalAssetsCents      ledger.Cents `json:"totalAssetsCents"`
	TotalLiabilities      float64      `json:"totalLiabilities"`
	TotalLiabilitiesCents ledger.Cents `json:"totalLiabilitiesCents"`

	LiquidAssets            float64                               `json:"liquidAssets"`
	LiquidAssetsCents       ledger.Cents                          `json:"liquidAssetsCents"`
	AssetsByTierCents       map[ledger.LiquidityTier]ledger.Cents `json:"assetsByTierCents"`
	AccessibleNetWorth      float64                               `json:"accessibleNetWorth"`
	AccessibleNetWorthCents ledger.Cents                          `json:"accessibleNetWorthCents"`

	// Monthly figures cover the most recent complete calendar month,
	// identified by MetricsMonth ("2006-01").
	MetricsMonth             string       `json:"metricsMonth"`
	MonthlyIncome            float64      `json:"monthlyIncome"`
	MonthlyIncomeCents       ledger.Cents `json:"monthlyIncomeCents"`
	MonthlySpending          float64      `json:"monthlySpending"`
	MonthlySpendingCents     ledger.Cents `json:"monthlySpendingCents"`
	MonthlyDebtPayments      float64      `json:"monthlyDebtPayments"`
	MonthlyDebtPaymentsCents ledger.Cents `json:"monthlyDebtPaymentsCents"`

	CreditUtilizationPct float64 `json:"creditUtilizationPct"`
	DebtToIncomePct      float64 `json:"debtToIncomePct"`
	SavingsRatePct       float64 `json:"savingsRatePct"`
	// EmergencyFundMonths is EmergencyFundUndefined when monthly spending
	// is zero.
	EmergencyFundMonths float64 `json:"emergencyFundMonths"`
	CreditScore         int     `json:"creditScore"`

	GoalOutlooks []GoalOutlook `json:"goalOutlooks"`
}

// Calculator computes ProfileMetrics. Construct with NewCalculator.
type Calculator struct {
	cfg Config
	now func() time.Time
}

// NewCalculator returns a calculator using the given tunables. A nil clock
// falls back to time.Now; tests inject a fixed one.
func NewCalculator(cfg Config, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{cfg: cfg, now: now}
}

// Compute derives the full metrics picture for one customer. Unknown
// customers return an error wrapping store.ErrNotFound.
func (c *Calculator) Compute(snap *store.Snapshot, customerID string) (*ProfileMetrics, error) {
	customer, ok := snap.Customer(customerID)
	if !ok {
		return nil, fmt.Errorf("customer %q: %w", customerID, store.ErrNotFound)
	}

	accounts := snap.AccountsFor(customerID)

	var totalAssets, totalLiabilities ledger.Cents
	assetsByTier := map[ledger.LiquidityTier]ledger.Cents{
		ledger.TierLiquid:   0,
		ledger.TierIlliquid: 0,
	}
	var creditOwed, creditLimits ledger.Cents
	hasCreditLimit := false

	for _, a := range accounts {
		if a.Balance >= 0 {
			totalAssets += a.Balance
			assetsByTier[a.Kind.Tier()] += a.Balance
		} else {
			totalLiabilities += -a.Balance
		}
		if a.Kind == ledger.AccountCredit {
			if a.Balance < 0 {
				creditOwed += -a.Balance
			}
			if a.CreditLimit > 0 {
				creditLimits += a.CreditLimit
				hasCreditLimit = true
			}
		}
	}

	liquid := assetsByTier[ledger.TierLiquid]
	illiquid := assetsByTier[ledger.TierIlliquid]
	netWorth := totalAssets - totalLiabilities

	// Accessible net worth haircuts illiquid assets by the friction
	// percentage before netting liabilities.
	accessibleIlliquid := ledger.Cents(math.Round(float64(illiquid) * (100 - c.cfg.IlliquidFrictionPct) / 100))
	accessible := liquid + accessibleIlliquid - totalLiabilities

	windowStart, windowEnd := lastCompleteMonth(c.now())
	income, spending, debtPayments := c.monthlyFlows(snap, accounts, windowStart, windowEnd)

	utilization := 0.0
	if hasCreditLimit && creditLimits > 0 {
		utilization = float64(creditOwed) / float64(creditLimits) * 100
	}

	dti := 0.0
	if income > 0 {
		dti = float64(debtPayments) / float64(income) * 100
	}

	savingsRate := 0.0
	if income > 0 {
		savingsRate = float64(income-spending) / float64(income) * 100
		if savingsRate > 100 {
			savingsRate = 100
		}
	}

	emergencyMonths := EmergencyFundUndefined
	if spending > 0 {
		emergencyMonths = float64(liquid) / float64(spending)
	}

	return &ProfileMetrics{
		CustomerID: customerID,

		NetWorth:              netWorth.Dollars(),
		NetWorthCents:         netWorth,
		TotalAssets:           totalAssets.Dollars(),
		TotalAssetsCents:      totalAssets,
		TotalLiabilities:      totalLiabilities.Dollars(),
		TotalLiabilitiesCents: totalLiabilities,

		LiquidAssets:            liquid.Dollars(),
		LiquidAssetsCents:       liquid,
		AssetsByTierCents:       assetsByTier,
		AccessibleNetWorth:      accessible.Dollars(),
		AccessibleNetWorthCents: accessible,

		MetricsMonth:             windowStart.Format("2006-01"),
		MonthlyIncome:            income.Dollars(),
		MonthlyIncomeCents:       income,
		MonthlySpending:          spending.Dollars(),
		MonthlySpendingCents:     spending,
		MonthlyDebtPayments:      debtPayments.Dollars(),
		MonthlyDebtPaymentsCents: debtPayments,

		CreditUtilizationPct: utilization,
		DebtToIncomePct:      dti,
		SavingsRatePct:       savingsRate,
		EmergencyFundMonths:  emergencyMonths,
		CreditScore:          c.creditScore(customer, utilization),

		GoalOutlooks: c.goalOutlooks(snap, customerID, liquid),
	}, nil
}

// monthlyFlows sums the income, spending and debt-payment flows inside the
// given window. Transfers are excluded everywhere; debt payments are kept
// out of spending and reported separately.
func (c *Calculator) monthlyFlows(snap *store.Snapshot, accounts []ledger.Account, from, to time.Time) (income, spending, debtPayments ledger.Cents) {
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}

	for _, tx := range snap.TransactionsFor(ids, from, to) {
		kind := ledger.CategoryRegular
		if name, ok := categoryName(snap, tx.CategoryID); ok {
			kind = ledger.ClassifyCategory(name).Kind
		}

		switch {
		case !tx.Debit && kind == ledger.CategoryIncome:
			income += tx.Amount.Abs()
		case tx.Debit && kind == ledger.CategoryDebt:
			debtPayments += tx.Amount.Abs()
		case tx.Debit && kind == ledger.CategoryRegular:
			spending += tx.Amount.Abs()
		}
	}
	return income, spending, debtPayments
}

// creditScore applies the utilization penalty to the profile's base score
// and clamps to the conventional 300-850 band.
func (c *Calculator) creditScore(customer ledger.Customer, utilization float64) int {
	base := customer.CreditScore
	if base <= 0 {
		base = c.cfg.BaseCreditScore
	}
	penalty := 0.0
	if over := utilization - utilizationPenaltyThreshold; over > 0 {
		penalty = over * c.cfg.UtilizationPenalty
	}
	score := base - int(math.Round(penalty))
	if score < 300 {
		score = 300
	}
	if score > 850 {
		score = 850
	}
	return score
}

// categoryName resolves a transaction's category display name. ok is false
// for missing or unknown references, which aggregate as uncategorized.
func categoryName(snap *store.Snapshot, categoryID string) (string, bool) {
	if categoryID == "" {
		return "", false
	}
	cat, ok := snap.Category(categoryID)
	if !ok {
		return "", false
	}
	return cat.Name, true
}

// lastCompleteMonth returns the [start, end) window of the most recent
// calendar month that has fully elapsed as of now.
func lastCompleteMonth(now time.Time) (time.Time, time.Time) {
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, -1, 0), end
}
