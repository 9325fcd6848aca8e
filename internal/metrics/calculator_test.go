package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breckhall/finsight/internal/ledger"
	"github.com/breckhall/finsight/internal/store"
)

// fixedNow pins the clock to 2025-07-10, so the most recent complete month
// is June 2025.
func fixedNow() time.Time {
	return time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
}

func june(d int) time.Time {
	return time.Date(2025, 6, d, 10, 0, 0, 0, time.UTC)
}

func newSnapshot(t *testing.T, recs ledger.Records) *store.Snapshot {
	t.Helper()
	s := store.New()
	s.Load(recs)
	return s.Snapshot()
}

func baseRecords() ledger.Records {
	return ledger.Records{
		Customers: []ledger.Customer{
			{ID: "cust-1", Location: "Austin", Age: 34, CreditScore: 742},
		},
		Accounts: []ledger.Account{
			{ID: "acc-chk", CustomerID: "cust-1", Kind: ledger.AccountChecking, Balance: 284700},
			{ID: "acc-brk", CustomerID: "cust-1", Kind: ledger.AccountInvestment, Balance: 520000},
			{ID: "acc-loan", CustomerID: "cust-1", Kind: ledger.AccountLoan, Balance: -2850000},
			{ID: "acc-cc", CustomerID: "cust-1", Kind: ledger.AccountCredit, Balance: -120000, CreditLimit: 500000},
		},
		Categories: []ledger.Category{
			{ID: "cat-salary", Name: "Salary"},
			{ID: "cat-groc", Name: "Groceries"},
			{ID: "cat-ccpay", Name: "Credit Card Payment"},
			{ID: "cat-xfer", Name: "Transfer"},
		},
		Transactions: []ledger.Transaction{
			{ID: "tx-sal", AccountID: "acc-chk", CategoryID: "cat-salary", Timestamp: june(1), Amount: 320000},
			{ID: "tx-g1", AccountID: "acc-chk", CategoryID: "cat-groc", Timestamp: june(3), Amount: -5000, Debit: true},
			{ID: "tx-g2", AccountID: "acc-chk", CategoryID: "cat-groc", Timestamp: june(8), Amount: -3000, Debit: true},
			{ID: "tx-debt", AccountID: "acc-chk", CategoryID: "cat-ccpay", Timestamp: june(12), Amount: -20000, Debit: true},
			{ID: "tx-xfer", AccountID: "acc-chk", CategoryID: "cat-xfer", Timestamp: june(15), Amount: -50000, Debit: true},
			// Outside the complete-month window: must not count.
			{ID: "tx-may", AccountID: "acc-chk", CategoryID: "cat-groc", Timestamp: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), Amount: -9900, Debit: true},
			{ID: "tx-jul", AccountID: "acc-chk", CategoryID: "cat-groc", Timestamp: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), Amount: -7700, Debit: true},
		},
	}
}

func TestComputeBalanceSheet(t *testing.T) {
	// Balances 2847.00, 5200.00, -28500.00, -1200.00.
	snap := newSnapshot(t, baseRecords())
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)

	assert.Equal(t, ledger.Cents(804700), m.TotalAssetsCents)
	assert.Equal(t, ledger.Cents(2970000), m.TotalLiabilitiesCents)
	assert.Equal(t, ledger.Cents(-2165300), m.NetWorthCents)
	assert.InDelta(t, -21653.0, m.NetWorth, 1e-9)

	// Checking and brokerage are both liquid; nothing here is illiquid.
	assert.Equal(t, ledger.Cents(804700), m.LiquidAssetsCents)
	assert.Equal(t, ledger.Cents(0), m.AssetsByTierCents[ledger.TierIlliquid])
	assert.Equal(t, m.NetWorthCents, m.AccessibleNetWorthCents)

	// Net worth reconciles with the tier partition to the cent.
	sum := m.AssetsByTierCents[ledger.TierLiquid] + m.AssetsByTierCents[ledger.TierIlliquid] - m.TotalLiabilitiesCents
	assert.Equal(t, m.NetWorthCents, sum)
}

func TestComputeMonthlyFlows(t *testing.T) {
	snap := newSnapshot(t, baseRecords())
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)

	assert.Equal(t, "2025-06", m.MetricsMonth)
	assert.Equal(t, ledger.Cents(320000), m.MonthlyIncomeCents)
	// Spending excludes the transfer and the card payment.
	assert.Equal(t, ledger.Cents(8000), m.MonthlySpendingCents)
	assert.Equal(t, ledger.Cents(20000), m.MonthlyDebtPaymentsCents)

	assert.InDelta(t, 6.25, m.DebtToIncomePct, 1e-9)
	assert.InDelta(t, 97.5, m.SavingsRatePct, 1e-9)
	assert.InDelta(t, float64(804700)/float64(8000), m.EmergencyFundMonths, 1e-9)
}

func TestComputeIlliquidFriction(t *testing.T) {
	recs := baseRecords()
	recs.Accounts = append(recs.Accounts,
		ledger.Account{ID: "acc-401k", CustomerID: "cust-1", Kind: ledger.AccountRetirement, Balance: 1000000},
	)
	snap := newSnapshot(t, recs)
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)

	assert.Equal(t, ledger.Cents(1000000), m.AssetsByTierCents[ledger.TierIlliquid])
	assert.Equal(t, ledger.Cents(804700), m.LiquidAssetsCents)

	// 30% friction leaves 70% of the retirement balance accessible.
	wantAccessible := ledger.Cents(804700) + ledger.Cents(700000) - ledger.Cents(2970000)
	assert.Equal(t, wantAccessible, m.AccessibleNetWorthCents)
	// Full net worth still counts the illiquid balance at face value.
	assert.Equal(t, ledger.Cents(-1165300), m.NetWorthCents)
}

func TestComputeCreditUtilization(t *testing.T) {
	snap := newSnapshot(t, baseRecords())
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)
	// 1200 owed on a 5000 limit.
	assert.InDelta(t, 24.0, m.CreditUtilizationPct, 1e-9)
}

func TestComputeUtilizationNoCreditAccounts(t *testing.T) {
	recs := baseRecords()
	recs.Accounts = recs.Accounts[:3] // drop the credit card
	snap := newSnapshot(t, recs)
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)
	assert.Zero(t, m.CreditUtilizationPct)
}

func TestComputeUtilizationOverpaidCard(t *testing.T) {
	recs := baseRecords()
	// Overpaid card: positive balance owes nothing.
	recs.Accounts[3].Balance = 5000
	snap := newSnapshot(t, recs)
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)
	assert.Zero(t, m.CreditUtilizationPct)
	// The positive balance counts as an asset.
	assert.Equal(t, ledger.Cents(804700+5000), m.TotalAssetsCents)
}

func TestComputeZeroIncomeGuards(t *testing.T) {
	recs := baseRecords()
	// Remove the salary deposit.
	recs.Transactions = recs.Transactions[1:]
	snap := newSnapshot(t, recs)
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)
	assert.Zero(t, m.MonthlyIncomeCents)
	assert.Zero(t, m.DebtToIncomePct)
	assert.Zero(t, m.SavingsRatePct)
}

func TestComputeEmergencyFundUndefined(t *testing.T) {
	recs := baseRecords()
	// Only the salary remains: no spending at all.
	recs.Transactions = recs.Transactions[:1]
	snap := newSnapshot(t, recs)
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)
	assert.Zero(t, m.MonthlySpendingCents)
	assert.Equal(t, EmergencyFundUndefined, m.EmergencyFundMonths)
}

func TestComputeNegativeSavingsRate(t *testing.T) {
	recs := baseRecords()
	// Spend more than the month's income.
	recs.Transactions = append(recs.Transactions, ledger.Transaction{
		ID: "tx-big", AccountID: "acc-chk", CategoryID: "cat-groc", Timestamp: june(20), Amount: -400000, Debit: true,
	})
	snap := newSnapshot(t, recs)
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)
	// (3200 - 4080) / 3200 = -27.5%: overspending is meaningful, not an
	// error.
	assert.InDelta(t, -27.5, m.SavingsRatePct, 1e-9)
}

func TestComputeCreditScore(t *testing.T) {
	tests := []struct {
		name      string
		baseScore int
		balance   ledger.Cents
		limit     ledger.Cents
		wantScore int
	}{
		{name: "below threshold keeps base", baseScore: 742, balance: -120000, limit: 500000, wantScore: 742},
		{name: "high utilization penalized", baseScore: 742, balance: -400000, limit: 500000, wantScore: 642},
		{name: "floor at 300", baseScore: 320, balance: -500000, limit: 500000, wantScore: 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := baseRecords()
			recs.Customers[0].CreditScore = tt.baseScore
			recs.Accounts[3].Balance = tt.balance
			recs.Accounts[3].CreditLimit = tt.limit
			snap := newSnapshot(t, recs)
			calc := NewCalculator(DefaultConfig(), fixedNow)

			m, err := calc.Compute(snap, "cust-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, m.CreditScore)
		})
	}
}

func TestComputeDefaultBaseScore(t *testing.T) {
	recs := baseRecords()
	recs.Customers[0].CreditScore = 0 // snapshot carried none
	snap := newSnapshot(t, recs)
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().BaseCreditScore, m.CreditScore)
}

func TestComputeUnknownCustomer(t *testing.T) {
	snap := newSnapshot(t, baseRecords())
	calc := NewCalculator(DefaultConfig(), fixedNow)

	_, err := calc.Compute(snap, "nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestComputeUncategorizedTransactions(t *testing.T) {
	recs := baseRecords()
	// A debit with a dangling category reference counts as regular
	// spending, not a fault.
	recs.Transactions = append(recs.Transactions, ledger.Transaction{
		ID: "tx-dangling", AccountID: "acc-chk", CategoryID: "cat-ghost", Timestamp: june(18), Amount: -1500, Debit: true,
	})
	snap := newSnapshot(t, recs)
	calc := NewCalculator(DefaultConfig(), fixedNow)

	m, err := calc.Compute(snap, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, ledger.Cents(9500), m.MonthlySpendingCents)
}
