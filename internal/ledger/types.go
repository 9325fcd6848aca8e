// Package ledger defines the snapshot record types and the CSV loader that
// produces them. Records are immutable once loaded; all mutation happens by
// loading a fresh snapshot.
package ledger

import (
	"strings"
	"time"
)

// AccountKind classifies an account for liquidity tiering and utilization.
type AccountKind string

const (
	AccountChecking   AccountKind = "checking"
	AccountSavings    AccountKind = "savings"
	AccountCredit     AccountKind = "credit"
	AccountLoan       AccountKind = "loan"
	AccountInvestment AccountKind = "investment"
	AccountRetirement AccountKind = "retirement"
	AccountProperty   AccountKind = "property"
	AccountOther      AccountKind = "other"
)

// accountKindAliases maps snapshot spellings onto canonical kinds.
var accountKindAliases = map[string]AccountKind{
	"checking":       AccountChecking,
	"cheque":         AccountChecking,
	"transaction":    AccountChecking,
	"savings":        AccountSavings,
	"saving":         AccountSavings,
	"credit":         AccountCredit,
	"credit card":    AccountCredit,
	"credit_card":    AccountCredit,
	"creditcard":     AccountCredit,
	"loan":           AccountLoan,
	"mortgage":       AccountLoan,
	"investment":     AccountInvestment,
	"brokerage":      AccountInvestment,
	"retirement":     AccountRetirement,
	"401k":           AccountRetirement,
	"ira":            AccountRetirement,
	"superannuation": AccountRetirement,
	"property":       AccountProperty,
	"real estate":    AccountProperty,
	"real_estate":    AccountProperty,
	"other":          AccountOther,
}

// ParseAccountKind maps a raw snapshot value onto a canonical kind. Unknown
// values come back as AccountOther with ok=false so the loader can surface a
// warning while keeping the row.
func ParseAccountKind(raw string) (AccountKind, bool) {
	k, ok := accountKindAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return AccountOther, false
	}
	return k, true
}

func (k AccountKind) String() string { return string(k) }

// LiquidityTier classifies how quickly an asset converts to cash without
// penalty.
type LiquidityTier string

const (
	TierLiquid   LiquidityTier = "liquid"
	TierIlliquid LiquidityTier = "illiquid"
)

// Tier returns the liquidity tier for asset balances held in this kind.
// Retirement and property balances carry withdrawal friction; everything else
// that shows up on the asset side is treated as cash-accessible.
func (k AccountKind) Tier() LiquidityTier {
	switch k {
	case AccountRetirement, AccountProperty, AccountOther:
		return TierIlliquid
	default:
		return TierLiquid
	}
}

// Customer is one profile owner.
type Customer struct {
	ID       string
	Location string
	Age      int
	// CreditScore is the profile-level base score from the snapshot;
	// zero means the snapshot did not carry one.
	CreditScore int
}

// Account is a single financial account. Balance sign decides asset vs
// liability: >= 0 is an asset, < 0 is a liability (a zero-balance credit
// card is an asset).
type Account struct {
	ID          string
	CustomerID  string
	Institution string
	Kind        AccountKind
	Balance     Cents
	// CreditLimit is only meaningful for credit accounts; zero means absent.
	CreditLimit Cents
}

// Transaction is a single ledger movement on an account. Amount keeps the
// snapshot sign (debits are negative).
type Transaction struct {
	ID           string
	AccountID    string
	CategoryID   string
	Timestamp    time.Time
	Amount       Cents
	Description  string
	Debit        bool
	Bill         bool
	Subscription bool
	// DueDate is set for scheduled bills; zero when absent.
	DueDate time.Time
}

// Recurring reports whether the transaction belongs to the recurring split
// of a spending breakdown.
func (t Transaction) Recurring() bool {
	return t.Bill || t.Subscription
}

// Category is a spending category as present in the snapshot.
type Category struct {
	ID   string
	Name string
}

// Goal is a savings target owned by a customer.
type Goal struct {
	ID           string
	CustomerID   string
	Name         string
	TargetAmount Cents
	TargetDate   time.Time
}

// Budget is one row of the profile-keyed budget table: a monthly limit for
// one category of one customer.
type Budget struct {
	CustomerID   string
	CategoryID   string
	MonthlyLimit Cents
}

// Records is the full typed output of one snapshot load.
type Records struct {
	Customers    []Customer
	Accounts     []Account
	Transactions []Transaction
	Categories   []Category
	Goals        []Goal
	Budgets      []Budget
}
