package store

import (
	"sort"
	"time"

	"github.com/breckhall/finsight/internal/ledger"
)

// Snapshot is one fully indexed, immutable view of the ledger. All returned
// slices are shared with the snapshot and must not be modified by callers.
type Snapshot struct {
	generation         uint64
	customers          map[string]ledger.Customer
	accounts           map[string]ledger.Account
	accountsByCustomer map[string][]ledger.Account
	categories         map[string]ledger.Category
	categoryList       []ledger.Category
	goalsByCustomer    map[string][]ledger.Goal
	budgetsByCustomer  map[string]map[string]ledger.Cents
	txByAccount        map[string][]ledger.Transaction
	warnings           []ReferenceWarning
}

// Generation identifies which load produced this snapshot.
func (sn *Snapshot) Generation() uint64 {
	return sn.generation
}

// Customer looks up one customer. ok is false for unknown identifiers; the
// zero Customer is never returned as real data.
func (sn *Snapshot) Customer(id string) (ledger.Customer, bool) {
	c, ok := sn.customers[id]
	return c, ok
}

// Account looks up one account by identifier.
func (sn *Snapshot) Account(id string) (ledger.Account, bool) {
	a, ok := sn.accounts[id]
	return a, ok
}

// AccountsFor returns the accounts owned by a customer, in snapshot order.
func (sn *Snapshot) AccountsFor(customerID string) []ledger.Account {
	return sn.accountsByCustomer[customerID]
}

// Category looks up one category by identifier.
func (sn *Snapshot) Category(id string) (ledger.Category, bool) {
	c, ok := sn.categories[id]
	return c, ok
}

// Categories returns all categories sorted by identifier.
func (sn *Snapshot) Categories() []ledger.Category {
	return sn.categoryList
}

// GoalsFor returns the goals owned by a customer, in snapshot order.
func (sn *Snapshot) GoalsFor(customerID string) []ledger.Goal {
	return sn.goalsByCustomer[customerID]
}

// BudgetFor returns the monthly budget limit a customer has assigned to a
// category. ok is false when the profile's budget table has no row for it.
func (sn *Snapshot) BudgetFor(customerID, categoryID string) (ledger.Cents, bool) {
	limit, ok := sn.budgetsByCustomer[customerID][categoryID]
	return limit, ok
}

// TransactionsFor returns all transactions on the given accounts with
// from <= timestamp < to, merged across accounts and ordered by timestamp
// then identifier. A zero from or to leaves that end of the range open.
func (sn *Snapshot) TransactionsFor(accountIDs []string, from, to time.Time) []ledger.Transaction {
	var out []ledger.Transaction
	for _, id := range accountIDs {
		txns := sn.txByAccount[id]
		start := 0
		if !from.IsZero() {
			start = sort.Search(len(txns), func(i int) bool {
				return !txns[i].Timestamp.Before(from)
			})
		}
		for _, tx := range txns[start:] {
			if !to.IsZero() && !tx.Timestamp.Before(to) {
				break
			}
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// EarliestTransaction returns the oldest transaction timestamp across the
// given accounts. ok is false when the accounts hold no transactions.
func (sn *Snapshot) EarliestTransaction(accountIDs []string) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, id := range accountIDs {
		txns := sn.txByAccount[id]
		if len(txns) == 0 {
			continue
		}
		ts := txns[0].Timestamp
		if ts.IsZero() {
			// Rows with unparseable timestamps sort first; skip past them.
			i := sort.Search(len(txns), func(i int) bool { return !txns[i].Timestamp.IsZero() })
			if i == len(txns) {
				continue
			}
			ts = txns[i].Timestamp
		}
		if !found || ts.Before(earliest) {
			earliest = ts
			found = true
		}
	}
	return earliest, found
}

// Warnings returns the referential-integrity warnings recorded when this
// snapshot was built.
func (sn *Snapshot) Warnings() []ReferenceWarning {
	return sn.warnings
}

// Counts reports the number of records held, for logging after a load.
func (sn *Snapshot) Counts() (customers, accounts, transactions, categories, goals int) {
	for _, txns := range sn.txByAccount {
		transactions += len(txns)
	}
	for _, gs := range sn.goalsByCustomer {
		goals += len(gs)
	}
	return len(sn.customers), len(sn.accounts), transactions, len(sn.categoryList), goals
}
