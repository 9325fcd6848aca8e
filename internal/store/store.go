// Package store holds loaded ledger records in memory behind an atomically
// swapped snapshot. A load builds the complete set of indexes off to the
// side and publishes it in one pointer swap, so readers always see either
// the fully-old or fully-new state.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/breckhall/finsight/internal/ledger"
)

// ErrNotFound marks lookups of identifiers absent from the snapshot.
// Callers classify it with errors.Is.
var ErrNotFound = errors.New("not found")

// ReferenceWarning reports a referential-integrity violation found while
// indexing a snapshot. The offending row is still indexed and reported, not
// dropped.
type ReferenceWarning struct {
	Entity    string
	ID        string
	Field     string
	MissingID string
}

func (w ReferenceWarning) String() string {
	return fmt.Sprintf("%s %s references missing %s %q", w.Entity, w.ID, w.Field, w.MissingID)
}

// Store is the process-wide holder of the current snapshot. The zero value
// is not usable; construct with New.
type Store struct {
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
}

// New returns a store primed with an empty snapshot so reads before the
// first load behave like reads of an empty ledger.
func New() *Store {
	s := &Store{}
	s.current.Store(buildSnapshot(ledger.Records{}, 0))
	return s
}

// Load replaces all held data with a freshly indexed snapshot and returns
// the referential-integrity warnings found while building it. In-flight
// reads keep the snapshot they started with.
func (s *Store) Load(recs ledger.Records) []ReferenceWarning {
	snap := buildSnapshot(recs, s.generation.Add(1))
	s.current.Store(snap)
	return snap.warnings
}

// Snapshot returns the current snapshot. Callers hold it for the duration
// of one logical operation so all their reads are mutually consistent.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Generation returns the generation of the current snapshot. It increments
// on every Load.
func (s *Store) Generation() uint64 {
	return s.Snapshot().Generation()
}

func buildSnapshot(recs ledger.Records, generation uint64) *Snapshot {
	snap := &Snapshot{
		generation:         generation,
		customers:          make(map[string]ledger.Customer, len(recs.Customers)),
		accounts:           make(map[string]ledger.Account, len(recs.Accounts)),
		accountsByCustomer: make(map[string][]ledger.Account),
		categories:         make(map[string]ledger.Category, len(recs.Categories)),
		goalsByCustomer:    make(map[string][]ledger.Goal),
		budgetsByCustomer:  make(map[string]map[string]ledger.Cents),
		txByAccount:        make(map[string][]ledger.Transaction),
	}

	for _, c := range recs.Customers {
		snap.customers[c.ID] = c
	}

	for _, a := range recs.Accounts {
		snap.accounts[a.ID] = a
		snap.accountsByCustomer[a.CustomerID] = append(snap.accountsByCustomer[a.CustomerID], a)
		if _, ok := snap.customers[a.CustomerID]; !ok {
			snap.warnings = append(snap.warnings, ReferenceWarning{
				Entity:    "account",
				ID:        a.ID,
				Field:     "customer_id",
				MissingID: a.CustomerID,
			})
		}
	}

	for _, tx := range recs.Transactions {
		snap.txByAccount[tx.AccountID] = append(snap.txByAccount[tx.AccountID], tx)
		if _, ok := snap.accounts[tx.AccountID]; !ok {
			snap.warnings = append(snap.warnings, ReferenceWarning{
				Entity:    "transaction",
				ID:        tx.ID,
				Field:     "account_id",
				MissingID: tx.AccountID,
			})
		}
	}
	// The time-range index relies on per-account timestamp order; ties keep
	// a deterministic ID order.
	for id := range snap.txByAccount {
		txns := snap.txByAccount[id]
		sort.SliceStable(txns, func(i, j int) bool {
			if !txns[i].Timestamp.Equal(txns[j].Timestamp) {
				return txns[i].Timestamp.Before(txns[j].Timestamp)
			}
			return txns[i].ID < txns[j].ID
		})
	}

	for _, c := range recs.Categories {
		snap.categories[c.ID] = c
		snap.categoryList = append(snap.categoryList, c)
	}
	sort.Slice(snap.categoryList, func(i, j int) bool {
		return snap.categoryList[i].ID < snap.categoryList[j].ID
	})

	for _, g := range recs.Goals {
		snap.goalsByCustomer[g.CustomerID] = append(snap.goalsByCustomer[g.CustomerID], g)
	}

	for _, b := range recs.Budgets {
		limits, ok := snap.budgetsByCustomer[b.CustomerID]
		if !ok {
			limits = make(map[string]ledger.Cents)
			snap.budgetsByCustomer[b.CustomerID] = limits
		}
		limits[b.CategoryID] = b.MonthlyLimit
	}

	return snap
}
