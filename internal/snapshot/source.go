// Package snapshot fetches the raw ledger CSV files from wherever they live,
// a local directory or a GCS bucket, and hands them to the loader.
package snapshot

import (
	"context"

	"github.com/breckhall/finsight/internal/ledger"
)

// Snapshot file names as published by the export pipeline.
const (
	CustomersFile    = "customers.csv"
	AccountsFile     = "accounts.csv"
	TransactionsFile = "transactions.csv"
	CategoriesFile   = "categories.csv"
	GoalsFile        = "goals.csv"
	BudgetsFile      = "budgets.csv"
)

// Source fetches one complete set of snapshot files. budgets.csv is optional
// everywhere; the other five files must exist.
type Source interface {
	Fetch(ctx context.Context) (ledger.SnapshotFiles, error)
	// Describe names the source for logs.
	Describe() string
}
