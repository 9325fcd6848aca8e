// seed-snapshot generates a demo snapshot directory with several months of
// plausible financial data, ready for the server or CLI to load.
//
// Usage:
//
//	go run ./scripts/seed-snapshot -dir ./data/snapshot -customers 3 -months 6
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var (
	dir       = flag.String("dir", "./data/snapshot", "output snapshot directory")
	customers = flag.Int("customers", 3, "number of customers to generate")
	months    = flag.Int("months", 6, "months of transaction history")
	seed      = flag.Int64("seed", 42, "rng seed, fixed for reproducible snapshots")
)

var locations = []string{
	"Portland, OR", "Seattle, WA", "Denver, CO", "Austin, TX", "Madison, WI",
}

// categories is the fixed demo taxonomy. Names line up with the budget
// defaults so generated profiles get sensible over/under budget spreads.
var categories = [][2]string{
	{"cat-groc", "Groceries"},
	{"cat-dine", "Dining"},
	{"cat-rent", "Rent"},
	{"cat-util", "Utilities"},
	{"cat-trans", "Transportation"},
	{"cat-ent", "Entertainment"},
	{"cat-shop", "Shopping"},
	{"cat-sub", "Subscriptions"},
	{"cat-salary", "Salary"},
	{"cat-transfer", "Transfer"},
	{"cat-ccp", "Credit Card Payment"},
}

// spendProfile drives how many debits of which size land in a category each
// month.
var spendProfile = []struct {
	categoryID string
	countMin   int
	countMax   int
	centsMin   int64
	centsMax   int64
}{
	{"cat-groc", 4, 8, 1500, 12000},
	{"cat-dine", 2, 6, 900, 8000},
	{"cat-util", 1, 2, 4000, 18000},
	{"cat-trans", 2, 5, 400, 6000},
	{"cat-ent", 1, 3, 1000, 6000},
	{"cat-shop", 0, 3, 2000, 15000},
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("create %s: %v", *dir, err)
	}

	var (
		customerRows    [][]string
		accountRows     [][]string
		transactionRows [][]string
		goalRows        [][]string
		budgetRows      [][]string
	)

	end := time.Now().UTC()
	start := end.AddDate(0, -*months, 0)

	for i := 0; i < *customers; i++ {
		customerID := fmt.Sprintf("cust-%03d", i+1)
		creditScore := ""
		if rng.Intn(4) > 0 {
			creditScore = fmt.Sprintf("%d", 580+rng.Intn(240))
		}
		customerRows = append(customerRows, []string{
			customerID, locations[rng.Intn(len(locations))], fmt.Sprintf("%d", 22+rng.Intn(45)), creditScore,
		})

		checkingID := customerID + "-chk"
		accountRows = append(accountRows, []string{
			checkingID, customerID, "Umpqua", "checking", dollars(int64(50000 + rng.Intn(800000))), "",
		})

		var creditID string
		if rng.Intn(10) < 7 {
			creditID = customerID + "-cc"
			limit := int64(200000 + rng.Intn(800000))
			balance := -rng.Int63n(limit / 2)
			accountRows = append(accountRows, []string{
				creditID, customerID, "Chase", "credit_card", dollars(balance), dollars(limit),
			})
		}
		if rng.Intn(10) < 8 {
			accountRows = append(accountRows, []string{
				customerID + "-sav", customerID, "Umpqua", "savings", dollars(int64(100000 + rng.Intn(3000000))), "",
			})
		}
		if rng.Intn(10) < 4 {
			accountRows = append(accountRows, []string{
				customerID + "-401k", customerID, "Fidelity", "retirement", dollars(int64(1000000 + rng.Intn(9000000))), "",
			})
		}

		salary := int64(250000 + rng.Intn(450000))
		rent := int64(120000 + rng.Intn(180000))

		for m := 0; m < *months; m++ {
			monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, m+1, 0)
			if !monthStart.Before(end) {
				break
			}

			transactionRows = append(transactionRows,
				txRow(checkingID, "cat-salary", monthStart.AddDate(0, 0, 0), salary, "salary", false, false, false),
				txRow(checkingID, "cat-rent", monthStart.AddDate(0, 0, 1), -rent, "rent", true, true, false),
				txRow(checkingID, "cat-sub", monthStart.AddDate(0, 0, 4), -1599, "streaming", true, false, true),
			)

			spendAccount := checkingID
			if creditID != "" {
				spendAccount = creditID
			}
			for _, p := range spendProfile {
				count := p.countMin
				if p.countMax > p.countMin {
					count += rng.Intn(p.countMax - p.countMin + 1)
				}
				for n := 0; n < count; n++ {
					amount := p.centsMin + rng.Int63n(p.centsMax-p.centsMin+1)
					day := 1 + rng.Intn(27)
					transactionRows = append(transactionRows,
						txRow(spendAccount, p.categoryID, monthStart.AddDate(0, 0, day), -amount, "", true, false, false))
				}
			}

			if creditID != "" {
				payment := int64(20000 + rng.Intn(80000))
				transactionRows = append(transactionRows,
					txRow(checkingID, "cat-ccp", monthStart.AddDate(0, 0, 25), -payment, "card payment", true, false, false),
					txRow(creditID, "cat-ccp", monthStart.AddDate(0, 0, 25), payment, "card payment", false, false, false),
				)
			}
		}

		if rng.Intn(2) == 0 {
			goalRows = append(goalRows, []string{
				"goal-" + customerID, customerID, "Emergency fund",
				dollars(int64(500000 + rng.Intn(2000000))),
				end.AddDate(1+rng.Intn(3), 0, 0).Format("2006-01-02"),
			})
		}
		if rng.Intn(2) == 0 {
			budgetRows = append(budgetRows, []string{
				customerID, "cat-groc", dollars(int64(40000 + rng.Intn(40000))),
			})
		}
	}

	writeCSV("customers.csv", []string{"customer_id", "location", "age", "credit_score"}, customerRows)
	writeCSV("accounts.csv", []string{"account_id", "customer_id", "institution", "kind", "balance", "credit_limit"}, accountRows)
	writeCSV("categories.csv", []string{"category_id", "name"}, categoryRows())
	writeCSV("transactions.csv", []string{"transaction_id", "account_id", "category_id", "timestamp", "amount", "description", "is_debit", "is_bill", "is_subscription"}, transactionRows)
	writeCSV("goals.csv", []string{"goal_id", "customer_id", "name", "target_amount", "target_date"}, goalRows)
	writeCSV("budgets.csv", []string{"customer_id", "category_id", "monthly_limit"}, budgetRows)

	log.Printf("✅ wrote snapshot to %s: %d customers, %d accounts, %d transactions",
		*dir, len(customerRows), len(accountRows), len(transactionRows))
}

func categoryRows() [][]string {
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c[0], c[1]})
	}
	return rows
}

func txRow(accountID, categoryID string, ts time.Time, cents int64, description string, debit, bill, subscription bool) []string {
	return []string{
		uuid.NewString(), accountID, categoryID,
		ts.Format(time.RFC3339), dollars(cents), description,
		boolStr(debit), boolStr(bill), boolStr(subscription),
	}
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func dollars(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100)
}

func writeCSV(name string, header []string, rows [][]string) {
	f, err := os.Create(filepath.Join(*dir, name))
	if err != nil {
		log.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		log.Fatalf("write %s: %v", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		log.Fatalf("write %s: %v", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush %s: %v", name, err)
	}
}
