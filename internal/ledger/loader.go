package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ValidationWarning describes one problem found while parsing a snapshot.
// Warnings never abort a load; the affected field defaults and the row stays
// usable where possible.
type ValidationWarning struct {
	File   string
	Row    int
	Column string
	Value  string
	Reason string
}

func (w ValidationWarning) String() string {
	if w.Column == "" {
		return fmt.Sprintf("%s row %d: %s", w.File, w.Row, w.Reason)
	}
	return fmt.Sprintf("%s row %d column %q: %s (value %q)", w.File, w.Row, w.Column, w.Reason, w.Value)
}

// SnapshotFiles bundles the raw tabular inputs of one snapshot. Budgets is
// optional and may be nil.
type SnapshotFiles struct {
	Customers    io.Reader
	Accounts     io.Reader
	Transactions io.Reader
	Categories   io.Reader
	Goals        io.Reader
	Budgets      io.Reader
}

// ParseSnapshot parses all snapshot files into typed records. Warnings from
// every file are returned together; the loader itself never fails a load.
func ParseSnapshot(files SnapshotFiles) (Records, []ValidationWarning) {
	var recs Records
	var warns []ValidationWarning

	collect := func(ws []ValidationWarning) { warns = append(warns, ws...) }

	var ws []ValidationWarning
	recs.Customers, ws = ParseCustomers(files.Customers)
	collect(ws)
	recs.Accounts, ws = ParseAccounts(files.Accounts)
	collect(ws)
	recs.Transactions, ws = ParseTransactions(files.Transactions)
	collect(ws)
	recs.Categories, ws = ParseCategories(files.Categories)
	collect(ws)
	recs.Goals, ws = ParseGoals(files.Goals)
	collect(ws)
	if files.Budgets != nil {
		recs.Budgets, ws = ParseBudgets(files.Budgets)
		collect(ws)
	}
	return recs, warns
}

// ParseCustomers parses customers.csv. Expected columns: customer_id,
// location, age, and optionally credit_score.
func ParseCustomers(r io.Reader) ([]Customer, []ValidationWarning) {
	t := readTable("customers.csv", r, "customer_id")
	customers := make([]Customer, 0, len(t.rows))
	for i, row := range t.rows {
		id, ok := t.requiredID(i, row, "customer_id")
		if !ok {
			continue
		}
		customers = append(customers, Customer{
			ID:          id,
			Location:    t.field(row, "location"),
			Age:         t.integer(i, row, "age"),
			CreditScore: t.integer(i, row, "credit_score"),
		})
	}
	return customers, t.warns
}

// ParseAccounts parses accounts.csv. Expected columns: account_id,
// customer_id, institution, kind, balance, credit_limit.
func ParseAccounts(r io.Reader) ([]Account, []ValidationWarning) {
	t := readTable("accounts.csv", r, "account_id", "customer_id", "balance")
	accounts := make([]Account, 0, len(t.rows))
	for i, row := range t.rows {
		id, ok := t.requiredID(i, row, "account_id")
		if !ok {
			continue
		}
		rawKind := t.field(row, "kind")
		kind, known := ParseAccountKind(rawKind)
		if !known && strings.TrimSpace(rawKind) != "" {
			t.warn(i, "kind", rawKind, "unknown account kind, treating as other")
		}
		accounts = append(accounts, Account{
			ID:          id,
			CustomerID:  t.field(row, "customer_id"),
			Institution: t.field(row, "institution"),
			Kind:        kind,
			Balance:     t.cents(i, row, "balance"),
			CreditLimit: t.cents(i, row, "credit_limit"),
		})
	}
	return accounts, t.warns
}

// ParseTransactions parses transactions.csv. Expected columns:
// transaction_id, account_id, category_id, timestamp, amount, description,
// is_debit, is_bill, is_subscription, due_date.
func ParseTransactions(r io.Reader) ([]Transaction, []ValidationWarning) {
	t := readTable("transactions.csv", r, "transaction_id", "account_id", "timestamp", "amount")
	txns := make([]Transaction, 0, len(t.rows))
	for i, row := range t.rows {
		id, ok := t.requiredID(i, row, "transaction_id")
		if !ok {
			continue
		}
		txns = append(txns, Transaction{
			ID:           id,
			AccountID:    t.field(row, "account_id"),
			CategoryID:   t.field(row, "category_id"),
			Timestamp:    t.timestamp(i, row, "timestamp"),
			Amount:       t.cents(i, row, "amount"),
			Description:  t.field(row, "description"),
			Debit:        t.flag(i, row, "is_debit"),
			Bill:         t.flag(i, row, "is_bill"),
			Subscription: t.flag(i, row, "is_subscription"),
			DueDate:      t.timestamp(i, row, "due_date"),
		})
	}
	return txns, t.warns
}

// ParseCategories parses categories.csv. Expected columns: category_id, name.
func ParseCategories(r io.Reader) ([]Category, []ValidationWarning) {
	t := readTable("categories.csv", r, "category_id")
	categories := make([]Category, 0, len(t.rows))
	for i, row := range t.rows {
		id, ok := t.requiredID(i, row, "category_id")
		if !ok {
			continue
		}
		categories = append(categories, Category{
			ID:   id,
			Name: t.field(row, "name"),
		})
	}
	return categories, t.warns
}

// ParseGoals parses goals.csv. Expected columns: goal_id, customer_id, name,
// target_amount, target_date.
func ParseGoals(r io.Reader) ([]Goal, []ValidationWarning) {
	t := readTable("goals.csv", r, "goal_id", "customer_id")
	goals := make([]Goal, 0, len(t.rows))
	for i, row := range t.rows {
		id, ok := t.requiredID(i, row, "goal_id")
		if !ok {
			continue
		}
		goals = append(goals, Goal{
			ID:           id,
			CustomerID:   t.field(row, "customer_id"),
			Name:         t.field(row, "name"),
			TargetAmount: t.cents(i, row, "target_amount"),
			TargetDate:   t.timestamp(i, row, "target_date"),
		})
	}
	return goals, t.warns
}

// ParseBudgets parses budgets.csv. Expected columns: customer_id,
// category_id, monthly_limit.
func ParseBudgets(r io.Reader) ([]Budget, []ValidationWarning) {
	t := readTable("budgets.csv", r, "customer_id", "category_id", "monthly_limit")
	budgets := make([]Budget, 0, len(t.rows))
	for i, row := range t.rows {
		customerID, ok := t.requiredID(i, row, "customer_id")
		if !ok {
			continue
		}
		categoryID, ok := t.requiredID(i, row, "category_id")
		if !ok {
			continue
		}
		budgets = append(budgets, Budget{
			CustomerID:   customerID,
			CategoryID:   categoryID,
			MonthlyLimit: t.cents(i, row, "monthly_limit"),
		})
	}
	return budgets, t.warns
}

// table is one parsed CSV file: header-indexed rows plus the warnings
// accumulated while reading and converting them.
type table struct {
	file   string
	header map[string]int
	rows   [][]string
	warns  []ValidationWarning
}

// readTable reads an entire CSV file. Column order is free; columns are
// matched by header name. Malformed lines are skipped with a warning rather
// than aborting the file.
func readTable(file string, r io.Reader, required ...string) *table {
	t := &table{file: file, header: make(map[string]int)}
	if r == nil {
		t.warns = append(t.warns, ValidationWarning{File: file, Reason: "missing input"})
		return t
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			t.warns = append(t.warns, ValidationWarning{File: file, Reason: fmt.Sprintf("unreadable header: %v", err)})
		}
		return t
	}
	for i, name := range head {
		t.header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range required {
		if _, ok := t.header[col]; !ok {
			t.warns = append(t.warns, ValidationWarning{File: file, Column: col, Reason: "missing column"})
		}
	}

	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.warns = append(t.warns, ValidationWarning{File: file, Row: row, Reason: fmt.Sprintf("malformed line: %v", err)})
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			break
		}
		t.rows = append(t.rows, rec)
	}
	return t
}

func (t *table) warn(rowIdx int, column, value, reason string) {
	t.warns = append(t.warns, ValidationWarning{
		File:   t.file,
		Row:    rowIdx + 1,
		Column: column,
		Value:  value,
		Reason: reason,
	})
}

// field returns the raw value of a column, or "" when the column or value is
// absent.
func (t *table) field(row []string, column string) string {
	idx, ok := t.header[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// requiredID returns the row's identifier; rows without one cannot be
// indexed and are skipped with a warning.
func (t *table) requiredID(rowIdx int, row []string, column string) (string, bool) {
	id := t.field(row, column)
	if id == "" {
		t.warn(rowIdx, column, "", "missing identifier, row skipped")
		return "", false
	}
	return id, true
}

// cents parses a money column. Empty is zero without a warning; an
// unparseable value is zero with a warning.
func (t *table) cents(rowIdx int, row []string, column string) Cents {
	raw := t.field(row, column)
	if raw == "" {
		return 0
	}
	c, err := ParseCents(raw)
	if err != nil {
		t.warn(rowIdx, column, raw, "not a valid amount, defaulting to 0")
		return 0
	}
	return c
}

// integer parses an int column with the same defaulting rules as cents.
func (t *table) integer(rowIdx int, row []string, column string) int {
	raw := t.field(row, column)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		t.warn(rowIdx, column, raw, "not a valid integer, defaulting to 0")
		return 0
	}
	return n
}

// flag parses a boolean column. Empty is false without a warning.
func (t *table) flag(rowIdx int, row []string, column string) bool {
	raw := t.field(row, column)
	switch strings.ToLower(raw) {
	case "", "0", "false", "no", "n", "f":
		return false
	case "1", "true", "yes", "y", "t":
		return true
	}
	t.warn(rowIdx, column, raw, "not a valid flag, defaulting to false")
	return false
}

// timestampFormats are accepted in order; date-only values resolve to
// midnight UTC.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timestamp parses a time column. Empty is the zero time without a warning.
func (t *table) timestamp(rowIdx int, row []string, column string) time.Time {
	raw := t.field(row, column)
	if raw == "" {
		return time.Time{}
	}
	for _, format := range timestampFormats {
		if ts, err := time.ParseInLocation(format, raw, time.UTC); err == nil {
			return ts
		}
	}
	t.warn(rowIdx, column, raw, "unrecognized timestamp")
	return time.Time{}
}
