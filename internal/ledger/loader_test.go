package ledger

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomers(t *testing.T) {
	input := `customer_id,location,age,credit_score
cust-1,"Portland, OR",34,742
cust-2,Austin,29,
cust-3,"She said ""hi""",41,abc
`
	customers, warns := ParseCustomers(strings.NewReader(input))
	require.Len(t, customers, 3)

	// Quoted field may contain the delimiter.
	assert.Equal(t, "Portland, OR", customers[0].Location)
	assert.Equal(t, 34, customers[0].Age)
	assert.Equal(t, 742, customers[0].CreditScore)

	// Empty optional field is absence, not an error.
	assert.Equal(t, 0, customers[1].CreditScore)

	// Doubled quote inside a quoted field is a literal quote.
	assert.Equal(t, `She said "hi"`, customers[2].Location)

	// Bad numeric defaults to zero and raises exactly one warning.
	assert.Equal(t, 0, customers[2].CreditScore)
	require.Len(t, warns, 1)
	assert.Equal(t, "credit_score", warns[0].Column)
	assert.Equal(t, 3, warns[0].Row)
	assert.Equal(t, "abc", warns[0].Value)
}

func TestParseAccounts(t *testing.T) {
	input := `account_id,customer_id,institution,kind,balance,credit_limit
acc-1,cust-1,First National,checking,2847.00,
acc-2,cust-1,First National,brokerage,5200,
acc-3,cust-1,CardCo,credit,-1200,5000
acc-4,cust-1,Unknown Bank,crypto,10,
acc-5,cust-1,BadBank,savings,oops,
`
	accounts, warns := ParseAccounts(strings.NewReader(input))
	require.Len(t, accounts, 5)

	assert.Equal(t, Cents(284700), accounts[0].Balance)
	assert.Equal(t, AccountChecking, accounts[0].Kind)

	// Aliases normalize onto canonical kinds.
	assert.Equal(t, AccountInvestment, accounts[1].Kind)

	assert.Equal(t, Cents(-120000), accounts[2].Balance)
	assert.Equal(t, Cents(500000), accounts[2].CreditLimit)

	// Unknown kind becomes other, with a warning.
	assert.Equal(t, AccountOther, accounts[3].Kind)

	// Bad balance defaults to zero, with a warning.
	assert.Equal(t, Cents(0), accounts[4].Balance)

	require.Len(t, warns, 2)
	assert.Equal(t, "kind", warns[0].Column)
	assert.Equal(t, "balance", warns[1].Column)
}

func TestParseTransactions(t *testing.T) {
	input := `transaction_id,account_id,category_id,timestamp,amount,description,is_debit,is_bill,is_subscription,due_date
tx-1,acc-1,cat-1,2025-06-03T10:15:00Z,-50.00,"Grocer, The Corner",1,0,0,
tx-2,acc-1,cat-2,2025-06-05,-9.99,Stream Co,true,false,yes,2025-07-01
tx-3,acc-1,cat-3,2025-06-15 08:30:00,3200,Payroll,no,,,
tx-4,acc-1,cat-1,not-a-date,-10,Bad time,1,,,
`
	txns, warns := ParseTransactions(strings.NewReader(input))
	require.Len(t, txns, 4)

	assert.Equal(t, "Grocer, The Corner", txns[0].Description)
	assert.Equal(t, Cents(-5000), txns[0].Amount)
	assert.True(t, txns[0].Debit)
	assert.False(t, txns[0].Recurring())
	assert.Equal(t, time.Date(2025, 6, 3, 10, 15, 0, 0, time.UTC), txns[0].Timestamp)

	// Date-only timestamps resolve to midnight UTC; subscription flag marks
	// the transaction recurring.
	assert.Equal(t, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), txns[1].Timestamp)
	assert.True(t, txns[1].Recurring())
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), txns[1].DueDate)

	assert.False(t, txns[2].Debit)
	assert.True(t, txns[2].DueDate.IsZero())

	// Unparseable timestamp warns and stays zero.
	assert.True(t, txns[3].Timestamp.IsZero())
	require.Len(t, warns, 1)
	assert.Equal(t, "timestamp", warns[0].Column)
}

func TestParseTransactionsMissingID(t *testing.T) {
	input := `transaction_id,account_id,category_id,timestamp,amount
,acc-1,cat-1,2025-06-03,-50
tx-2,acc-1,cat-1,2025-06-04,-30
`
	txns, warns := ParseTransactions(strings.NewReader(input))
	require.Len(t, txns, 1)
	assert.Equal(t, "tx-2", txns[0].ID)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Reason, "row skipped")
}

func TestParseGoalsAndBudgets(t *testing.T) {
	goals, warns := ParseGoals(strings.NewReader(`goal_id,customer_id,name,target_amount,target_date
goal-1,cust-1,Emergency Fund,15000,2027-01-01
`))
	require.Empty(t, warns)
	require.Len(t, goals, 1)
	assert.Equal(t, Cents(1500000), goals[0].TargetAmount)
	assert.Equal(t, 2027, goals[0].TargetDate.Year())

	budgets, warns := ParseBudgets(strings.NewReader(`customer_id,category_id,monthly_limit
cust-1,cat-1,600
cust-1,cat-2,nope
`))
	require.Len(t, budgets, 2)
	assert.Equal(t, Cents(60000), budgets[0].MonthlyLimit)
	assert.Equal(t, Cents(0), budgets[1].MonthlyLimit)
	require.Len(t, warns, 1)
	assert.Equal(t, "monthly_limit", warns[0].Column)
}

func TestReadTableColumnOrderFree(t *testing.T) {
	// Columns match by header name, not position.
	input := `balance,account_id,kind,customer_id
100.50,acc-1,savings,cust-1
`
	accounts, warns := ParseAccounts(strings.NewReader(input))
	require.Empty(t, warns)
	require.Len(t, accounts, 1)
	assert.Equal(t, Cents(10050), accounts[0].Balance)
	assert.Equal(t, AccountSavings, accounts[0].Kind)
}

func TestReadTableMissingColumn(t *testing.T) {
	input := `account_id,customer_id
acc-1,cust-1
`
	accounts, warns := ParseAccounts(strings.NewReader(input))
	require.Len(t, accounts, 1)
	assert.Equal(t, Cents(0), accounts[0].Balance)

	// One warning for the missing column, not one per row.
	require.Len(t, warns, 1)
	assert.Equal(t, "balance", warns[0].Column)
	assert.Equal(t, "missing column", warns[0].Reason)
}

func TestReadTableMalformedLine(t *testing.T) {
	input := `category_id,name
cat-1,Groceries
cat-2,bad "quote here
cat-3,Utilities
`
	categories, warns := ParseCategories(strings.NewReader(input))

	// The malformed line is reported; surrounding rows survive.
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Reason, "malformed line")
	require.Len(t, categories, 2)
	assert.Equal(t, "cat-1", categories[0].ID)
	assert.Equal(t, "cat-3", categories[1].ID)
}

func TestParseSnapshot(t *testing.T) {
	files := SnapshotFiles{
		Customers:    strings.NewReader("customer_id,location,age\ncust-1,Austin,30\n"),
		Accounts:     strings.NewReader("account_id,customer_id,kind,balance\nacc-1,cust-1,checking,100\n"),
		Transactions: strings.NewReader("transaction_id,account_id,category_id,timestamp,amount,is_debit\ntx-1,acc-1,cat-1,2025-06-01,-25,1\n"),
		Categories:   strings.NewReader("category_id,name\ncat-1,Groceries\n"),
		Goals:        strings.NewReader("goal_id,customer_id,name,target_amount,target_date\n"),
	}
	recs, warns := ParseSnapshot(files)
	require.Empty(t, warns)
	assert.Len(t, recs.Customers, 1)
	assert.Len(t, recs.Accounts, 1)
	assert.Len(t, recs.Transactions, 1)
	assert.Len(t, recs.Categories, 1)
	assert.Empty(t, recs.Goals)
	assert.Empty(t, recs.Budgets)
}

func TestParseSnapshotMissingFile(t *testing.T) {
	recs, warns := ParseSnapshot(SnapshotFiles{})
	assert.Empty(t, recs.Customers)
	require.NotEmpty(t, warns)
	assert.Equal(t, "missing input", warns[0].Reason)
}
