package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
)

// spendingCmd holds the flags for the 'spending' subcommand.
type spendingCmd struct {
	year  int
	month int
}

func (*spendingCmd) Name() string     { return "spending" }
func (*spendingCmd) Synopsis() string { return "compute the spending analysis for one customer" }
func (*spendingCmd) Usage() string {
	return `finsight spending [-year <year>] [-month <1-12>] [-snapshot-dir <dir>] <customer-id>

  Runs the spending aggregator for the given window and prints the
  analysis as JSON. Without -month the whole year is analysed.
`
}

func (c *spendingCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", time.Now().UTC().Year(), "calendar year to analyse")
	f.IntVar(&c.month, "month", 0, "calendar month to analyse, 0 for the whole year")
}

func (c *spendingCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one customer id is required")
		return subcommands.ExitUsageError
	}

	svc, _, err := newAnalytics(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	res, err := svc.GetSpendingAnalysis(ctx, f.Arg(0), c.year, c.month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := json.MarshalIndent(res.Analysis, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
