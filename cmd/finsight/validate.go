package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// validateCmd holds the flags for the 'validate' subcommand.
type validateCmd struct {
	strict bool
}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "load a snapshot directory and report its warnings" }
func (*validateCmd) Usage() string {
	return `finsight validate [-strict] [-snapshot-dir <dir>]

  Parses every snapshot file, prints record counts and all parse and
  reference warnings. Warnings never abort a load.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.strict, "strict", false, "exit non-zero when the snapshot has warnings")
}

func (c *validateCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	_, summary, err := newAnalytics(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("snapshot %s (generation %d)\n", *snapshotDir, summary.Generation)
	fmt.Printf("  customers:    %d\n", summary.Customers)
	fmt.Printf("  accounts:     %d\n", summary.Accounts)
	fmt.Printf("  transactions: %d\n", summary.Transactions)
	fmt.Printf("  categories:   %d\n", summary.Categories)
	fmt.Printf("  goals:        %d\n", summary.Goals)

	printWarnings("parse warnings", summary.ParseWarnings)
	printWarnings("reference warnings", summary.ReferenceWarnings)

	if c.strict && len(summary.ParseWarnings)+len(summary.ReferenceWarnings) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printWarnings(label string, warnings []string) {
	if len(warnings) == 0 {
		fmt.Printf("%s: none\n", label)
		return
	}
	fmt.Printf("%s (%d):\n", label, len(warnings))
	for _, w := range warnings {
		fmt.Printf("  %s\n", w)
	}
}
