package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// metricsCmd holds the flags for the 'metrics' subcommand.
type metricsCmd struct{}

func (*metricsCmd) Name() string     { return "metrics" }
func (*metricsCmd) Synopsis() string { return "compute the profile metrics for one customer" }
func (*metricsCmd) Usage() string {
	return `finsight metrics [-snapshot-dir <dir>] <customer-id>

  Runs the metrics calculator against the snapshot and prints the
  profile metrics as JSON.
`
}

func (*metricsCmd) SetFlags(f *flag.FlagSet) {}

func (c *metricsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one customer id is required")
		return subcommands.ExitUsageError
	}

	svc, _, err := newAnalytics(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	res, err := svc.GetProfileMetrics(ctx, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := json.MarshalIndent(res.Metrics, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
