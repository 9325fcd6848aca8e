// Command finsight is the operator CLI: it loads a snapshot directory and
// runs the same analytics pipeline the server serves.
package main

import (
	"context"
	"flag"
	"os"
	"path"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/breckhall/finsight/internal/cache"
	"github.com/breckhall/finsight/internal/service"
	"github.com/breckhall/finsight/internal/snapshot"
	"github.com/breckhall/finsight/internal/store"
)

// A CLI run is short lived, so the snapshot location is a plain global flag.
var snapshotDir = flag.String("snapshot-dir", "./data/snapshot", "path to the snapshot directory")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&validateCmd{}, "snapshot")
	commander.Register(&metricsCmd{}, "analytics")
	commander.Register(&spendingCmd{}, "analytics")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// newAnalytics loads the snapshot directory and wires the analytics facade
// the way the server does, minus the HTTP boundary.
func newAnalytics(ctx context.Context) (*service.Analytics, *service.ReloadSummary, error) {
	source := snapshot.NewDirSource(*snapshotDir)
	files, err := source.Fetch(ctx)
	if err != nil {
		return nil, nil, err
	}

	svc := service.New(store.New(), cache.New(time.Minute), service.DefaultConfig(), zerolog.Nop())
	summary, err := svc.ReloadSnapshot(ctx, files)
	if err != nil {
		return nil, nil, err
	}
	return svc, summary, nil
}
