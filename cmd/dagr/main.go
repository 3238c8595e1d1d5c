package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dagr-project/dagr/internal/cli"
	"github.com/dagr-project/dagr/internal/observability"
	"github.com/dagr-project/dagr/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine state file path: env var or default ./dagr.json
	statePath := os.Getenv("DAGR_STATE")
	if statePath == "" {
		statePath = "./dagr.json"
	}

	var observer observability.Observer = observability.NoopObserver{}
	if os.Getenv("DAGR_LOG_USECASES") != "" {
		observer = observability.NewLogObserver(os.Stderr)
	}

	app := &cli.App{
		Store:    store.Open(statePath),
		Now:      time.Now,
		Out:      os.Stdout,
		Observer: observer,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
