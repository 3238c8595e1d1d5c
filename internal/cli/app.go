// Package cli wires DAGr's command surface onto the scheduling engines:
// one cobra subcommand per spec.md §6 CLI command, each loading the
// persisted project state, running an engine operation, and rendering the
// result through internal/cli/formatter.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/dagr-project/dagr/internal/observability"
	"github.com/dagr-project/dagr/internal/project"
	"github.com/dagr-project/dagr/internal/store"
)

// App holds everything a command needs: the persistence layer, the
// currently loaded state (nil until LoadState is called), a clock (for
// testability), and the output stream.
type App struct {
	Store *store.Store
	State *project.State
	Now   func() time.Time
	Out   io.Writer

	// IsInteractive reports whether stdout is a terminal. cmd/dagr sets it;
	// no command reads it.
	IsInteractive func() bool

	// Observer records mutating-command executions. Defaults to a no-op
	// if left unset.
	Observer observability.Observer
}

// track wraps a mutating command in an observed span; call with defer.
func (a *App) track(name string, fields map[string]any, errp *error) func() {
	obs := a.Observer
	if obs == nil {
		obs = observability.NoopObserver{}
	}
	return observability.Track(context.Background(), obs, name, fields, errp)
}

// LoadState loads the project state from the store and records it on the
// App for the command to use.
func (a *App) LoadState() error {
	st, err := a.Store.Load()
	if err != nil {
		return err
	}
	a.State = st
	return nil
}

// SaveState persists the App's current state.
func (a *App) SaveState() error {
	return a.Store.Save(a.State)
}
