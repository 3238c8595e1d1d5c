package cli

import (
	"fmt"
	"strings"

	"github.com/dagr-project/dagr/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Bulk-create or -update tasks from a JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer app.track("import_tasks", map[string]any{"file": args[0]}, &err)()

			schema, err := importer.LoadSchema(args[0])
			if err != nil {
				return err
			}

			if errs := importer.ValidateSchema(schema); len(errs) > 0 {
				msgs := make([]string, len(errs))
				for i, e := range errs {
					msgs[i] = e.Error()
				}
				return fmt.Errorf("invalid import payload:\n  %s", strings.Join(msgs, "\n  "))
			}

			if err := app.LoadState(); err != nil {
				return err
			}

			result, err := importer.Apply(schema, app.State)
			if err != nil {
				return err
			}
			if err := app.SaveState(); err != nil {
				return err
			}

			fmt.Fprintf(app.Out, "Imported: %d created, %d updated\n", len(result.Created), len(result.Updated))
			return nil
		},
	}
}
