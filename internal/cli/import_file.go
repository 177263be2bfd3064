package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/journo/internal/importers"
)

// ImportFileCommand copies a local file into the import folder.
type ImportFileCommand struct {
	app *App
}

func newImportFileCommand(app *App) *cobra.Command {
	c := &ImportFileCommand{app: app}
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Copy a local file into the import folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd, args[0])
		},
	}
}

func (c *ImportFileCommand) Run(cmd *cobra.Command, path string) error {
	store, err := c.app.store()
	if err != nil {
		return err
	}
	dst, err := importers.ImportFile(store, path)
	if err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), "Imported "+dst)
	return nil
}
