package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/database/runs"
	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/entrypoint"
	"github.com/mrlokans/journo/internal/importers"
)

// ImportCommand imports a Notion database or page into the artifact cache.
type ImportCommand struct {
	app  *App
	kind entities.ImportKind

	Skip bool
}

func newImportDBCommand(app *App) *cobra.Command {
	c := &ImportCommand{app: app, kind: entities.ImportKindDatabase}
	cmd := &cobra.Command{
		Use:   "import-db <database>",
		Short: "Import a Notion database, its pages and their content",
		Example: `  journo import-db https://www.notion.so/myspace/1429989fe8ac4effbc8f57f56486db54
  journo import-db 1429989fe8ac4effbc8f57f56486db54 --skip`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd, args[0])
		},
	}
	cmd.Flags().BoolVar(&c.Skip, "skip", false, "reuse cached artifacts instead of fetching them again")
	return cmd
}

func newImportPageCommand(app *App) *cobra.Command {
	c := &ImportCommand{app: app, kind: entities.ImportKindPage}
	cmd := &cobra.Command{
		Use:   "import-page <page>",
		Short: "Import a single Notion page and its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd, args[0])
		},
	}
	cmd.Flags().BoolVar(&c.Skip, "skip", false, "reuse cached artifacts instead of fetching them again")
	return cmd
}

func (c *ImportCommand) Run(cmd *cobra.Command, input string) error {
	out := cmd.OutOrStdout()

	// Credential problems are reported before anything is created on disk.
	if err := entrypoint.CheckCredential(c.app.cfg); err != nil {
		return soft(out, err)
	}

	store, err := c.app.store()
	if err != nil {
		return err
	}
	db, err := c.app.database()
	if err != nil {
		return err
	}
	defer db.Close()

	importer, err := entrypoint.NewImporter(c.app.cfg, store,
		importers.WithReporter(importers.ReporterFunc(func(e importers.Event) { printEvent(out, e) })),
		importers.WithRecorder(runs.NewRepository(db.DB)),
		importers.WithLogger(c.app.logger.Named("import")),
	)
	if err != nil {
		return soft(out, err)
	}

	var res *importers.Result
	if c.kind == entities.ImportKindDatabase {
		res, err = importer.ImportDatabase(cmd.Context(), input, c.Skip)
	} else {
		res, err = importer.ImportPage(cmd.Context(), input, c.Skip)
	}
	if err != nil {
		if err = soft(out, err); err == nil {
			return nil
		}
		c.app.logger.Error("import failed", zap.String("kind", string(c.kind)), zap.Error(err))
		if res != nil && len(res.Artifacts) > 0 {
			printNotice(out, fmt.Sprintf("%d artifacts were saved, rerun with --skip to resume", len(res.Artifacts)))
		}
		return err
	}

	printResult(out, res)
	return nil
}
