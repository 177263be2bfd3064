package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrlokans/journo/internal/config"
)

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "journo",
		Short: "Notion journal ingestion and thought extraction",
		Long: `journo imports Notion databases and pages into a local JSON cache and
splits the cached text into thoughts: blocks, sentences or words that can be
filtered, sorted, deduplicated and exported.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.load()
		},
	}
	root.PersistentFlags().StringVar(&app.EnvFile, "env-file", config.DefaultEnvFile, "env file holding NOTION_API_KEY and other settings")

	root.Version = app.Version
	root.SetVersionTemplate("journo {{.Version}}\n")

	root.AddCommand(
		newSetAPIKeyCommand(app),
		newImportDBCommand(app),
		newImportPageCommand(app),
		newImportFileCommand(app),
		newThoughtsCommand(app),
		newHistoryCommand(app),
		newSyncCommand(app),
		newServeCommand(app),
		newVersionCommand(app),
	)
	return root
}

// NewRootCommand builds the journo command tree.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(&App{Version: version})
}

// Execute runs the CLI and exits non-zero on failure. SIGINT and SIGTERM
// cancel the command context.
func Execute(version string) {
	app := &App{Version: version}
	root := newRootCommand(app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	app.close()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
