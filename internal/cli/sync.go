package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/journo/internal/entrypoint"
	"github.com/mrlokans/journo/internal/importers"
	"github.com/mrlokans/journo/internal/scheduler"
)

// SyncCommand keeps the configured databases and pages imported on a cron
// schedule until interrupted.
type SyncCommand struct {
	app *App

	Now bool
}

func newSyncCommand(app *App) *cobra.Command {
	c := &SyncCommand{app: app}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import SYNC_DATABASES and SYNC_PAGES on SYNC_SCHEDULE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd)
		},
	}
	cmd.Flags().BoolVar(&c.Now, "now", false, "queue a sync immediately as well")
	return cmd
}

func (c *SyncCommand) Run(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	cfg := c.app.cfg

	if cfg.Notion.APIKey == "" {
		return soft(out, importers.ErrMissingCredential)
	}
	if len(cfg.Sync.Databases) == 0 && len(cfg.Sync.Pages) == 0 {
		printNotice(out, scheduler.ErrNoTargets.Error())
		return nil
	}

	services, err := entrypoint.Bootstrap(cfg, c.app.logger)
	if err != nil {
		return err
	}
	defer services.Close()

	fmt.Fprintf(out, "%s %s %s\n",
		titleStyle.Render("Syncing"),
		strings.Join(append(append([]string{}, cfg.Sync.Databases...), cfg.Sync.Pages...), ", "),
		dimStyle.Render("("+scheduler.Describe(cfg.Sync.Schedule)+", Ctrl+C to stop)"),
	)

	return entrypoint.Sync(cmd.Context(), services, c.Now, func(taskIDs []string) {
		printSuccess(out, fmt.Sprintf("Queued %d imports", len(taskIDs)))
	})
}
