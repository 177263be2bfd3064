package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/journo/internal/config"
)

// SetAPIKeyCommand stores the Notion integration key in the env file.
type SetAPIKeyCommand struct {
	app *App
}

func newSetAPIKeyCommand(app *App) *cobra.Command {
	c := &SetAPIKeyCommand{app: app}
	return &cobra.Command{
		Use:     "set-api-key <key>",
		Short:   "Save the Notion API key",
		Example: "  journo set-api-key secret_UO1...",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd, args[0])
		},
	}
}

func (c *SetAPIKeyCommand) Run(cmd *cobra.Command, key string) error {
	if err := config.SaveAPIKey(c.app.EnvFile, key); err != nil {
		return err
	}
	printSuccess(cmd.OutOrStdout(), fmt.Sprintf("API key saved to %s", c.app.EnvFile))
	return nil
}
