package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/journo/internal/entrypoint"
)

// ServeCommand runs the REST API with its task workers.
type ServeCommand struct {
	app *App

	Host string
	Port int32
}

func newServeCommand(app *App) *cobra.Command {
	c := &ServeCommand{app: app}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, import workers and the optional sync scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd)
		},
	}
	cmd.Flags().StringVar(&c.Host, "host", "", "listen host (overrides HOST)")
	cmd.Flags().Int32Var(&c.Port, "port", 0, "listen port (overrides PORT)")
	return cmd
}

func (c *ServeCommand) Run(cmd *cobra.Command) error {
	cfg := c.app.cfg
	if c.Host != "" {
		cfg.HTTP.Host = c.Host
	}
	if c.Port != 0 {
		cfg.HTTP.Port = c.Port
	}

	services, err := entrypoint.Bootstrap(cfg, c.app.logger)
	if err != nil {
		return err
	}
	defer services.Close()

	return entrypoint.Serve(cmd.Context(), services, c.app.Version)
}
