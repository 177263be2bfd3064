package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mrlokans/journo/internal/database/runs"
	"github.com/mrlokans/journo/internal/entities"
)

// HistoryCommand lists recent imports.
type HistoryCommand struct {
	app *App

	Limit int
}

func newHistoryCommand(app *App) *cobra.Command {
	c := &HistoryCommand{app: app}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd)
		},
	}
	cmd.Flags().IntVarP(&c.Limit, "limit", "n", runs.DefaultLimit, "number of runs to show")
	return cmd
}

func (c *HistoryCommand) Run(cmd *cobra.Command) error {
	db, err := c.app.database()
	if err != nil {
		return err
	}
	defer db.Close()

	list, err := runs.NewRepository(db.DB).List(c.Limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printNotice(cmd.OutOrStdout(), "No imports yet")
		return nil
	}

	rows := make([][]string, len(list))
	for i, run := range list {
		rows[i] = historyRow(run)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("ID", "STARTED", "KIND", "TARGET", "TITLE", "STATUS", "PAGES", "LIVE", "CACHED").
		Rows(rows...)
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}

func historyRow(run entities.ImportRun) []string {
	status := string(run.Status)
	if run.Error != "" {
		status += ": " + run.Error
	}
	return []string{
		strconv.FormatUint(uint64(run.ID), 10),
		run.StartedAt.Local().Format(time.DateTime),
		string(run.Kind),
		run.Target,
		run.Title,
		status,
		strconv.Itoa(run.Pages),
		strconv.Itoa(run.LiveCalls),
		strconv.Itoa(run.CacheHits),
	}
}
