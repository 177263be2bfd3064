package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrlokans/journo/internal/importers"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1)
)

// printEvent renders one orchestrator step.
func printEvent(w io.Writer, e importers.Event) {
	if e.Progress {
		more := "done"
		if e.HasMore {
			more = "more to come"
		}
		fmt.Fprintf(w, "  %s %d items, %s\n", dimStyle.Render(string(e.Op)+":"), e.Items, more)
		return
	}

	source := successStyle.Render("live")
	if e.Hit {
		source = dimStyle.Render("cache")
	}
	label := e.Title
	if label == "" {
		label = e.ID
	}
	if e.Items > 0 {
		label = fmt.Sprintf("%s (%d)", label, e.Items)
	}
	fmt.Fprintf(w, "%s %s %s\n", dimStyle.Render(fmt.Sprintf("%-14s", e.Op)), label, source)
}

func printResult(w io.Writer, res *importers.Result) {
	content := fmt.Sprintf("%s %s\n%s %d  %s %d  %s %d",
		dimStyle.Render("Imported:"), titleStyle.Render(res.Title),
		dimStyle.Render("Pages:"), res.Pages,
		dimStyle.Render("Live calls:"), res.LiveCalls,
		dimStyle.Render("Cache hits:"), res.CacheHits,
	)
	fmt.Fprintln(w, boxStyle.Render(content))
}

func printNotice(w io.Writer, msg string) {
	fmt.Fprintln(w, warnStyle.Render(msg))
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}
