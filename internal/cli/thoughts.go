package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/journo/internal/database/snapshots"
	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/exporters"
	"github.com/mrlokans/journo/internal/segment"
	"github.com/mrlokans/journo/internal/thoughts"
)

// ThoughtsCommand prints the thoughts extracted from every cached page.
type ThoughtsCommand struct {
	app *App

	Abc         bool
	Random      bool
	Sentences   bool
	Words       bool
	Blocks      bool
	Regex       string
	Dedupe      bool
	FilterShort bool
	Newlines    bool
	JSON        bool
	DB          bool
}

func newThoughtsCommand(app *App) *cobra.Command {
	c := &ThoughtsCommand{app: app}
	cmd := &cobra.Command{
		Use:   "thoughts",
		Short: "Split cached pages into thoughts and print them",
		Example: `  journo thoughts --sentences --dedupe
  journo thoughts --words --abc --regex '^[A-Z]'
  journo thoughts --blocks --json > thoughts.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&c.Abc, "abc", false, "sort thoughts alphabetically")
	f.BoolVar(&c.Random, "random", false, "shuffle thoughts")
	f.BoolVar(&c.Sentences, "sentences", false, "split blocks into sentences")
	f.BoolVar(&c.Words, "words", false, "split blocks into words")
	f.BoolVar(&c.Blocks, "blocks", false, "one thought per block (default)")
	f.StringVar(&c.Regex, "regex", "", "keep only thoughts matching this pattern")
	f.BoolVar(&c.Dedupe, "dedupe", false, "drop repeated thoughts, keeping the first")
	f.BoolVar(&c.FilterShort, "filter-short", false, "drop thoughts of one character or less")
	f.BoolVar(&c.Newlines, "newlines", false, "separate thoughts with a blank line")
	f.BoolVar(&c.JSON, "json", false, "print thoughts as JSON")
	f.BoolVar(&c.DB, "db", false, "also store the result as the thought snapshot in the database")

	cmd.MarkFlagsMutuallyExclusive("abc", "random")
	cmd.MarkFlagsMutuallyExclusive("sentences", "words", "blocks")
	cmd.MarkFlagsMutuallyExclusive("json", "newlines")
	return cmd
}

func (c *ThoughtsCommand) mode() segment.Mode {
	switch {
	case c.Sentences:
		return segment.Sentences
	case c.Words:
		return segment.Words
	default:
		return segment.Blocks
	}
}

func (c *ThoughtsCommand) order() thoughts.Order {
	switch {
	case c.Abc:
		return thoughts.OrderAlphabetical
	case c.Random:
		return thoughts.OrderRandom
	default:
		return thoughts.OrderNone
	}
}

func (c *ThoughtsCommand) Run(cmd *cobra.Command) error {
	store, err := c.app.store()
	if err != nil {
		return err
	}

	corpus, err := thoughts.Load(store, c.mode())
	if err != nil {
		return err
	}
	out, err := thoughts.Process(corpus, thoughts.Options{
		FilterShort: c.FilterShort,
		Order:       c.order(),
		Pattern:     c.Regex,
		Dedupe:      c.Dedupe,
	})
	if err != nil {
		return err
	}

	if c.DB {
		if err := c.export(cmd, out); err != nil {
			return err
		}
	}

	if c.JSON {
		return exporters.WriteJSON(cmd.OutOrStdout(), out)
	}
	return exporters.WriteText(cmd.OutOrStdout(), out, c.Newlines)
}

// export writes the snapshot and reports on stderr so stdout stays pipeable.
func (c *ThoughtsCommand) export(cmd *cobra.Command, out []entities.Thought) error {
	db, err := c.app.database()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := exporters.NewDatabaseExporter(snapshots.NewRepository(db.DB), c.app.logger).Export(out)
	if err != nil {
		return err
	}
	printSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Stored %d thoughts in %s", result.ThoughtsProcessed, c.app.cfg.Database.Path))
	return nil
}
