// Package thoughts builds the thought corpus from cached block artifacts.
package thoughts

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/journo/internal/cache"
	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/ids"
	"github.com/mrlokans/journo/internal/notion"
	"github.com/mrlokans/journo/internal/segment"
)

type Order int

const (
	OrderNone Order = iota
	OrderAlphabetical
	OrderRandom
)

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return OrderNone, nil
	case "abc", "alphabetical":
		return OrderAlphabetical, nil
	case "random":
		return OrderRandom, nil
	default:
		return OrderNone, fmt.Errorf("unknown order %q", s)
	}
}

// Options selects the post-processing steps. They run in a fixed order:
// short filter, ordering, pattern, dedupe.
type Options struct {
	FilterShort bool
	Order       Order
	Pattern     string
	Dedupe      bool

	// Rand drives OrderRandom. Nil uses the global source.
	Rand *rand.Rand
}

// TypeFor maps a segmentation mode to the thought type it produces.
func TypeFor(mode segment.Mode) entities.ThoughtType {
	switch mode {
	case segment.Sentences:
		return entities.ThoughtTypeSentence
	case segment.Words:
		return entities.ThoughtTypeWord
	default:
		return entities.ThoughtTypeBlock
	}
}

// Load segments every top-level block of every cached page. Artifacts that
// cannot be read or parsed are skipped.
func Load(store *cache.Store, mode segment.Mode) ([]entities.Thought, error) {
	entries, err := store.List(cache.GetBlocks)
	if err != nil {
		return nil, fmt.Errorf("list block artifacts: %w", err)
	}

	thoughtType := TypeFor(mode)
	out := []entities.Thought{}
	for _, entry := range entries {
		data, err := os.ReadFile(entry.Path)
		if err != nil {
			continue
		}
		var blocks []notion.Block
		if err := json.Unmarshal(data, &blocks); err != nil {
			continue
		}

		for _, b := range blocks {
			blockID := ids.Undash(b.ID)
			for _, text := range segment.Segment(b, mode) {
				out = append(out, entities.Thought{
					Type:      thoughtType,
					ID:        blockID,
					Timestamp: b.CreatedTime,
					Source:    entities.ThoughtSource{Page: entry.Key, Block: blockID},
					Text:      text,
				})
			}
		}
	}
	return out, nil
}

// Process applies opts to a copy of in.
func Process(in []entities.Thought, opts Options) ([]entities.Thought, error) {
	var pattern *regexp.Regexp
	if opts.Pattern != "" {
		var err error
		pattern, err = regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
	}

	out := slices.Clone(in)
	if out == nil {
		out = []entities.Thought{}
	}

	if opts.FilterShort {
		out = slices.DeleteFunc(out, func(t entities.Thought) bool {
			return utf8.RuneCountInString(t.Text) <= 1
		})
	}

	switch opts.Order {
	case OrderAlphabetical:
		slices.SortStableFunc(out, func(a, b entities.Thought) int {
			return strings.Compare(a.Text, b.Text)
		})
	case OrderRandom:
		shuffle := rand.Shuffle
		if opts.Rand != nil {
			shuffle = opts.Rand.Shuffle
		}
		shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}

	if pattern != nil {
		out = slices.DeleteFunc(out, func(t entities.Thought) bool {
			return !pattern.MatchString(t.Text)
		})
	}

	if opts.Dedupe {
		out = Dedupe(out)
	}
	return out, nil
}

// Dedupe keeps the first thought of each distinct text, preserving order.
func Dedupe(in []entities.Thought) []entities.Thought {
	seen := make(map[string]struct{}, len(in))
	out := make([]entities.Thought, 0, len(in))
	for _, t := range in {
		if _, ok := seen[t.Text]; ok {
			continue
		}
		seen[t.Text] = struct{}{}
		out = append(out, t)
	}
	return out
}
