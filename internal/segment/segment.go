// Package segment turns block trees into sentence, word or block units.
package segment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mrlokans/journo/internal/notion"
)

// Mode selects the unit a block is split into.
type Mode int

const (
	Sentences Mode = iota
	Words
	Blocks
)

// String returns the thought type name for the mode.
func (m Mode) String() string {
	switch m {
	case Sentences:
		return "sentence"
	case Words:
		return "word"
	case Blocks:
		return "block"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode accepts both the singular and plural names.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sentence", "sentences":
		return Sentences, nil
	case "word", "words":
		return Words, nil
	case "block", "blocks", "":
		return Blocks, nil
	default:
		return 0, fmt.Errorf("unknown segmentation mode %q", s)
	}
}

// PlainText flattens a block tree. A node with children yields its own
// text, a newline, then its children's text joined by newlines.
func PlainText(b notion.Block) string {
	text := b.Content().PlainText()
	if !b.HasChildren || len(b.Children) == 0 {
		return text
	}

	parts := make([]string, len(b.Children))
	for i, child := range b.Children {
		parts[i] = PlainText(child)
	}
	return text + "\n" + strings.Join(parts, "\n")
}

// Segment flattens b and splits the text according to mode.
func Segment(b notion.Block, mode Mode) []string {
	text := PlainText(b)
	switch mode {
	case Sentences:
		return SplitSentences(text)
	case Words:
		return SplitWords(text)
	default:
		return []string{text}
	}
}

var wordPunctuation = regexp.MustCompile(`[“”"'.?!,:;()]+`)

// SplitWords drops punctuation and splits on whitespace.
func SplitWords(text string) []string {
	return strings.Fields(wordPunctuation.ReplaceAllString(text, " "))
}

const urlPlaceholderPrefix = "URL_PLACEHOLDER_"

var (
	urlPattern         = regexp.MustCompile(`[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_\+.~#?&//=]*)`)
	placeholderPattern = regexp.MustCompile(urlPlaceholderPrefix + `\d+`)
	spanPattern        = regexp.MustCompile(`"[^"]+"|“[^”]+”|[^"“\n]+|“|\n`)
	boundaryPattern    = regexp.MustCompile(`\.\.\.|\.`)
)

// SplitSentences splits text on "." and "..." (kept with their sentence)
// and on newlines (dropped). Quoted spans are never split and come out as
// their own unit in straight quotes. A “ with no closing ” is ordinary
// text. URLs are never split.
// Empty units are not emitted; single characters are. That includes the
// trailing unit: "One." yields ["One."], not ["One.", ""].
func SplitSentences(text string) []string {
	urls := make(map[string]string)
	text = urlPattern.ReplaceAllStringFunc(text, func(match string) string {
		placeholder := urlPlaceholderPrefix + strconv.Itoa(len(urls))
		urls[placeholder] = match
		return placeholder
	})

	var out []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
		}
	}

	for _, span := range spanPattern.FindAllString(text, -1) {
		switch {
		case span == "\n":
			flush()
		case strings.HasPrefix(span, `"`):
			flush()
			out = append(out, span)
		case strings.HasPrefix(span, "“") && span != "“":
			flush()
			inner := strings.TrimSuffix(strings.TrimPrefix(span, "“"), "”")
			out = append(out, `"`+inner+`"`)
		default:
			last := 0
			for _, loc := range boundaryPattern.FindAllStringIndex(span, -1) {
				current.WriteString(span[last:loc[1]])
				flush()
				last = loc[1]
			}
			current.WriteString(span[last:])
		}
	}
	flush()

	if len(urls) == 0 {
		return out
	}
	for i, s := range out {
		out[i] = placeholderPattern.ReplaceAllStringFunc(s, func(p string) string {
			if url, ok := urls[p]; ok {
				return url
			}
			return p
		})
	}
	return out
}
