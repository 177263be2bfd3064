package segment

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/journo/internal/notion"
)

func textBlock(t *testing.T, typ, text string, children ...notion.Block) notion.Block {
	t.Helper()
	raw := fmt.Sprintf(`{"id":"b","type":%q,%q:{"rich_text":[{"plain_text":%q}]}}`, typ, typ, text)
	var b notion.Block
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	return b.WithChildren(children)
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "quoted span is atomic",
			in:   `He said "Hello. World" and left.`,
			want: []string{"He said ", `"Hello. World"`, " and left."},
		},
		{
			name: "periods stay with their sentence",
			in:   "One. Two. Three",
			want: []string{"One.", " Two.", " Three"},
		},
		{
			name: "ellipsis",
			in:   "Wait... what.",
			want: []string{"Wait...", " what."},
		},
		{
			name: "newline is a boundary and is dropped",
			in:   "First line\nSecond. Third",
			want: []string{"First line", "Second.", " Third"},
		},
		{
			name: "blank lines produce nothing",
			in:   "a\n\n\nb",
			want: []string{"a", "b"},
		},
		{
			name: "curly quotes become straight",
			in:   "She wrote “Go. Now” today",
			want: []string{"She wrote ", `"Go. Now"`, " today"},
		},
		{
			name: "unmatched curly quote is kept as text",
			in:   "He said “hello there. Bye",
			want: []string{"He said “hello there.", " Bye"},
		},
		{
			name: "empty curly pair is plain text",
			in:   "An empty “” pair. Done",
			want: []string{"An empty “” pair.", " Done"},
		},
		{
			name: "trailing period leaves no empty unit",
			in:   "One.",
			want: []string{"One."},
		},
		{
			name: "url is not split",
			in:   "Visit https://example.com/a.b.c now.",
			want: []string{"Visit https://example.com/a.b.c now."},
		},
		{
			name: "several urls",
			in:   "See a.com and b.org/x now. Bye.",
			want: []string{"See a.com and b.org/x now.", " Bye."},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.in))
		})
	}
}

func TestSplitSentences_NoNewlinesInOutput(t *testing.T) {
	for _, s := range SplitSentences("a. b\nc \"d e\" f\n") {
		assert.NotContains(t, s, "\n")
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: `He said: "Hello, world!" (twice)`, want: []string{"He", "said", "Hello", "world", "twice"}},
		{in: "  spaced   out\n\ttext ", want: []string{"spaced", "out", "text"}},
		{in: "it's “fine”; really?", want: []string{"it", "s", "fine", "really"}},
		{in: "...", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := SplitWords(tt.in)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlainText(t *testing.T) {
	tree := textBlock(t, notion.TypeParagraph, "Parent",
		textBlock(t, notion.TypeBulletedListItem, "child one",
			textBlock(t, notion.TypeQuote, "grandchild")),
		textBlock(t, notion.TypeHeading2, "child two"),
	)

	assert.Equal(t, "Parent\nchild one\ngrandchild\nchild two", PlainText(tree))
}

func TestPlainText_UnsupportedBlock(t *testing.T) {
	var img notion.Block
	require.NoError(t, json.Unmarshal([]byte(`{"id":"i","type":"image","image":{}}`), &img))

	assert.Equal(t, "", PlainText(img))

	parent := textBlock(t, notion.TypeParagraph, "caption", img)
	assert.Equal(t, "caption\n", PlainText(parent))
}

func TestSegment(t *testing.T) {
	b := textBlock(t, notion.TypeParagraph, "Hello there. General Kenobi!",
		textBlock(t, notion.TypeBulletedListItem, "nested"))

	assert.Equal(t, []string{"Hello there. General Kenobi!\nnested"}, Segment(b, Blocks))
	assert.Equal(t, []string{"Hello there.", " General Kenobi!", "nested"}, Segment(b, Sentences))
	assert.Equal(t, []string{"Hello", "there", "General", "Kenobi", "nested"}, Segment(b, Words))
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"sentence":  Sentences,
		"Sentences": Sentences,
		"words":     Words,
		"block":     Blocks,
		"":          Blocks,
	} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("paragraphs")
	assert.Error(t, err)

	assert.Equal(t, "sentence", Sentences.String())
	assert.Equal(t, "word", Words.String())
	assert.Equal(t, "block", Blocks.String())
}
