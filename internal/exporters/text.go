package exporters

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/mrlokans/journo/internal/entities"
)

// WriteText prints one thought text per line. With blankLines set, thoughts
// are separated by an empty line instead.
func WriteText(w io.Writer, thoughts []entities.Thought, blankLines bool) error {
	bw := bufio.NewWriter(w)
	for i, t := range thoughts {
		if blankLines && i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(t.Text); err != nil {
			return err
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteJSON writes thoughts as an indented JSON array. A nil slice is
// written as [].
func WriteJSON(w io.Writer, thoughts []entities.Thought) error {
	if thoughts == nil {
		thoughts = []entities.Thought{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(thoughts)
}
