package notion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RichText is a single rich text run. Only the plain text is interpreted.
type RichText struct {
	Type      string `json:"type,omitempty"`
	PlainText string `json:"plain_text"`
}

// JoinPlainText concatenates the plain text of every run.
func JoinPlainText(runs []RichText) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.PlainText)
	}
	return sb.String()
}

// Block is a content node as returned by the blocks API. Fields the
// pipeline does not interpret are kept verbatim so cached artifacts
// round-trip without loss.
//
// Children is only populated by the recursive fetcher: it is non-empty
// exactly when HasChildren is true.
type Block struct {
	Object      string
	ID          string
	Type        string
	CreatedTime string
	HasChildren bool
	Children    []Block

	fields map[string]json.RawMessage
}

var blockKeys = []string{"object", "id", "type", "created_time", "has_children", "children"}

func (b *Block) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if err := decodeField(fields, "object", &b.Object); err != nil {
		return err
	}
	if err := decodeField(fields, "id", &b.ID); err != nil {
		return err
	}
	if err := decodeField(fields, "type", &b.Type); err != nil {
		return err
	}
	if err := decodeField(fields, "created_time", &b.CreatedTime); err != nil {
		return err
	}
	if err := decodeField(fields, "has_children", &b.HasChildren); err != nil {
		return err
	}
	if err := decodeField(fields, "children", &b.Children); err != nil {
		return err
	}

	for _, k := range blockKeys {
		delete(fields, k)
	}
	b.fields = fields
	return nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.fields)+len(blockKeys))
	for k, v := range b.fields {
		out[k] = v
	}
	if b.Object != "" {
		out["object"] = b.Object
	}
	out["id"] = b.ID
	if b.Type != "" {
		out["type"] = b.Type
	}
	if b.CreatedTime != "" {
		out["created_time"] = b.CreatedTime
	}
	out["has_children"] = b.HasChildren
	if b.Children != nil {
		out["children"] = b.Children
	}
	return marshal(out)
}

// WithChildren returns a copy of b whose children are set according to
// the tree invariant: an empty list means no children at all.
func (b Block) WithChildren(children []Block) Block {
	if len(children) == 0 {
		b.HasChildren = false
		b.Children = nil
		return b
	}
	b.HasChildren = true
	b.Children = children
	return b
}

// Payload returns the raw type-specific payload of the block, if any.
func (b Block) Payload() json.RawMessage {
	return b.fields[b.Type]
}

// SetPayload replaces the type-specific payload. Used when building
// blocks by hand.
func (b *Block) SetPayload(payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if b.fields == nil {
		b.fields = make(map[string]json.RawMessage)
	}
	b.fields[b.Type] = raw
	return nil
}

// Object is a page or a database. Like Block, it keeps the fields it does
// not interpret.
type Object struct {
	Object      string
	ID          string
	CreatedTime string

	fields map[string]json.RawMessage
}

var objectKeys = []string{"object", "id", "created_time"}

func (o *Object) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if err := decodeField(fields, "object", &o.Object); err != nil {
		return err
	}
	if err := decodeField(fields, "id", &o.ID); err != nil {
		return err
	}
	if err := decodeField(fields, "created_time", &o.CreatedTime); err != nil {
		return err
	}
	for _, k := range objectKeys {
		delete(fields, k)
	}
	o.fields = fields
	return nil
}

func (o Object) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o.fields)+len(objectKeys))
	for k, v := range o.fields {
		out[k] = v
	}
	if o.Object != "" {
		out["object"] = o.Object
	}
	out["id"] = o.ID
	if o.CreatedTime != "" {
		out["created_time"] = o.CreatedTime
	}
	return marshal(out)
}

// Title returns the plain text title. Databases carry it at the top level,
// pages in the property whose type is "title".
func (o Object) Title() string {
	if raw, ok := o.fields["title"]; ok {
		var runs []RichText
		if err := json.Unmarshal(raw, &runs); err == nil {
			return JoinPlainText(runs)
		}
	}

	raw, ok := o.fields["properties"]
	if !ok {
		return ""
	}
	var props map[string]struct {
		Type  string     `json:"type"`
		Title []RichText `json:"title"`
	}
	if err := json.Unmarshal(raw, &props); err != nil {
		return ""
	}
	for _, p := range props {
		if p.Type == "title" {
			return JoinPlainText(p.Title)
		}
	}
	return ""
}

// Emoji returns the icon emoji, or "" when the icon is missing or is not
// an emoji.
func (o Object) Emoji() string {
	raw, ok := o.fields["icon"]
	if !ok {
		return ""
	}
	var icon struct {
		Type  string `json:"type"`
		Emoji string `json:"emoji"`
	}
	if err := json.Unmarshal(raw, &icon); err != nil || icon.Type != "emoji" {
		return ""
	}
	return icon.Emoji
}

// DisplayTitle is the human-readable title used in progress output.
func (o Object) DisplayTitle() string {
	title := strings.TrimSpace(o.Title())
	if title == "" {
		title = "Untitled"
	}
	if emoji := o.Emoji(); emoji != "" {
		return emoji + " " + title
	}
	return title
}

// List is the cursor-paginated envelope shared by every listing endpoint.
type List[T any] struct {
	Object     string  `json:"object,omitempty"`
	Results    []T     `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Cursor returns the next cursor, or "" at the end of the listing.
func (l List[T]) Cursor() string {
	if l.NextCursor == nil {
		return ""
	}
	return *l.NextCursor
}

func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

// marshal is json.Marshal without HTML escaping, so text reaches the
// artifacts as the API sent it.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
