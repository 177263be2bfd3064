package notion

import "encoding/json"

// Block types whose rich text is extracted.
const (
	TypeParagraph        = "paragraph"
	TypeHeading1         = "heading_1"
	TypeHeading2         = "heading_2"
	TypeHeading3         = "heading_3"
	TypeBulletedListItem = "bulleted_list_item"
	TypeNumberedListItem = "numbered_list_item"
	TypeQuote            = "quote"
)

// Content is the interpreted payload of a block. The set of
// implementations is closed; anything not listed decodes as Unsupported.
type Content interface {
	PlainText() string
	content()
}

type Paragraph struct{ RichText []RichText }

type Heading struct {
	Level    int
	RichText []RichText
}

type BulletedListItem struct{ RichText []RichText }

type NumberedListItem struct{ RichText []RichText }

type Quote struct{ RichText []RichText }

// Unsupported is any block kind without extractable text, including
// payloads that fail to decode.
type Unsupported struct{ Type string }

func (c Paragraph) PlainText() string        { return JoinPlainText(c.RichText) }
func (c Heading) PlainText() string          { return JoinPlainText(c.RichText) }
func (c BulletedListItem) PlainText() string { return JoinPlainText(c.RichText) }
func (c NumberedListItem) PlainText() string { return JoinPlainText(c.RichText) }
func (c Quote) PlainText() string            { return JoinPlainText(c.RichText) }
func (Unsupported) PlainText() string        { return "" }

func (Paragraph) content()        {}
func (Heading) content()          {}
func (BulletedListItem) content() {}
func (NumberedListItem) content() {}
func (Quote) content()            {}
func (Unsupported) content()      {}

// Content decodes the block's type-specific payload.
func (b Block) Content() Content {
	var payload struct {
		RichText []RichText `json:"rich_text"`
	}

	switch b.Type {
	case TypeParagraph, TypeHeading1, TypeHeading2, TypeHeading3,
		TypeBulletedListItem, TypeNumberedListItem, TypeQuote:
	default:
		return Unsupported{Type: b.Type}
	}

	raw := b.Payload()
	if len(raw) == 0 {
		return Unsupported{Type: b.Type}
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Unsupported{Type: b.Type}
	}

	switch b.Type {
	case TypeParagraph:
		return Paragraph{RichText: payload.RichText}
	case TypeHeading1:
		return Heading{Level: 1, RichText: payload.RichText}
	case TypeHeading2:
		return Heading{Level: 2, RichText: payload.RichText}
	case TypeHeading3:
		return Heading{Level: 3, RichText: payload.RichText}
	case TypeBulletedListItem:
		return BulletedListItem{RichText: payload.RichText}
	case TypeNumberedListItem:
		return NumberedListItem{RichText: payload.RichText}
	default:
		return Quote{RichText: payload.RichText}
	}
}
