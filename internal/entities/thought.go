package entities

import "time"

type ThoughtType string

const (
	ThoughtTypeSentence ThoughtType = "sentence"
	ThoughtTypeWord     ThoughtType = "word"
	ThoughtTypeBlock    ThoughtType = "block"
)

type ThoughtSource struct {
	Page  string `json:"page"`
	Block string `json:"block"`
}

// Thought is one unit of text cut from a block. Thoughts are never
// modified once created.
type Thought struct {
	Type      ThoughtType   `json:"type"`
	ID        string        `json:"id"`
	Timestamp string        `json:"timestamp"`
	Source    ThoughtSource `json:"source"`
	Text      string        `json:"text"`
}

// StoredThought is a row of the last exported thought snapshot.
type StoredThought struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	Position  int         `gorm:"index" json:"position"`
	Type      ThoughtType `gorm:"size:20;index" json:"type"`
	ThoughtID string      `gorm:"size:32;index" json:"id"`
	Timestamp string      `gorm:"size:40" json:"timestamp"`
	PageID    string      `gorm:"size:32;index" json:"page"`
	BlockID   string      `gorm:"size:32" json:"block"`
	Text      string      `gorm:"type:text" json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

func (StoredThought) TableName() string {
	return "stored_thoughts"
}

func NewStoredThought(position int, t Thought) StoredThought {
	return StoredThought{
		Position:  position,
		Type:      t.Type,
		ThoughtID: t.ID,
		Timestamp: t.Timestamp,
		PageID:    t.Source.Page,
		BlockID:   t.Source.Block,
		Text:      t.Text,
	}
}

func (s StoredThought) Thought() Thought {
	return Thought{
		Type:      s.Type,
		ID:        s.ThoughtID,
		Timestamp: s.Timestamp,
		Source:    ThoughtSource{Page: s.PageID, Block: s.BlockID},
		Text:      s.Text,
	}
}
