package models

import (
	"encoding/json"
	"time"
)

// Comment is one entry in a post's append-only comment sequence.
type Comment struct {
	ID         string
	AuthorID   string
	AuthorName string
	Content    string
	Timestamp  time.Time
}

type wireComment struct {
	ID         string `json:"id"`
	AltID      string `json:"_id"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"author"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
}

// UnmarshalJSON accepts both the current object shape and the earliest
// revision where a comment was a bare string.
func (c *Comment) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		c.Content = text
		return nil
	}

	var wire wireComment
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	c.ID = wire.ID
	if c.ID == "" {
		c.ID = wire.AltID
	}
	c.AuthorID = wire.AuthorID
	c.AuthorName = wire.AuthorName
	c.Content = wire.Content
	c.Timestamp = parseTimestamp(wire.Timestamp)
	return nil
}

func (c Comment) MarshalJSON() ([]byte, error) {
	wire := wireComment{
		ID:         c.ID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
	}
	if !c.Timestamp.IsZero() {
		wire.Timestamp = c.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(wire)
}
