package models

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	// MaxTags and MaxBusiness cap the label sets a post may carry.
	MaxTags     = 5
	MaxBusiness = 5

	// MaxTitleLen and MaxContentLen are the backend's field bounds,
	// enforced client-side before submission.
	MaxTitleLen   = 200
	MaxContentLen = 5000
)

// Author identifies who owns a post. Ownership is immutable after creation.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID        string
	Title     string
	Content   string
	Author    Author
	Tags      []string
	Business  []string
	Status    Status
	Timestamp time.Time
	// Resource is an optional server-side file path attached to the post.
	Resource string
	// Comments is append-only from the client's perspective.
	Comments []Comment
	// Likes is the set of liker user ids. Counts are always derived from
	// its cardinality, never stored independently.
	Likes []string
}

// LikeCount is derived from the likes set.
func (p *Post) LikeCount() int {
	return len(p.Likes)
}

// LikedBy reports whether the given user is in the likes set.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CanEdit reports whether the given viewer may edit or delete this post:
// the author always can, a moderator or admin can for any post.
func (p *Post) CanEdit(userID string, moderator bool) bool {
	return moderator || (userID != "" && p.Author.ID == userID)
}

// LimitLabels normalizes a tag or business set: entries are trimmed, empties
// dropped, duplicates removed case-insensitively (first casing wins), and the
// result truncated to max entries in input order.
func LimitLabels(values []string, max int) []string {
	result := make([]string, 0, max)
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		key := strings.ToLower(value)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, value)
		if len(result) == max {
			break
		}
	}
	return result
}

// The backend's post shape drifted across revisions: `id` vs `_id`, a likes
// array vs upvote/downvote counters, optional `resource`, and comments that
// were once bare strings. Everything is normalized here, at decode time, so
// downstream code never branches on shape.
type wirePost struct {
	ID        string            `json:"id"`
	AltID     string            `json:"_id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Author    Author            `json:"author"`
	Tags      []string          `json:"tags"`
	Business  []string          `json:"business"`
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Resource  string            `json:"resource"`
	Comments  []json.RawMessage `json:"comments"`
	Likes     []string          `json:"likes"`
	Upvotes   *int              `json:"upvotes"`
	Downvotes *int              `json:"downvotes"`
}

func (p *Post) UnmarshalJSON(data []byte) error {
	var wire wirePost
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	p.ID = wire.ID
	if p.ID == "" {
		p.ID = wire.AltID
	}
	p.Title = wire.Title
	p.Content = wire.Content
	p.Author = wire.Author
	p.Tags = LimitLabels(wire.Tags, MaxTags)
	p.Business = LimitLabels(wire.Business, MaxBusiness)
	p.Resource = wire.Resource
	p.Timestamp = parseTimestamp(wire.Timestamp)

	if status, ok := ParseStatus(wire.Status); ok {
		p.Status = status
	} else {
		p.Status = StatusDraft
	}

	// Counter-shaped payloads predate the likes set; they normalize to an
	// empty set since the counters carry no membership information.
	p.Likes = []string{}
	if wire.Likes != nil {
		p.Likes = wire.Likes
	}

	p.Comments = make([]Comment, 0, len(wire.Comments))
	for _, raw := range wire.Comments {
		var comment Comment
		if err := json.Unmarshal(raw, &comment); err != nil {
			continue
		}
		p.Comments = append(p.Comments, comment)
	}

	return nil
}

func (p Post) MarshalJSON() ([]byte, error) {
	type canonical struct {
		ID        string    `json:"id,omitempty"`
		Title     string    `json:"title"`
		Content   string    `json:"content"`
		Author    Author    `json:"author"`
		Tags      []string  `json:"tags"`
		Business  []string  `json:"business"`
		Status    string    `json:"status"`
		Timestamp string    `json:"timestamp,omitempty"`
		Resource  string    `json:"resource,omitempty"`
		Comments  []Comment `json:"comments"`
		Likes     []string  `json:"likes"`
	}
	out := canonical{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		Author:   p.Author,
		Tags:     emptyIfNil(p.Tags),
		Business: emptyIfNil(p.Business),
		Status:   string(p.Status),
		Resource: p.Resource,
		Comments: p.Comments,
		Likes:    emptyIfNil(p.Likes),
	}
	if out.Comments == nil {
		out.Comments = []Comment{}
	}
	if !p.Timestamp.IsZero() {
		out.Timestamp = p.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(out)
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// parseTimestamp tolerates the timestamp formats seen across backend
// revisions; unparseable input yields the zero time rather than an error.
func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
