// Package filter is the pure search/filter engine over the in-memory post
// list. Nothing here touches the network or mutates its inputs; the feed
// recomputes a view from the canonical list whenever a selection changes.
package filter

import (
	"strings"

	"ideahub/internal/models"
)

// Search returns the posts whose title or content contains query,
// case-insensitively. An empty query returns the input unchanged.
func Search(posts []*models.Post, query string) []*models.Post {
	if query == "" {
		return posts
	}
	query = strings.ToLower(query)
	matched := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if strings.Contains(strings.ToLower(post.Title), query) ||
			strings.Contains(strings.ToLower(post.Content), query) {
			matched = append(matched, post)
		}
	}
	return matched
}

// Apply keeps the posts matching the facet selection: AND across the two
// facets, OR within each. An empty selection on a facet passes every post.
func Apply(posts []*models.Post, selectedTags, selectedBusinesses []string) []*models.Post {
	if len(selectedTags) == 0 && len(selectedBusinesses) == 0 {
		return posts
	}
	matched := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if (len(selectedTags) == 0 || intersects(post.Tags, selectedTags)) &&
			(len(selectedBusinesses) == 0 || intersects(post.Business, selectedBusinesses)) {
			matched = append(matched, post)
		}
	}
	return matched
}

// Compose combines the free-text query and the facet selection conjunctively
// against the canonical list. Search and filters never apply against each
// other's output, so the result is independent of input order.
func Compose(posts []*models.Post, query string, selectedTags, selectedBusinesses []string) []*models.Post {
	return Apply(Search(posts, query), selectedTags, selectedBusinesses)
}

// Universe derives the deduplicated tag and business option sets across all
// posts, in first-seen order. Used to populate filter choices.
func Universe(posts []*models.Post) (tags []string, businesses []string) {
	tags = dedupe(posts, func(p *models.Post) []string { return p.Tags })
	businesses = dedupe(posts, func(p *models.Post) []string { return p.Business })
	return tags, businesses
}

// SplitLabels parses comma-separated user input into trimmed, non-empty
// entries. Cardinality capping is the caller's concern (models.LimitLabels).
func SplitLabels(input string) []string {
	parts := strings.Split(input, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

func intersects(labels, selection []string) bool {
	for _, label := range labels {
		for _, selected := range selection {
			if label == selected {
				return true
			}
		}
	}
	return false
}

func dedupe(posts []*models.Post, pick func(*models.Post) []string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, post := range posts {
		for _, value := range pick(post) {
			if value == "" || seen[value] {
				continue
			}
			seen[value] = true
			values = append(values, value)
		}
	}
	return values
}
