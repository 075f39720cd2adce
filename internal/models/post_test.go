package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalLikesShape(t *testing.T) {
	payload := `{
		"_id": "abc123",
		"title": "Better onboarding",
		"content": "pair every new hire",
		"author": {"id": "u1", "name": "Sam"},
		"tags": ["hr", "culture"],
		"business": ["people"],
		"status": "in review",
		"timestamp": "2024-06-01T10:30:00Z",
		"likes": ["u2", "u3"],
		"comments": [
			{"id": "c1", "author": "Pat", "authorId": "u2", "content": "yes please", "timestamp": "2024-06-02T08:00:00Z"}
		],
		"resource": "/uploads/plan.pdf"
	}`

	var post Post
	require.NoError(t, json.Unmarshal([]byte(payload), &post))

	assert.Equal(t, "abc123", post.ID)
	assert.Equal(t, StatusReview, post.Status)
	assert.Equal(t, 2, post.LikeCount())
	assert.True(t, post.LikedBy("u2"))
	assert.False(t, post.LikedBy("u1"))
	assert.Equal(t, "/uploads/plan.pdf", post.Resource)
	require.Len(t, post.Comments, 1)
	assert.Equal(t, "Pat", post.Comments[0].AuthorName)
	assert.Equal(t, "u2", post.Comments[0].AuthorID)
	assert.Equal(t, 2024, post.Timestamp.Year())
}

func TestUnmarshalCounterShapeNormalizesToLikes(t *testing.T) {
	// The oldest backend revision carried counters instead of a likes set.
	payload := `{
		"id": "p1",
		"title": "t",
		"content": "c",
		"author": {"id": "u1", "name": "Sam"},
		"status": "draft",
		"upvotes": 7,
		"downvotes": 2
	}`

	var post Post
	require.NoError(t, json.Unmarshal([]byte(payload), &post))

	assert.Equal(t, "p1", post.ID)
	// Counters carry no membership information, so the set starts empty.
	assert.NotNil(t, post.Likes)
	assert.Equal(t, 0, post.LikeCount())
}

func TestUnmarshalIDPrefersIdOverUnderscoreID(t *testing.T) {
	var post Post
	require.NoError(t, json.Unmarshal([]byte(`{"id": "a", "_id": "b"}`), &post))
	assert.Equal(t, "a", post.ID)

	var other Post
	require.NoError(t, json.Unmarshal([]byte(`{"_id": "b"}`), &other))
	assert.Equal(t, "b", other.ID)
}

func TestUnmarshalStringComments(t *testing.T) {
	payload := `{"id": "p1", "comments": ["first!", "nice idea"]}`

	var post Post
	require.NoError(t, json.Unmarshal([]byte(payload), &post))
	require.Len(t, post.Comments, 2)
	assert.Equal(t, "first!", post.Comments[0].Content)
	assert.Empty(t, post.Comments[0].AuthorName)
}

func TestUnmarshalUnknownStatusFallsBackToDraft(t *testing.T) {
	var post Post
	require.NoError(t, json.Unmarshal([]byte(`{"id": "p1", "status": "banana"}`), &post))
	assert.Equal(t, StatusDraft, post.Status)
}

func TestUnmarshalCapsLabelSets(t *testing.T) {
	payload := `{"id": "p1", "tags": ["a","b","c","d","e","f","g"]}`
	var post Post
	require.NoError(t, json.Unmarshal([]byte(payload), &post))
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, post.Tags)
}

func TestMarshalCanonicalShape(t *testing.T) {
	post := Post{
		ID:      "p1",
		Title:   "t",
		Content: "c",
		Author:  Author{ID: "u1", Name: "Sam"},
		Status:  StatusApproved,
	}
	data, err := json.Marshal(post)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "approved", decoded["status"])
	// Empty collections marshal as [] so the backend never sees null.
	assert.Equal(t, []any{}, decoded["tags"])
	assert.Equal(t, []any{}, decoded["likes"])
	assert.Equal(t, []any{}, decoded["comments"])
}

func TestLimitLabelsDeterministicTruncation(t *testing.T) {
	// Pasting six values keeps exactly the first five.
	input := []string{"a", "b", "c", "d", "e", "f"}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, LimitLabels(input, MaxTags))

	// Duplicates are removed case-insensitively, first casing wins.
	input = []string{"Go", "go", " GO ", "infra", "", "ci", "cd", "k8s", "extra"}
	assert.Equal(t, []string{"Go", "infra", "ci", "cd", "k8s"}, LimitLabels(input, MaxTags))
}

func TestCanEdit(t *testing.T) {
	post := Post{Author: Author{ID: "u1", Name: "Sam"}}

	assert.True(t, post.CanEdit("u1", false), "author edits own post")
	assert.True(t, post.CanEdit("u9", true), "moderator edits any post")
	assert.False(t, post.CanEdit("u9", false))
	assert.False(t, post.CanEdit("", false), "anonymous never edits")
}

func TestParseStatus(t *testing.T) {
	status, ok := ParseStatus("In Review")
	assert.True(t, ok)
	assert.Equal(t, StatusReview, status)

	status, ok = ParseStatus("dev")
	assert.True(t, ok)
	assert.Equal(t, StatusDev, status)

	status, ok = ParseStatus("in development")
	assert.True(t, ok)
	assert.Equal(t, StatusDev, status)

	_, ok = ParseStatus("banana")
	assert.False(t, ok)
}
