package compose

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/apperr"
	"ideahub/internal/models"
	"ideahub/internal/session"
)

func member() *session.Session {
	return &session.Session{UserID: "u1", UserName: "Sam"}
}

func moderator() *session.Session {
	return &session.Session{UserID: "u2", UserName: "Mod", IsModerator: true}
}

func validDraft() *Draft {
	return &Draft{Title: "idea", Content: "body"}
}

func TestValidateRequiresTitleAndContent(t *testing.T) {
	draft := &Draft{Content: "body"}
	err := draft.Validate(member())
	assert.True(t, apperr.IsCode(err, apperr.ErrInvalidInput))

	draft = &Draft{Title: "idea", Content: "   "}
	err = draft.Validate(member())
	assert.True(t, apperr.IsCode(err, apperr.ErrInvalidInput))
}

func TestValidateLabelCardinality(t *testing.T) {
	draft := validDraft()
	draft.Tags = []string{"a", "b", "c", "d", "e", "f"}
	err := draft.Validate(member())
	assert.True(t, apperr.IsCode(err, apperr.ErrTooManyLabels))

	draft = validDraft()
	draft.Business = []string{"a", "b", "c", "d", "e", "f"}
	err = draft.Validate(member())
	assert.True(t, apperr.IsCode(err, apperr.ErrTooManyLabels))

	// Duplicates collapse before the cap applies.
	draft = validDraft()
	draft.Tags = []string{"go", "Go", "infra", "ci", "cd", "k8s"}
	require.NoError(t, draft.Validate(member()))
	assert.Equal(t, []string{"go", "infra", "ci", "cd", "k8s"}, draft.Tags)
}

func TestValidateStatusIsModeratorGated(t *testing.T) {
	draft := validDraft()
	draft.Status = models.StatusPublished
	err := draft.Validate(member())
	assert.True(t, apperr.IsCode(err, apperr.ErrForbidden))

	draft = validDraft()
	draft.Status = models.StatusPublished
	require.NoError(t, draft.Validate(moderator()))

	// Draft itself is fine for anyone.
	draft = validDraft()
	draft.Status = models.StatusDraft
	require.NoError(t, draft.Validate(member()))
}

func TestValidateAuthorKeepsServerStatusOnEdit(t *testing.T) {
	// A moderator moved the post past draft; the author edits it afterwards.
	post := &models.Post{Title: "idea", Content: "body", Status: models.StatusReview}

	draft := FromPost(post)
	require.NoError(t, draft.Validate(member()), "resubmitting the server's status is not a change")

	draft = FromPost(post)
	draft.Status = models.StatusApproved
	err := draft.Validate(member())
	assert.True(t, apperr.IsCode(err, apperr.ErrForbidden))

	draft = FromPost(post)
	draft.Status = models.StatusApproved
	require.NoError(t, draft.Validate(moderator()))
}

func TestValidateRejectsUnknownStatus(t *testing.T) {
	draft := validDraft()
	draft.Status = models.Status("banana")
	err := draft.Validate(moderator())
	assert.True(t, apperr.IsCode(err, apperr.ErrInvalidInput))
}

func TestValidateAttachmentCeiling(t *testing.T) {
	dir := t.TempDir()

	small := filepath.Join(dir, "small.png")
	require.NoError(t, os.WriteFile(small, []byte("ok"), 0o600))

	big := filepath.Join(dir, "big.bin")
	f, err := os.Create(big)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxAttachmentSize+1))
	require.NoError(t, f.Close())

	draft := validDraft()
	draft.AttachmentPath = small
	require.NoError(t, draft.Validate(member()))

	draft = validDraft()
	draft.AttachmentPath = big
	err = draft.Validate(member())
	assert.True(t, apperr.IsCode(err, apperr.ErrAttachmentTooLarge))

	draft = validDraft()
	draft.AttachmentPath = filepath.Join(dir, "missing.png")
	err = draft.Validate(member())
	assert.True(t, apperr.IsCode(err, apperr.ErrInvalidInput))
}

func TestSubmissionStampsAuthorAndDefaultsStatus(t *testing.T) {
	draft := validDraft()
	require.NoError(t, draft.Validate(member()))

	submission := draft.Submission(member())
	assert.Equal(t, models.Author{ID: "u1", Name: "Sam"}, submission.Author)
	assert.Equal(t, models.StatusDraft, submission.Status)
}

func TestFromPostCopiesFields(t *testing.T) {
	post := &models.Post{
		Title:    "idea",
		Content:  "body",
		Tags:     []string{"go"},
		Business: []string{"platform"},
		Status:   models.StatusReview,
	}
	draft := FromPost(post)
	draft.Tags = append(draft.Tags, "extra")

	assert.Len(t, post.Tags, 1, "drafts never alias the post's slices")
	assert.Equal(t, models.StatusReview, draft.Status)
}
