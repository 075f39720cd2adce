// Package compose holds the create/edit flows: a Draft collects the user's
// field values and validates them before anything goes over the wire, so a
// failed submit never loses what was typed.
package compose

import (
	"fmt"
	"os"
	"strings"

	"ideahub/internal/api"
	"ideahub/internal/apperr"
	"ideahub/internal/models"
	"ideahub/internal/session"
)

// MaxAttachmentSize is the client-enforced ceiling for a post attachment.
const MaxAttachmentSize = 5 << 20 // 5 MB

// Draft is the editable field set for a post, for both create and edit.
type Draft struct {
	Title    string
	Content  string
	Tags     []string
	Business []string
	Status   models.Status
	// AttachmentPath is a local file to upload; empty means none.
	AttachmentPath string
	// RemoveResource explicitly clears an existing attachment on edit.
	RemoveResource bool

	// original is the server's status when the edit began. A non-moderator
	// resubmits it untouched; only a change is moderator-gated.
	original models.Status
}

// FromPost pre-populates a draft for the edit flow.
func FromPost(post *models.Post) *Draft {
	return &Draft{
		Title:    post.Title,
		Content:  post.Content,
		Tags:     append([]string(nil), post.Tags...),
		Business: append([]string(nil), post.Business...),
		Status:   post.Status,
		original: post.Status,
	}
}

// Validate checks the draft against the client-side rules and normalizes the
// label sets. Changing the status is moderator-gated; keeping the server's
// value is not, so authors can always edit their own posts.
func (d *Draft) Validate(viewer *session.Session) error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return apperr.New(apperr.ErrInvalidInput, "title is required", nil)
	}
	if len(title) > models.MaxTitleLen {
		return apperr.New(apperr.ErrInvalidInput,
			fmt.Sprintf("title exceeds %d characters", models.MaxTitleLen), nil)
	}

	content := strings.TrimSpace(d.Content)
	if content == "" {
		return apperr.New(apperr.ErrInvalidInput, "content is required", nil)
	}
	if len(content) > models.MaxContentLen {
		return apperr.New(apperr.ErrInvalidInput,
			fmt.Sprintf("content exceeds %d characters", models.MaxContentLen), nil)
	}

	if len(d.Tags) > models.MaxTags {
		return apperr.New(apperr.ErrTooManyLabels,
			fmt.Sprintf("at most %d tags allowed", models.MaxTags), nil)
	}
	if len(d.Business) > models.MaxBusiness {
		return apperr.New(apperr.ErrTooManyLabels,
			fmt.Sprintf("at most %d business units allowed", models.MaxBusiness), nil)
	}
	d.Tags = models.LimitLabels(d.Tags, models.MaxTags)
	d.Business = models.LimitLabels(d.Business, models.MaxBusiness)

	if d.Status != "" && !d.Status.Valid() {
		return apperr.New(apperr.ErrInvalidInput, "unknown status: "+string(d.Status), nil)
	}
	baseline := d.original
	if baseline == "" {
		baseline = models.StatusDraft
	}
	if d.Status != "" && d.Status != baseline && !viewer.IsModerator {
		return apperr.New(apperr.ErrForbidden, "only moderators may change a post's status", nil)
	}

	if d.AttachmentPath != "" {
		info, err := os.Stat(d.AttachmentPath)
		if err != nil {
			return apperr.New(apperr.ErrInvalidInput, "attachment not readable: "+d.AttachmentPath, err)
		}
		if info.IsDir() {
			return apperr.New(apperr.ErrInvalidInput, "attachment is a directory", nil)
		}
		if info.Size() > MaxAttachmentSize {
			return apperr.New(apperr.ErrAttachmentTooLarge, "attachment exceeds 5 MB", nil)
		}
	}

	d.Title = title
	d.Content = content
	return nil
}

// Submission builds the API payload, stamping the viewer as author. Create
// defaults the status to draft.
func (d *Draft) Submission(viewer *session.Session) api.PostSubmission {
	status := d.Status
	if status == "" {
		status = models.StatusDraft
	}
	return api.PostSubmission{
		Author: models.Author{
			ID:   viewer.UserID,
			Name: viewer.UserName,
		},
		Title:          d.Title,
		Content:        d.Content,
		Tags:           d.Tags,
		Business:       d.Business,
		Status:         status,
		AttachmentPath: d.AttachmentPath,
		RemoveResource: d.RemoveResource,
	}
}
