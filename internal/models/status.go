package models

import "strings"

// Status is a post's lifecycle stage. Transitions are moderator-gated on the
// backend; the client only renders and submits values from this set.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReview    Status = "review"
	StatusApproved  Status = "approved"
	StatusDev       Status = "dev"
	StatusTesting   Status = "testing"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
	StatusPublished Status = "published"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusDraft,
	StatusReview,
	StatusApproved,
	StatusDev,
	StatusTesting,
	StatusCompleted,
	StatusArchived,
	StatusPublished,
}

// statusLabels maps enum values to the display names the backend's web client
// historically used.
var statusLabels = map[Status]string{
	StatusDraft:     "draft",
	StatusReview:    "in review",
	StatusApproved:  "approved",
	StatusDev:       "in development",
	StatusTesting:   "testing",
	StatusCompleted: "completed",
	StatusArchived:  "archived",
	StatusPublished: "published",
}

// Label returns the human-readable status name.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ParseStatus accepts either the enum token or the display label,
// case-insensitively. Unknown input yields ok=false.
func ParseStatus(input string) (Status, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for status, label := range statusLabels {
		if normalized == string(status) || normalized == label {
			return status, true
		}
	}
	return "", false
}
