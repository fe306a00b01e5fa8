package model

import (
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// Well-known record field names
const (
	FieldEmail     = "email"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
)

// SubmissionRecord holds the resolved name => value pairs of one form
// submission (the merge vars).
type SubmissionRecord map[string]string

// Get returns the value for name and whether it is present and non-empty
func (r SubmissionRecord) Get(name string) (string, bool) {
	v, ok := r[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Email returns the submitter email or an empty string
func (r SubmissionRecord) Email() string {
	v, _ := r.Get(FieldEmail)
	return v
}

// Validate checks required fields before any outbound call is attempted
func (r SubmissionRecord) Validate() error {
	if _, ok := r.Get(FieldEmail); !ok {
		return ErrMissingEmail
	}
	return nil
}

// FormContext describes the form a submission came from
type FormContext struct {
	Title string `json:"title" yaml:"title"`
}

// Submission is a raw submission keyed by host field id, as delivered to
// a feed by the host.
type Submission struct {
	FeedID    types.FeedID             `json:"-"`
	FormTitle string                   `json:"form_title,omitempty"`
	Fields    map[types.FieldID]string `json:"fields"`
}
