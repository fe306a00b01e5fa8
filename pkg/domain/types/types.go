package types

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// FeedID represents a feed identifier
type FeedID string

// String returns the string representation
func (id FeedID) String() string {
	return string(id)
}

// FormID represents a host form identifier
type FormID string

// String returns the string representation
func (id FormID) String() string {
	return string(id)
}

// FieldID represents a host form field identifier
type FieldID string

// String returns the string representation
func (id FieldID) String() string {
	return string(id)
}

// ListID represents a Klaviyo list identifier
type ListID string

// String returns the string representation
func (id ListID) String() string {
	return string(id)
}

// SubmissionID identifies a single forward operation in logs
type SubmissionID string

// String returns the string representation
func (id SubmissionID) String() string {
	return string(id)
}

// NewSubmissionID creates a new SubmissionID
func NewSubmissionID() SubmissionID {
	return SubmissionID(fmt.Sprintf("sub-%s", uuid.New().String()))
}

// APIKey is a Klaviyo API key. It is sent in plaintext to Klaviyo and must
// never be written to logs.
type APIKey string

// String returns the raw key
func (k APIKey) String() string {
	return string(k)
}

// IsSet reports whether the key is non-empty
func (k APIKey) IsSet() bool {
	return k != ""
}

// LogValue hides the key body
func (k APIKey) LogValue() slog.Value {
	if k == "" {
		return slog.StringValue("")
	}
	return slog.StringValue("[redacted]")
}
