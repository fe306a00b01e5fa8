package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// DefaultEventName is the track event name used when neither the feed nor
// the forwarder overrides it
const DefaultEventName = "GravityForm Submitted"

// Feed maps one form's fields to one Klaviyo list
type Feed struct {
	ID        types.FeedID             `firestore:"id" json:"id" yaml:"id"`
	Name      string                   `firestore:"name" json:"name" yaml:"name"`
	FormID    types.FormID             `firestore:"form_id,omitempty" json:"form_id,omitempty" yaml:"form_id,omitempty"`
	FormTitle string                   `firestore:"form_title,omitempty" json:"form_title,omitempty" yaml:"form_title,omitempty"`
	ListID    types.ListID             `firestore:"list_id" json:"list_id" yaml:"list_id"`
	EventName string                   `firestore:"event_name,omitempty" json:"event_name,omitempty" yaml:"event_name,omitempty"`
	FieldMap  map[string]types.FieldID `firestore:"field_map" json:"field_map" yaml:"field_map"`
	Condition *FeedCondition           `firestore:"condition,omitempty" json:"condition,omitempty" yaml:"condition,omitempty"`
	Disabled  bool                     `firestore:"disabled,omitempty" json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Validate validates the feed
func (f *Feed) Validate() error {
	if f.ID == "" {
		return goerr.New("feed ID is required", goerr.T(ErrTagValidation))
	}
	if f.ListID == "" {
		return goerr.New("list ID is required",
			goerr.V("feed_id", f.ID),
			goerr.T(ErrTagValidation))
	}
	if f.FieldMap[FieldEmail] == "" {
		return goerr.New("field map must include email",
			goerr.V("feed_id", f.ID),
			goerr.T(ErrTagValidation))
	}
	if f.Condition != nil {
		if err := f.Condition.Validate(); err != nil {
			return goerr.Wrap(err, "invalid feed condition", goerr.V("feed_id", f.ID))
		}
	}
	return nil
}

// Resolve turns a raw submission into a record using the field map. Names
// whose field is absent from the submission are left out of the record.
func (f *Feed) Resolve(sub *Submission) SubmissionRecord {
	record := make(SubmissionRecord, len(f.FieldMap))
	for name, fieldID := range f.FieldMap {
		if v, ok := sub.Fields[fieldID]; ok {
			record[name] = v
		}
	}
	return record
}

// FormContext returns the form label for a submission. The title sent with
// the submission wins over the one stored on the feed.
func (f *Feed) FormContext(sub *Submission) FormContext {
	if sub.FormTitle != "" {
		return FormContext{Title: sub.FormTitle}
	}
	return FormContext{Title: f.FormTitle}
}

// ConditionOperator compares a submission field with a fixed value
type ConditionOperator string

const (
	ConditionIs         ConditionOperator = "is"
	ConditionIsNot      ConditionOperator = "isnot"
	ConditionContains   ConditionOperator = "contains"
	ConditionStartsWith ConditionOperator = "starts_with"
	ConditionEndsWith   ConditionOperator = "ends_with"
)

// IsValid checks if the operator is supported
func (o ConditionOperator) IsValid() bool {
	switch o {
	case ConditionIs, ConditionIsNot, ConditionContains, ConditionStartsWith, ConditionEndsWith:
		return true
	default:
		return false
	}
}

// FeedCondition gates feed processing on one submitted field
type FeedCondition struct {
	FieldID  types.FieldID     `firestore:"field_id" json:"field_id" yaml:"field_id"`
	Operator ConditionOperator `firestore:"operator" json:"operator" yaml:"operator"`
	Value    string            `firestore:"value" json:"value" yaml:"value"`
}

// Validate validates the condition
func (c *FeedCondition) Validate() error {
	if c.FieldID == "" {
		return goerr.New("condition field ID is required", goerr.T(ErrTagValidation))
	}
	if !c.Operator.IsValid() {
		return goerr.New("invalid condition operator",
			goerr.V("operator", c.Operator),
			goerr.T(ErrTagValidation))
	}
	return nil
}

// Match evaluates the condition against a submission. Comparison is case
// insensitive.
func (c *FeedCondition) Match(sub *Submission) bool {
	actual := strings.ToLower(sub.Fields[c.FieldID])
	expected := strings.ToLower(c.Value)

	switch c.Operator {
	case ConditionIs:
		return actual == expected
	case ConditionIsNot:
		return actual != expected
	case ConditionContains:
		return strings.Contains(actual, expected)
	case ConditionStartsWith:
		return strings.HasPrefix(actual, expected)
	case ConditionEndsWith:
		return strings.HasSuffix(actual, expected)
	default:
		return false
	}
}
