package model_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

func TestFeed_Resolve(t *testing.T) {
	feed := newTestFeed("newsletter")

	t.Run("All mapped fields present", func(t *testing.T) {
		record := feed.Resolve(&model.Submission{Fields: map[types.FieldID]string{
			"1":   "a@b.com",
			"2.3": "Ada",
			"2.6": "Lovelace",
			"9":   "ignored",
		}})

		gt.Equal(t, 3, len(record))
		gt.Equal(t, "a@b.com", record.Email())
		gt.Equal(t, "Ada", record[model.FieldFirstName])
		gt.Equal(t, "Lovelace", record[model.FieldLastName])
	})

	t.Run("Unsubmitted fields are left out", func(t *testing.T) {
		record := feed.Resolve(&model.Submission{Fields: map[types.FieldID]string{
			"1": "a@b.com",
		}})

		_, hasFirst := record[model.FieldFirstName]
		_, hasLast := record[model.FieldLastName]
		gt.False(t, hasFirst)
		gt.False(t, hasLast)
	})
}

func TestFeed_FormContext(t *testing.T) {
	feed := newTestFeed("newsletter")
	feed.FormTitle = "Stored Title"

	gt.Equal(t, "Stored Title", feed.FormContext(&model.Submission{}).Title)
	gt.Equal(t, "Sent Title", feed.FormContext(&model.Submission{FormTitle: "Sent Title"}).Title)
}

func TestFeedCondition_Match(t *testing.T) {
	sub := &model.Submission{Fields: map[types.FieldID]string{"5": "Yes, Subscribe Me"}}

	testCases := []struct {
		name     string
		operator model.ConditionOperator
		value    string
		expected bool
	}{
		{"is matches case insensitively", model.ConditionIs, "yes, subscribe me", true},
		{"is does not match", model.ConditionIs, "no", false},
		{"isnot matches", model.ConditionIsNot, "no", true},
		{"contains matches", model.ConditionContains, "subscribe", true},
		{"starts_with matches", model.ConditionStartsWith, "yes", true},
		{"ends_with does not match", model.ConditionEndsWith, "yes", false},
		{"unknown operator never matches", model.ConditionOperator("regex"), ".*", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cond := &model.FeedCondition{FieldID: "5", Operator: tc.operator, Value: tc.value}
			gt.Equal(t, tc.expected, cond.Match(sub))
		})
	}
}

func TestSubmissionRecord_Validate(t *testing.T) {
	gt.NoError(t, model.SubmissionRecord{model.FieldEmail: "a@b.com"}.Validate())

	err := model.SubmissionRecord{model.FieldEmail: ""}.Validate()
	gt.Error(t, err)
	gt.Equal(t, "missing required field: email", err.Error())

	gt.Error(t, model.SubmissionRecord{model.FieldFirstName: "Ada"}.Validate())
	gt.Error(t, model.SubmissionRecord(nil).Validate())
}

func TestForwardResults_Failures(t *testing.T) {
	results := model.ForwardResults{
		model.Sent(model.TargetEvent),
		model.Failed(model.TargetSubscription, "boom"),
	}

	gt.True(t, results.HasFailure())
	gt.Equal(t, 1, len(results.Failures()))
	gt.Equal(t, model.TargetSubscription, results.Failures()[0].Target)

	gt.False(t, model.ForwardResults{model.Skipped(model.TargetEvent, "")}.HasFailure())
}

// Stored documents must use the same keys as the feeds file and the API
func TestFeed_StorageKeysMatchJSON(t *testing.T) {
	for _, v := range []any{model.Feed{}, model.FeedCondition{}} {
		typ := reflect.TypeOf(v)
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			t.Run(typ.Name()+"."+field.Name, func(t *testing.T) {
				jsonName, _, _ := strings.Cut(field.Tag.Get("json"), ",")
				storeName, _, _ := strings.Cut(field.Tag.Get("firestore"), ",")
				gt.NotEqual(t, "", storeName)
				gt.Equal(t, jsonName, storeName)
			})
		}
	}
}
