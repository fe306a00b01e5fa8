package interfaces

//go:generate moq -out mocks/notifier_mock.go -pkg mocks . FailureNotifier

import (
	"context"

	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
)

// FailureNotification carries failed outcomes of one forward operation
type FailureNotification struct {
	SubmissionID string
	FormTitle    string
	Email        string
	Failures     model.ForwardResults
}

// FailureNotifier is an additional sink for failed forward calls
type FailureNotifier interface {
	NotifyFailure(ctx context.Context, n *FailureNotification) error
}
