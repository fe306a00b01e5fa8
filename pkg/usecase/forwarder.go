package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
	"github.com/secmon-lab/klaviyofeed/pkg/utils/apperr"
)

const (
	formPropertyName = "Form"
	sourcePrefix     = "GravityForms: "
	detailNoPublic   = "public API key not configured"
	detailNoPrivate  = "private API key not configured"
)

// ForwarderConfig holds configuration for Forwarder
type ForwarderConfig struct {
	eventName string
	notifier  interfaces.FailureNotifier
}

// ForwarderOption is a functional option for configuring Forwarder
type ForwarderOption func(*ForwarderConfig)

// WithEventName sets the default track event name
func WithEventName(name string) ForwarderOption {
	return func(c *ForwarderConfig) {
		if name != "" {
			c.eventName = name
		}
	}
}

// WithFailureNotifier sets an extra sink for failed calls
func WithFailureNotifier(notifier interfaces.FailureNotifier) ForwarderOption {
	return func(c *ForwarderConfig) {
		c.notifier = notifier
	}
}

// ForwardRequest bundles the inputs of one forward operation
type ForwardRequest struct {
	Record      model.SubmissionRecord
	Destination model.DestinationConfig
	Form        model.FormContext

	// EventName overrides the forwarder default when set
	EventName string
}

// Forwarder delivers a submission to the Klaviyo track and list endpoints
type Forwarder struct {
	client interfaces.KlaviyoClient
	config *ForwarderConfig
}

// NewForwarder creates a new Forwarder
func NewForwarder(client interfaces.KlaviyoClient, opts ...ForwarderOption) *Forwarder {
	config := &ForwarderConfig{
		eventName: model.DefaultEventName,
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Forwarder{
		client: client,
		config: config,
	}
}

// Forward issues the event and subscription calls for one submission. It
// always returns the [event, subscription] pair and never returns an error:
// every failure is recorded in the results and logged.
func (u *Forwarder) Forward(ctx context.Context, req *ForwardRequest) model.ForwardResults {
	submissionID := types.NewSubmissionID()
	logger := ctxlog.From(ctx).With(
		"submission_id", submissionID,
		"form", req.Form.Title,
	)
	ctx = ctxlog.With(ctx, logger)

	if err := req.Record.Validate(); err != nil {
		logger.Warn("Submission rejected before forwarding", "error", err)
		results := model.ForwardResults{
			model.Failed(model.TargetEvent, err.Error()),
			model.Failed(model.TargetSubscription, err.Error()),
		}
		u.notify(ctx, submissionID, req, results)
		return results
	}

	results := model.ForwardResults{
		u.sendEvent(ctx, req),
		u.sendSubscription(ctx, req),
	}

	logger.Info("Submission forwarded",
		"destination", req.Destination,
		"event", results[0].Status,
		"subscription", results[1].Status,
	)

	u.notify(ctx, submissionID, req, results)
	return results
}

func (u *Forwarder) sendEvent(ctx context.Context, req *ForwardRequest) model.ForwardResult {
	if !req.Destination.PublicAPIKey.IsSet() {
		return model.Skipped(model.TargetEvent, detailNoPublic)
	}

	eventName := u.config.eventName
	if req.EventName != "" {
		eventName = req.EventName
	}

	event := &interfaces.TrackEvent{
		Name: eventName,
		CustomerProperties: map[string]string{
			"$email": req.Record.Email(),
		},
		Properties: map[string]string{
			formPropertyName: req.Form.Title,
		},
	}

	if err := u.client.Track(ctx, req.Destination.PublicAPIKey, event); err != nil {
		ctxlog.From(ctx).Warn("Failed to send track event",
			"error", err,
			"event", eventName,
		)
		return model.Failed(model.TargetEvent, failureDetail(err))
	}

	return model.Sent(model.TargetEvent)
}

func (u *Forwarder) sendSubscription(ctx context.Context, req *ForwardRequest) model.ForwardResult {
	if !req.Destination.PrivateAPIKey.IsSet() {
		return model.Skipped(model.TargetSubscription, detailNoPrivate)
	}

	profile := &interfaces.Profile{
		Email:  req.Record.Email(),
		Source: sourcePrefix + req.Form.Title,
	}
	if v, ok := req.Record.Get(model.FieldFirstName); ok {
		profile.FirstName = v
	}
	if v, ok := req.Record.Get(model.FieldLastName); ok {
		profile.LastName = v
	}

	if err := u.client.Subscribe(ctx, req.Destination.PrivateAPIKey, req.Destination.ListID, profile); err != nil {
		ctxlog.From(ctx).Warn("Failed to subscribe profile",
			"error", err,
			"list_id", req.Destination.ListID,
		)
		return model.Failed(model.TargetSubscription, failureDetail(err))
	}

	return model.Sent(model.TargetSubscription)
}

func (u *Forwarder) notify(ctx context.Context, submissionID types.SubmissionID, req *ForwardRequest, results model.ForwardResults) {
	if u.config.notifier == nil || !results.HasFailure() {
		return
	}

	n := &interfaces.FailureNotification{
		SubmissionID: submissionID.String(),
		FormTitle:    req.Form.Title,
		Email:        req.Record.Email(),
		Failures:     results.Failures(),
	}
	if err := u.config.notifier.NotifyFailure(ctx, n); err != nil {
		apperr.Handle(ctx, goerr.Wrap(err, "failed to notify forward failure",
			goerr.V("submission_id", submissionID)))
	}
}

// failureDetail renders the caller-facing detail of a failed call. API
// errors carry the response body; anything else uses the error message.
func failureDetail(err error) string {
	if goerr.HasTag(err, model.ErrTagAPI) {
		if e := goerr.Unwrap(err); e != nil {
			values := e.Values()
			body, _ := values["body"].(string)
			if body == "" {
				return fmt.Sprintf("%s (status %v)", e.Error(), values["status"])
			}
			return fmt.Sprintf("status %v: %s", values["status"], body)
		}
	}
	return err.Error()
}
