package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/slack-go/slack"
)

// Notifier posts forwarding failures to a Slack channel
type Notifier struct {
	client    *slack.Client
	channelID string
}

var _ interfaces.FailureNotifier = (*Notifier)(nil)

// Option is a functional option for configuring Notifier
type Option func(*notifierConfig)

type notifierConfig struct {
	slackOptions []slack.Option
}

// WithAPIURL points the notifier at another Slack API host
func WithAPIURL(apiURL string) Option {
	return func(c *notifierConfig) {
		c.slackOptions = append(c.slackOptions, slack.OptionAPIURL(apiURL))
	}
}

// New creates a new Slack notifier
func New(token, channelID string, opts ...Option) *Notifier {
	config := &notifierConfig{}
	for _, opt := range opts {
		opt(config)
	}

	return &Notifier{
		client:    slack.New(token, config.slackOptions...),
		channelID: channelID,
	}
}

// NotifyFailure implements interfaces.FailureNotifier
func (n *Notifier) NotifyFailure(ctx context.Context, notification *interfaces.FailureNotification) error {
	if notification == nil || len(notification.Failures) == 0 {
		return nil
	}

	_, ts, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(fallbackText(notification), false),
		slack.MsgOptionBlocks(BuildFailureBlocks(notification)...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post failure notification to Slack",
			goerr.V("channel_id", n.channelID),
			goerr.V("submission_id", notification.SubmissionID))
	}

	ctxlog.From(ctx).Debug("Posted failure notification",
		"channel_id", n.channelID,
		"ts", ts,
	)
	return nil
}

func fallbackText(notification *interfaces.FailureNotification) string {
	return fmt.Sprintf("Klaviyo forwarding failed for %q (%d failed call(s))",
		notification.FormTitle, len(notification.Failures))
}
