package slack

import (
	"fmt"
	"unicode/utf8"

	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/slack-go/slack"
)

// Slack rejects section text longer than 3000 characters
const maxDetailLength = 2900

// BuildFailureBlocks renders a failure notification as message blocks
func BuildFailureBlocks(notification *interfaces.FailureNotification) []slack.Block {
	formTitle := notification.FormTitle
	if formTitle == "" {
		formTitle = "(untitled form)"
	}
	email := notification.Email
	if email == "" {
		email = "(none)"
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "⚠️ Klaviyo forwarding failed", false, false),
		),
		slack.NewSectionBlock(nil, []*slack.TextBlockObject{
			slack.NewTextBlockObject(slack.MarkdownType, "*Form:*\n"+formTitle, false, false),
			slack.NewTextBlockObject(slack.MarkdownType, "*Email:*\n"+email, false, false),
		}, nil),
	}

	for _, failure := range notification.Failures {
		detail := truncate(failure.Detail, maxDetailLength)
		text := fmt.Sprintf("*%s*: %s\n```%s```", failure.Target, failure.Status, detail)
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, text, false, false),
			nil, nil,
		))
	}

	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, "Submission: `"+notification.SubmissionID+"`", false, false),
	))

	return blocks
}

// truncate cuts s to at most n characters, never splitting a multi-byte rune
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
