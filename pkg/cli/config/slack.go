package config

import (
	"log/slog"

	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	slackSvc "github.com/secmon-lab/klaviyofeed/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration of the failure notifier
type Slack struct {
	OAuthToken string
	ChannelID  string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack bot token for failure notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("KLAVIYOFEED_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel ID that receives failure notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("KLAVIYOFEED_SLACK_CHANNEL_ID"),
			Destination: &s.ChannelID,
		},
	}
}

// ConfigureOptional creates a failure notifier if configured, returns nil if not
func (s *Slack) ConfigureOptional(logger *slog.Logger) interfaces.FailureNotifier {
	if !s.IsConfigured() {
		logger.Debug("Slack not configured, failures are only logged")
		return nil
	}

	logger.Info("Configuring Slack failure notifier", "channel_id", s.ChannelID)
	return slackSvc.New(s.OAuthToken, s.ChannelID)
}

// IsConfigured checks if Slack is properly configured
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.ChannelID != ""
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel_id", s.ChannelID),
	)
}
