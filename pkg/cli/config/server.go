package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr          string
	WebhookSecret string
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("KLAVIYOFEED_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringFlag{
			Name:        "webhook-secret",
			Usage:       "Shared secret for signing /api requests (unsigned requests are accepted when empty)",
			Sources:     cli.EnvVars("KLAVIYOFEED_WEBHOOK_SECRET"),
			Destination: &s.WebhookSecret,
		},
	}
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Bool("has_webhook_secret", s.WebhookSecret != ""),
	)
}
