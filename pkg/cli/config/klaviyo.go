package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
	"github.com/secmon-lab/klaviyofeed/pkg/service/klaviyo"
	"github.com/secmon-lab/klaviyofeed/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Klaviyo holds Klaviyo API configuration
type Klaviyo struct {
	PublicAPIKey  string
	PrivateAPIKey string
	APIVersion    string
	BaseURL       string
	TrackPath     string
	SubscribePath string
	ListsPath     string
	Timeout       time.Duration
	EventName     string
}

// Flags returns CLI flags for Klaviyo configuration
func (k *Klaviyo) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "klaviyo-public-key",
			Usage:       "Klaviyo public API key (site ID) used for track events",
			Category:    "Klaviyo",
			Sources:     cli.EnvVars("KLAVIYOFEED_KLAVIYO_PUBLIC_KEY"),
			Destination: &k.PublicAPIKey,
		},
		&cli.StringFlag{
			Name:        "klaviyo-private-key",
			Usage:       "Klaviyo private API key used for list subscriptions",
			Category:    "Klaviyo",
			Sources:     cli.EnvVars("KLAVIYOFEED_KLAVIYO_PRIVATE_KEY"),
			Destination: &k.PrivateAPIKey,
		},
		&cli.StringFlag{
			Name:        "klaviyo-api-version",
			Usage:       "Klaviyo API generation (v1, v2)",
			Category:    "Klaviyo",
			Value:       types.APIVersionV2.String(),
			Sources:     cli.EnvVars("KLAVIYOFEED_KLAVIYO_API_VERSION"),
			Destination: &k.APIVersion,
		},
		&cli.StringFlag{
			Name:        "klaviyo-base-url",
			Usage:       "Klaviyo API base URL",
			Category:    "Klaviyo",
			Value:       klaviyo.DefaultBaseURL,
			Sources:     cli.EnvVars("KLAVIYOFEED_KLAVIYO_BASE_URL"),
			Destination: &k.BaseURL,
		},
		&cli.StringFlag{
			Name:        "klaviyo-track-path",
			Usage:       "Override the track endpoint path",
			Category:    "Klaviyo",
			Sources:     cli.EnvVars("KLAVIYOFEED_KLAVIYO_TRACK_PATH"),
			Destination: &k.TrackPath,
		},
		&cli.StringFlag{
			Name:        "klaviyo-subscribe-path",
			Usage:       "Override the subscribe endpoint path ({listId} is replaced)",
			Category:    "Klaviyo",
			Sources:     cli.EnvVars("KLAVIYOFEED_KLAVIYO_SUBSCRIBE_PATH"),
			Destination: &k.SubscribePath,
		},
		&cli.StringFlag{
			Name:        "klaviyo-lists-path",
			Usage:       "Override the lists endpoint path",
			Category:    "Klaviyo",
			Sources:     cli.EnvVars("KLAVIYOFEED_KLAVIYO_LISTS_PATH"),
			Destination: &k.ListsPath,
		},
		&cli.DurationFlag{
			Name:        "klaviyo-timeout",
			Usage:       "Timeout of each Klaviyo call",
			Category:    "Klaviyo",
			Value:       klaviyo.DefaultTimeout,
			Sources:     cli.EnvVars("KLAVIYOFEED_KLAVIYO_TIMEOUT"),
			Destination: &k.Timeout,
		},
		&cli.StringFlag{
			Name:        "event-name",
			Usage:       "Default name of the track event",
			Category:    "Klaviyo",
			Value:       model.DefaultEventName,
			Sources:     cli.EnvVars("KLAVIYOFEED_EVENT_NAME"),
			Destination: &k.EventName,
		},
	}
}

// Configure creates a Klaviyo API client
func (k *Klaviyo) Configure() (*klaviyo.Client, error) {
	version := types.APIVersion(k.APIVersion)
	if version == "" {
		version = types.APIVersionV2
	}
	if !version.IsValid() {
		return nil, goerr.New("invalid Klaviyo API version",
			goerr.V("version", k.APIVersion),
			goerr.T(model.ErrTagValidation))
	}
	if k.Timeout < 0 {
		return nil, goerr.New("Klaviyo timeout must not be negative",
			goerr.V("timeout", k.Timeout),
			goerr.T(model.ErrTagValidation))
	}

	opts := []klaviyo.Option{
		klaviyo.WithAPIVersion(version),
		klaviyo.WithEndpoints(klaviyo.Endpoints{
			Track:     k.TrackPath,
			Subscribe: k.SubscribePath,
			Lists:     k.ListsPath,
		}),
		klaviyo.WithTimeout(k.Timeout),
	}
	if k.BaseURL != "" {
		opts = append(opts, klaviyo.WithBaseURL(k.BaseURL))
	}

	return klaviyo.New(opts...), nil
}

// Credentials returns the plugin-level API keys
func (k *Klaviyo) Credentials() usecase.Credentials {
	return usecase.Credentials{
		PublicAPIKey:  types.APIKey(k.PublicAPIKey),
		PrivateAPIKey: types.APIKey(k.PrivateAPIKey),
	}
}

// ForwarderOptions returns forwarder options derived from the configuration
func (k *Klaviyo) ForwarderOptions() []usecase.ForwarderOption {
	return []usecase.ForwarderOption{
		usecase.WithEventName(k.EventName),
	}
}

// LogValue returns structured log value
func (k Klaviyo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_public_key", k.PublicAPIKey != ""),
		slog.Bool("has_private_key", k.PrivateAPIKey != ""),
		slog.String("api_version", k.APIVersion),
		slog.String("base_url", k.BaseURL),
		slog.Duration("timeout", k.Timeout),
		slog.String("event_name", k.EventName),
	)
}
