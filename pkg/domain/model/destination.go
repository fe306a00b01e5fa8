package model

import (
	"log/slog"

	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// DestinationConfig tells the forwarder where a submission goes. An unset
// key disables the call that needs it.
type DestinationConfig struct {
	PublicAPIKey  types.APIKey
	PrivateAPIKey types.APIKey
	ListID        types.ListID
}

// LogValue returns structured log value
func (d DestinationConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_public_key", d.PublicAPIKey.IsSet()),
		slog.Bool("has_private_key", d.PrivateAPIKey.IsSet()),
		slog.String("list_id", d.ListID.String()),
	)
}
