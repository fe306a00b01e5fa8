package interfaces

//go:generate moq -out mocks/klaviyo_mock.go -pkg mocks . KlaviyoClient

import (
	"context"

	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// TrackEvent is a behavioural event sent to the tracking endpoint
type TrackEvent struct {
	Name               string
	CustomerProperties map[string]string
	Properties         map[string]string
}

// Profile is one contact sent to a list. Absent optional values must stay
// absent on the wire.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
	Source    string
}

// KlaviyoClient defines the outbound Klaviyo operations
type KlaviyoClient interface {
	// Track sends a behavioural event authenticated by the public key
	Track(ctx context.Context, publicKey types.APIKey, event *TrackEvent) error

	// Subscribe adds a profile to a list authenticated by the private key
	Subscribe(ctx context.Context, privateKey types.APIKey, listID types.ListID, profile *Profile) error

	// Lists returns the list directory for the account owning the private key
	Lists(ctx context.Context, privateKey types.APIKey) ([]model.ListChoice, error)
}
