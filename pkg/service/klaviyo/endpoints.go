package klaviyo

import (
	"strings"

	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

// DefaultBaseURL is the public Klaviyo API host
const DefaultBaseURL = "https://a.klaviyo.com"

// listIDPlaceholder is substituted in the subscribe path
const listIDPlaceholder = "{listId}"

// Endpoints holds the request paths for one API generation. Paths are
// relative to the client base URL.
type Endpoints struct {
	Track     string `yaml:"track"`
	Subscribe string `yaml:"subscribe"`
	Lists     string `yaml:"lists"`
}

// DefaultEndpoints returns the paths Klaviyo used for the given version
func DefaultEndpoints(version types.APIVersion) Endpoints {
	switch version {
	case types.APIVersionV1:
		return Endpoints{
			Track:     "/api/track",
			Subscribe: "/api/v1/list/" + listIDPlaceholder + "/members",
			Lists:     "/api/v1/lists",
		}
	default:
		return Endpoints{
			Track:     "/api/track",
			Subscribe: "/api/v2/list/" + listIDPlaceholder + "/subscribe",
			Lists:     "/api/v2/lists",
		}
	}
}

// Merge overrides the non-empty paths of other onto e
func (e Endpoints) Merge(other Endpoints) Endpoints {
	if other.Track != "" {
		e.Track = other.Track
	}
	if other.Subscribe != "" {
		e.Subscribe = other.Subscribe
	}
	if other.Lists != "" {
		e.Lists = other.Lists
	}
	return e
}

func (e Endpoints) subscribePath(listID types.ListID) string {
	return strings.ReplaceAll(e.Subscribe, listIDPlaceholder, listID.String())
}
