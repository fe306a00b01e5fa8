package klaviyo

import (
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
)

// Property names understood by Klaviyo
const (
	propFirstName = "$first_name"
	propLastName  = "$last_name"
	propConsent   = "$consent"
	propSource    = "$source"

	consentEmail = "email"
)

type trackPayload struct {
	Token              string            `json:"token"`
	Event              string            `json:"event"`
	CustomerProperties map[string]string `json:"customer_properties"`
	Properties         map[string]string `json:"properties,omitempty"`
}

type subscribePayload struct {
	APIKey   string              `json:"api_key"`
	Profiles []map[string]string `json:"profiles"`
}

// profileProperties builds the sparse v2 profile object. Optional names are
// omitted rather than sent empty.
func profileProperties(p *interfaces.Profile) map[string]string {
	props := map[string]string{
		"email":     p.Email,
		propConsent: consentEmail,
	}
	if p.Source != "" {
		props[propSource] = p.Source
	}
	if p.FirstName != "" {
		props[propFirstName] = p.FirstName
	}
	if p.LastName != "" {
		props[propLastName] = p.LastName
	}
	return props
}

// legacyProperties builds the flat properties object of the v1 members
// endpoint. Same sparse policy as profileProperties.
func legacyProperties(p *interfaces.Profile) map[string]string {
	props := map[string]string{}
	if p.Source != "" {
		props[propSource] = p.Source
	}
	if p.FirstName != "" {
		props[propFirstName] = p.FirstName
	}
	if p.LastName != "" {
		props[propLastName] = p.LastName
	}
	return props
}

type listV1 struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ListType string `json:"list_type"`
}

type listV2 struct {
	ListID   string `json:"list_id"`
	ListName string `json:"list_name"`
}
