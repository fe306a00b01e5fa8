package model

// ListChoice is one selectable Klaviyo list
type ListChoice struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// DefaultListChoices is returned when no private key is configured
func DefaultListChoices() []ListChoice {
	return []ListChoice{{Label: "", Value: ""}}
}
