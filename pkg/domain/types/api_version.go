package types

// APIVersion selects which Klaviyo API generation the client speaks
type APIVersion string

const (
	APIVersionV1 APIVersion = "v1"
	APIVersionV2 APIVersion = "v2"
)

// String returns the string representation of the version
func (v APIVersion) String() string {
	return string(v)
}

// IsValid checks if the version is supported
func (v APIVersion) IsValid() bool {
	switch v {
	case APIVersionV1, APIVersionV2:
		return true
	default:
		return false
	}
}
