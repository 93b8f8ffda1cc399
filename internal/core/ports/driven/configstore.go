package driven

// ConfigStore holds the dotted-key settings revlink is configured with,
// such as "gateway.mode" or "providers.github.client_id".
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns the value for key, or "" when unset or not a string.
	GetString(key string) string

	// GetStringSlice returns the value for key as strings. Non-string
	// elements are dropped; unset keys give nil.
	GetStringSlice(key string) []string

	// Set stores value under key and persists it.
	Set(key string, value any) error

	// Path describes where the values live.
	Path() string
}
