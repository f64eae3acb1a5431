// Package config loads the CLI configuration: defaults, an optional
// rflogs.yaml, RFLOGS_* environment variables and command-line flags, in
// rising order of precedence.
package config

// Config holds all CLI configuration options.
type Config struct {
	// APIKey authenticates against the service. Usually RFLOGS_API_KEY.
	APIKey string `koanf:"api_key"`
	// BaseURL is the service root, overridable for self-hosted instances.
	BaseURL string `koanf:"base_url"`
	// Tags are default run tags merged before per-invocation -t flags.
	Tags    []string `koanf:"tags"`
	Verbose bool     `koanf:"verbose"`
	// Format selects rendering: auto, text or json.
	Format string `koanf:"format"`

	// ConfigFile is the file the values were loaded from, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultBaseURL = "https://rflogs.io"
	DefaultFormat  = "auto"
)
