package config

import "time"

const (
	DefaultBaseURL   = "https://reqres.in"
	DefaultTimeout   = 10 * time.Second
	DefaultRedirects = 10
	DefaultAPIKey    = "reqres-free-v1"
	DefaultOutput    = "console"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// APIKeyHeader carries the public key the ReqRes service requires.
	APIKeyHeader = "x-api-key"
)

// DefaultConfig returns a configuration with default values. It matches
// the env-default tags on Config.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		MaxRedirects: DefaultRedirects,
		APIKey:       DefaultAPIKey,
		Output:       DefaultOutput,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}
