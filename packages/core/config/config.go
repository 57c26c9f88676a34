package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/sirupsen/logrus"
)

// Config represents the reqsuite configuration
type Config struct {
	BaseURL      string            `yaml:"baseUrl" json:"baseUrl" env:"REQRES_BASE_URL" env-default:"https://reqres.in" env-description:"base URL of the service under test" validate:"required,url"`
	Timeout      time.Duration     `yaml:"timeout" json:"timeout" env:"REQRES_TIMEOUT" env-default:"10s" env-description:"per-request timeout" validate:"gt=0"`
	APIKey       string            `yaml:"apiKey" json:"apiKey" env:"REQRES_API_KEY" env-default:"reqres-free-v1" env-description:"value of the x-api-key header, empty to omit"`
	Rate         float64           `yaml:"rate" json:"rate" env:"REQRES_RATE" env-default:"0" env-description:"maximum requests per second, 0 for unlimited" validate:"gte=0"`
	Bail         bool              `yaml:"bail" json:"bail" env:"REQRES_BAIL" env-description:"stop after the first failed case"`
	Headers      map[string]string `yaml:"headers" json:"headers" env:"REQRES_HEADERS" env-description:"extra headers as name:value pairs separated by commas"`
	MaxRedirects int               `yaml:"maxRedirects" json:"maxRedirects" env:"REQRES_MAX_REDIRECTS" env-default:"10" env-description:"redirects to follow per request, 0 to report the 3xx response itself" validate:"gte=0"`
	Proxy        string            `yaml:"proxy" json:"proxy" env:"REQRES_PROXY" env-description:"HTTP proxy URL" validate:"omitempty,url"`
	Insecure     bool              `yaml:"insecure" json:"insecure" env:"REQRES_INSECURE" env-description:"skip TLS certificate verification"`
	Output       string            `yaml:"output" json:"output" env:"REQRES_OUTPUT" env-default:"console" env-description:"report format" validate:"oneof=console json junit tap xlsx"`
	OutputFile   string            `yaml:"outputFile" json:"outputFile" env:"REQRES_OUTPUT_FILE" env-description:"write the report to this file instead of stdout"`
	NoColor      bool              `yaml:"noColor" json:"noColor" env:"REQRES_NO_COLOR" env-description:"disable colored console output"`
	LogLevel     string            `yaml:"logLevel" json:"logLevel" env:"REQRES_LOG_LEVEL" env-default:"info" env-description:"log level (debug, info, warn, error)"`
	LogFormat    string            `yaml:"logFormat" json:"logFormat" env:"REQRES_LOG_FORMAT" env-default:"text" env-description:"log format (text, json)" validate:"oneof=text json"`
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	"reqsuite.yaml",
	"reqsuite.yml",
	"reqsuite.json",
	".reqsuite.yaml",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrInvalid is wrapped by every error Validate returns.
var ErrInvalid = errors.New("invalid configuration")

// LoadConfig loads configuration from the given file, or from the first of
// ConfigFilenames found in the working directory. Environment variables
// always apply on top of the file.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

func loadConfigFromFile(path string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge merges another config into this one, with other taking precedence.
// Zero values in other are treated as unset.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.BaseURL != "" {
		result.BaseURL = other.BaseURL
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.APIKey != "" {
		result.APIKey = other.APIKey
	}
	if other.Rate > 0 {
		result.Rate = other.Rate
	}
	if other.MaxRedirects > 0 {
		result.MaxRedirects = other.MaxRedirects
	}
	if other.Proxy != "" {
		result.Proxy = other.Proxy
	}
	if other.Output != "" {
		result.Output = other.Output
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.LogLevel != "" {
		result.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		result.LogFormat = other.LogFormat
	}

	// Boolean flags can only be switched on
	result.Bail = result.Bail || other.Bail
	result.Insecure = result.Insecure || other.Insecure
	result.NoColor = result.NoColor || other.NoColor

	if len(other.Headers) > 0 {
		headers := make(map[string]string, len(result.Headers)+len(other.Headers))
		for k, v := range result.Headers {
			headers[k] = v
		}
		for k, v := range other.Headers {
			headers[k] = v
		}
		result.Headers = headers
	}

	return &result
}

// Validate checks field constraints and that the log level is known.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %s (got %v)", ErrInvalid, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// RequestHeaders returns the headers sent with every request, including
// the API key header when one is configured.
func (c *Config) RequestHeaders() map[string]string {
	headers := make(map[string]string, len(c.Headers)+1)
	if c.APIKey != "" {
		headers[APIKeyHeader] = c.APIKey
	}
	for k, v := range c.Headers {
		headers[k] = v
	}
	return headers
}

// EnvHelp describes the environment variables Config reads.
func EnvHelp() string {
	header := "Environment variables:"
	desc, err := cleanenv.GetDescription(&Config{}, &header)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(desc)
}
