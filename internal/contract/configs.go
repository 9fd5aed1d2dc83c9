package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sprawl-dev/sprawl/schema"
)

// Default values for configuration.
const (
	DefaultAPIURL         = "http://localhost:3000/api"
	DefaultTreeLimit      = 40
	MaxTreeLimit          = 1000
	DefaultTopFiles       = 25
	DefaultPrecision      = 2
	DefaultRequestTimeout = 30 * time.Second
	DefaultRateLimit      = 5.0
	DefaultCacheSize      = 128
	DefaultListenAddr     = ":8080"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	APIURL         string
	APIToken       string // Please use env var as this is plaintext
	RequireToken   bool
	PollInterval   time.Duration
	RequestTimeout time.Duration
	RateLimit      float64 // requests per second, 0 = unlimited
	CacheSize      int

	TreeLimit  int // top-level breadth of the pruned tree
	TopFiles   int // rows in the file listing
	Detail     bool
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	ListenAddr string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	APIURL         string  `mapstructure:"api-url"`
	APIToken       string  `mapstructure:"api-token"`
	RequireToken   bool    `mapstructure:"require-token"`
	PollInterval   string  `mapstructure:"poll-interval"`
	RequestTimeout string  `mapstructure:"request-timeout"`
	RateLimit      float64 `mapstructure:"rate-limit"`
	CacheSize      int     `mapstructure:"cache-size"`
	Limit          int     `mapstructure:"limit"`
	Top            int     `mapstructure:"top"`
	Detail         bool    `mapstructure:"detail"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Authorizer returns the authorizer implied by the token settings.
func (c *Config) Authorizer() Authorizer {
	return TokenAuthorizer{Token: c.APIToken, Required: c.RequireToken}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateService(cfg, input); err != nil {
		return err
	}
	if err := validateOutput(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateService processes the scanner service connection settings.
func validateService(cfg *Config, input *ConfigRawInput) error {
	// --- 1. API URL ---
	raw := strings.TrimRight(strings.TrimSpace(input.APIURL), "/")
	if raw == "" {
		raw = DefaultAPIURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api-url '%s'. must be an absolute http(s) URL", input.APIURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api-url scheme '%s'. must be http or https", u.Scheme)
	}
	cfg.APIURL = raw
	cfg.APIToken = input.APIToken
	cfg.RequireToken = input.RequireToken

	// --- 2. Durations ---
	cfg.PollInterval, err = parseDuration(input.PollInterval, schema.DefaultPollInterval)
	if err != nil {
		return fmt.Errorf("invalid poll-interval: %w", err)
	}
	cfg.RequestTimeout, err = parseDuration(input.RequestTimeout, DefaultRequestTimeout)
	if err != nil {
		return fmt.Errorf("invalid request-timeout: %w", err)
	}

	// --- 3. Client limits ---
	if input.RateLimit < 0 {
		return fmt.Errorf("rate-limit cannot be negative (received %v)", input.RateLimit)
	}
	cfg.RateLimit = input.RateLimit
	if input.CacheSize <= 0 {
		return fmt.Errorf("cache-size must be greater than 0 (received %d)", input.CacheSize)
	}
	cfg.CacheSize = input.CacheSize

	cfg.ListenAddr = input.Addr
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	return nil
}

// validateOutput processes the presentation settings.
func validateOutput(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Limits ---
	if input.Limit <= 0 || input.Limit > MaxTreeLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxTreeLimit, input.Limit)
	}
	cfg.TreeLimit = input.Limit
	if input.Top <= 0 {
		return fmt.Errorf("top must be greater than 0 (received %d)", input.Top)
	}
	cfg.TopFiles = input.Top

	// --- 2. Precision and Output ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// parseDuration parses a Go duration string, falling back to def when empty.
func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive (received %s)", s)
	}
	return d, nil
}
