// Package config loads codefolio settings from .codefolio.yaml, CODEFOLIO_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/pkg/scene"
	"github.com/Sumatoshi-tech/codefolio/pkg/site"
)

// Config is the top-level configuration. Field tags use mapstructure for
// viper unmarshalling.
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Meta      MetaConfig      `mapstructure:"meta"`
	Projects  ProjectsConfig  `mapstructure:"projects"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// SiteConfig holds the settings shared by every page.
type SiteConfig struct {
	Title         string `mapstructure:"title"`
	BasePath      string `mapstructure:"base_path"`
	RepoURL       string `mapstructure:"repo_url"`
	GitHub        string `mapstructure:"github"`
	Theme         string `mapstructure:"theme"`
	ContactAction string `mapstructure:"contact_action"`
	Intro         string `mapstructure:"intro"`
}

// MetaConfig holds the commit-history page settings.
type MetaConfig struct {
	Log      string       `mapstructure:"log"`
	Exclude  []string     `mapstructure:"exclude"`
	Location string       `mapstructure:"location"`
	Step     float64      `mapstructure:"step"`
	Layout   scene.Layout `mapstructure:"layout"`
}

// ProjectsConfig holds the project gallery settings.
type ProjectsConfig struct {
	File string `mapstructure:"file"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	MaxLogSize    string        `mapstructure:"max_log_size"`
	RateLimit     float64       `mapstructure:"rate_limit"`
	RateBurst     int           `mapstructure:"rate_burst"`
	Watch         bool          `mapstructure:"watch"`
	CacheEntries  int           `mapstructure:"cache_entries"`
	CacheSize     string        `mapstructure:"cache_size"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
	File  string `mapstructure:"file"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	Environment  string  `mapstructure:"environment"`
}

// Sentinel validation errors.
var (
	// ErrInvalidTheme indicates site.theme is not a known color scheme.
	ErrInvalidTheme = errors.New("site.theme must be one of \"light dark\", \"light\", \"dark\"")
	// ErrInvalidLocation indicates meta.location is not a known time zone.
	ErrInvalidLocation = errors.New("meta.location must be an IANA time zone name")
	// ErrInvalidStep indicates meta.step is outside (0, 100].
	ErrInvalidStep = errors.New("meta.step must be in (0, 100]")
	// ErrInvalidLayout indicates the plot area or radius range is empty.
	ErrInvalidLayout = errors.New("meta.layout must leave a positive plot area and 0 <= min_radius <= max_radius")
	// ErrInvalidMaxLogSize indicates server.max_log_size is not a byte size.
	ErrInvalidMaxLogSize = errors.New("server.max_log_size must be a byte size such as 64MB")
	// ErrInvalidCache indicates a negative cache_entries or a bad cache_size.
	ErrInvalidCache = errors.New("server.cache_entries must be non-negative and server.cache_size a byte size")
	// ErrInvalidRateLimit indicates a negative rate or burst.
	ErrInvalidRateLimit = errors.New("server.rate_limit and server.rate_burst must be non-negative")
	// ErrInvalidLogLevel indicates logging.level is not a slog level.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio is outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if !site.ValidTheme(c.Site.Theme) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, c.Site.Theme)
	}

	metaErr := c.validateMeta()
	if metaErr != nil {
		return metaErr
	}

	serverErr := c.validateServer()
	if serverErr != nil {
		return serverErr
	}

	if _, err := observability.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

func (c *Config) validateMeta() error {
	if _, err := time.LoadLocation(c.Meta.Location); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLocation, c.Meta.Location)
	}

	if c.Meta.Step <= 0 || c.Meta.Step > scene.MaxProgress {
		return fmt.Errorf("%w: %v", ErrInvalidStep, c.Meta.Step)
	}

	l := c.Meta.Layout
	area := l.Usable()

	if area.X1 <= area.X0 || area.Y1 <= area.Y0 || l.MinRadius < 0 || l.MinRadius > l.MaxRadius {
		return fmt.Errorf("%w: %+v", ErrInvalidLayout, l)
	}

	return nil
}

func (c *Config) validateServer() error {
	if _, err := c.Server.MaxLogBytes(); err != nil {
		return err
	}

	if _, err := c.Server.CacheBytes(); err != nil || c.Server.CacheEntries < 0 {
		return fmt.Errorf("%w: %d/%q", ErrInvalidCache, c.Server.CacheEntries, c.Server.CacheSize)
	}

	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("%w: %v/%d", ErrInvalidRateLimit, c.Server.RateLimit, c.Server.RateBurst)
	}

	return nil
}

// MaxLogBytes parses MaxLogSize. Empty means no cap (0).
func (s ServerConfig) MaxLogBytes() (int64, error) {
	if s.MaxLogSize == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(s.MaxLogSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxLogSize, s.MaxLogSize)
	}

	return int64(n), nil
}

// CacheBytes parses CacheSize. Empty disables the response cache (0).
func (s ServerConfig) CacheBytes() (int64, error) {
	if s.CacheSize == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(s.CacheSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCache, s.CacheSize)
	}

	return int64(n), nil
}
