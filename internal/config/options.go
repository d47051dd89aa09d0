package config

import (
	"log/slog"
	"time"
	_ "time/tzdata" // embedded zoneinfo for meta.location

	"github.com/Sumatoshi-tech/codefolio/internal/observability"
	"github.com/Sumatoshi-tech/codefolio/internal/plotpage"
	"github.com/Sumatoshi-tech/codefolio/internal/server"
	"github.com/Sumatoshi-tech/codefolio/internal/sitegen"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
	"github.com/Sumatoshi-tech/codefolio/pkg/scene"
)

// Location resolves meta.location. Validate has already vetted the name,
// so a failure here falls back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Meta.Location)
	if err != nil {
		return time.UTC
	}

	return loc
}

// SceneOptions turns the meta section into scene options.
func (c *Config) SceneOptions() []scene.Option {
	return []scene.Option{
		scene.WithLayout(c.Meta.Layout),
		scene.WithLocation(c.Location()),
	}
}

// LoadOptions turns the meta and server sections into loader options.
func (c *Config) LoadOptions(logger *slog.Logger) []loclog.LoadOption {
	opts := []loclog.LoadOption{loclog.WithLogger(logger)}

	if len(c.Meta.Exclude) > 0 {
		opts = append(opts, loclog.WithExclude(c.Meta.Exclude...))
	}

	if limit, err := c.Server.MaxLogBytes(); err == nil && limit > 0 {
		opts = append(opts, loclog.WithMaxSize(limit))
	}

	return opts
}

// SiteOptions returns the page settings.
func (c *Config) SiteOptions() sitegen.Site {
	return sitegen.Site{
		Title:         c.Site.Title,
		BasePath:      c.Site.BasePath,
		GitHub:        c.Site.GitHub,
		ContactAction: c.Site.ContactAction,
		Intro:         c.Site.Intro,
		Theme:         plotpage.ParseTheme(c.Site.Theme),
	}
}

// ServerOptions returns the listener and rate-limit settings.
func (c *Config) ServerOptions() server.Options {
	opts := server.DefaultOptions(c.Server.Addr)
	opts.ReadTimeout = c.Server.ReadTimeout
	opts.WriteTimeout = c.Server.WriteTimeout
	opts.IdleTimeout = c.Server.IdleTimeout
	opts.RateLimit = c.Server.RateLimit
	opts.RateBurst = c.Server.RateBurst
	opts.CacheEntries = c.Server.CacheEntries

	if size, err := c.Server.CacheBytes(); err == nil {
		opts.CacheBytes = size
	}

	return opts
}

// Observability builds the telemetry settings for a run in mode.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	obs := observability.DefaultConfig()
	obs.Mode = mode
	obs.ServiceVersion = version
	obs.Environment = c.Telemetry.Environment
	obs.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	obs.OTLPInsecure = c.Telemetry.OTLPInsecure
	obs.SampleRatio = c.Telemetry.SampleRatio
	obs.LogJSON = c.Logging.JSON

	if level, err := observability.ParseLevel(c.Logging.Level); err == nil {
		obs.LogLevel = level
	}

	return obs
}
