package config

import (
	"time"

	"github.com/Sumatoshi-tech/codefolio/pkg/site"
)

// Site defaults.
const (
	DefaultSiteTitle         = "Portfolio"
	DefaultSiteBasePath      = "/"
	DefaultSiteTheme         = site.ThemeAuto
	DefaultSiteContactAction = "mailto:me@example.com"
)

// Meta page defaults.
const (
	DefaultMetaLog      = "meta/loc.csv"
	DefaultMetaLocation = "Local"
	DefaultMetaStep     = 1.0
)

// Projects defaults.
const (
	DefaultProjectsFile = "lib/projects.json"
)

// Server defaults.
const (
	DefaultServerAddr          = ":8080"
	DefaultServerReadTimeout   = 15 * time.Second
	DefaultServerWriteTimeout  = 30 * time.Second
	DefaultServerIdleTimeout   = 60 * time.Second
	DefaultServerMaxLogSize    = "64MB"
	DefaultServerRateLimit     = 20.0
	DefaultServerRateBurst     = 40
	DefaultServerWatch         = true
	DefaultServerCacheEntries  = 256
	DefaultServerCacheSize     = "32MB"
	DefaultServerWatchDebounce = 250 * time.Millisecond
)

// Logging defaults.
const (
	DefaultLoggingLevel = "info"
	DefaultLoggingJSON  = false
)
