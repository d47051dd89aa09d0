package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/codefolio/pkg/scene"
)

const (
	configName      = ".codefolio"
	configType      = "yaml"
	envPrefix       = "CODEFOLIO"
	envKeySeparator = "_"
)

// LoadConfig loads configuration from file, env vars, and defaults.
// An explicit configPath must exist; otherwise .codefolio.yaml is looked
// up in the working directory and $HOME, and a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("site.title", DefaultSiteTitle)
	viperCfg.SetDefault("site.base_path", DefaultSiteBasePath)
	viperCfg.SetDefault("site.repo_url", "")
	viperCfg.SetDefault("site.github", "")
	viperCfg.SetDefault("site.theme", DefaultSiteTheme)
	viperCfg.SetDefault("site.contact_action", DefaultSiteContactAction)
	viperCfg.SetDefault("site.intro", "")

	viperCfg.SetDefault("meta.log", DefaultMetaLog)
	viperCfg.SetDefault("meta.exclude", []string{})
	viperCfg.SetDefault("meta.location", DefaultMetaLocation)
	viperCfg.SetDefault("meta.step", DefaultMetaStep)
	viperCfg.SetDefault("meta.layout.width", scene.DefaultWidth)
	viperCfg.SetDefault("meta.layout.height", scene.DefaultHeight)
	viperCfg.SetDefault("meta.layout.margins.top", scene.DefaultMarginTop)
	viperCfg.SetDefault("meta.layout.margins.right", scene.DefaultMarginRight)
	viperCfg.SetDefault("meta.layout.margins.bottom", scene.DefaultMarginBottom)
	viperCfg.SetDefault("meta.layout.margins.left", scene.DefaultMarginLeft)
	viperCfg.SetDefault("meta.layout.min_radius", scene.DefaultMinRadius)
	viperCfg.SetDefault("meta.layout.max_radius", scene.DefaultMaxRadius)

	viperCfg.SetDefault("projects.file", DefaultProjectsFile)

	viperCfg.SetDefault("server.addr", DefaultServerAddr)
	viperCfg.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	viperCfg.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	viperCfg.SetDefault("server.idle_timeout", DefaultServerIdleTimeout)
	viperCfg.SetDefault("server.max_log_size", DefaultServerMaxLogSize)
	viperCfg.SetDefault("server.rate_limit", DefaultServerRateLimit)
	viperCfg.SetDefault("server.rate_burst", DefaultServerRateBurst)
	viperCfg.SetDefault("server.watch", DefaultServerWatch)
	viperCfg.SetDefault("server.cache_entries", DefaultServerCacheEntries)
	viperCfg.SetDefault("server.cache_size", DefaultServerCacheSize)
	viperCfg.SetDefault("server.watch_debounce", DefaultServerWatchDebounce)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", DefaultLoggingJSON)
	viperCfg.SetDefault("logging.file", "")

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.environment", "")
}
