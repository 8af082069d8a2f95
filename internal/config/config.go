package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/lakshyamela/platform/internal/database"
	"github.com/lakshyamela/platform/internal/storage"
	"github.com/lakshyamela/platform/pkg/logger"
)

// EnvPrefix is the environment variable prefix for all settings.
const EnvPrefix = "MELA_"

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Log      logger.Config   `mapstructure:"log"`
	Database database.Config `mapstructure:"database"`
	Auth     AuthConfig      `mapstructure:"auth"`
	Storage  storage.Config  `mapstructure:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       string `mapstructure:"port"`
	CORSOrigin string `mapstructure:"corsorigin"`
}

// AuthConfig holds settings for the external auth verification service.
type AuthConfig struct {
	BaseURL string `mapstructure:"baseurl"`
}

// Load loads configuration from .env file and environment variables.
// Storage settings are optional: when absent the upload and media paths
// report a configuration error per request while the rest of the API serves.
func Load() (*Config, error) {
	v := viper.New()

	// 1. Load from .env file (if exists)
	v.SetConfigFile(".env")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Optional file; parse problems surface during Unmarshal if they matter.
		}
	}

	// 2. Load from environment variables.
	// Viper's AutomaticEnv doesn't work well with Unmarshal when keys aren't
	// known up front, so iterate env vars and populate viper directly:
	// MELA_DATABASE_HOST -> database.host
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		key, value := pair[0], pair[1]

		if strings.HasPrefix(key, EnvPrefix) {
			propKey := strings.TrimPrefix(key, EnvPrefix)
			propKey = strings.ToLower(strings.ReplaceAll(propKey, "_", "."))
			propKey = strings.TrimPrefix(propKey, ".")
			v.Set(propKey, value)
		}
	}

	v.SetDefault("server.port", "3001")
	v.SetDefault("server.corsorigin", "http://localhost:3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.port", 5432)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
