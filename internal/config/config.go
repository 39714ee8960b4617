package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/quantmind-br/freshen/internal/paths"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Update  UpdateConfig  `mapstructure:"update"`
	Network NetworkConfig `mapstructure:"network"`
	Paths   PathsConfig   `mapstructure:"paths"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// UpdateConfig describes where releases are published and what they replace
type UpdateConfig struct {
	ListingURL      string `mapstructure:"listing_url"`
	Pattern         string `mapstructure:"pattern"`
	CurrentVersion  string `mapstructure:"current_version"`
	OverwriteTarget string `mapstructure:"overwrite_target"`
	EntryPoint      string `mapstructure:"entry_point"`
	Strict          bool   `mapstructure:"strict"`
}

// NetworkConfig contains HTTP settings
type NetworkConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Progress bool          `mapstructure:"progress"`
}

// PathsConfig contains path-related configuration
type PathsConfig struct {
	LogFile string `mapstructure:"log_file"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Color string `mapstructure:"color"`
}

// Load loads configuration from file and environment.
// configFile, when set, replaces the default search path.
func Load(configFile string) (*Config, error) {
	resolver := paths.NewResolver()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
		viper.AddConfigPath(resolver.ConfigDir())
		viper.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(resolver)

	// Environment variable overrides
	viper.SetEnvPrefix("FRESHEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Expand paths
	cfg.Update.OverwriteTarget = expandPath(cfg.Update.OverwriteTarget, resolver.HomeDir())
	cfg.Paths.LogFile = expandPath(cfg.Paths.LogFile, resolver.HomeDir())

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(resolver *paths.Resolver) {
	// registered so FRESHEN_UPDATE_* variables are seen by Unmarshal
	viper.SetDefault("update.listing_url", "")
	viper.SetDefault("update.pattern", "")
	viper.SetDefault("update.current_version", "")
	viper.SetDefault("update.overwrite_target", "")
	viper.SetDefault("update.entry_point", "")
	viper.SetDefault("update.strict", true)

	viper.SetDefault("network.timeout", time.Duration(0))
	viper.SetDefault("network.progress", true)

	viper.SetDefault("paths.log_file", resolver.LogFile())

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.color", "auto")
}

// expandPath expands a leading ~ to homeDir and environment variables in path
func expandPath(path, homeDir string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		path = filepath.Join(homeDir, path[1:])
	}

	// Expand environment variables
	path = os.ExpandEnv(path)

	return path
}
