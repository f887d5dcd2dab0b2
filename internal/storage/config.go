package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DBPath         string   `mapstructure:"db_path"`
	LogLevel       string   `mapstructure:"log_level"`
	DefaultFolders []string `mapstructure:"default_folders"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	dbPath, err := DefaultSQLitePath()
	if err != nil {
		dbPath = "shelf.db"
	}

	return Config{
		DBPath:         dbPath,
		LogLevel:       "warn",
		DefaultFolders: []string{"Favorites", "Wishlist", "Played"},
	}
}

// LoadConfig reads config from the YAML file at path (optional) and from
// SHELF_* environment variables. Missing values fall back to DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("shelf")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("default_folders", defaults.DefaultFolders)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Apply defaults for empty fields
	if config.DBPath == "" {
		config.DBPath = defaults.DBPath
	}
	if len(config.DefaultFolders) == 0 {
		config.DefaultFolders = defaults.DefaultFolders
	}

	return &config, nil
}

// DefaultConfigFilePath returns the default config path: ~/.config/shelf/config.yaml
func DefaultConfigFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "shelf", "config.yaml"), nil
}
