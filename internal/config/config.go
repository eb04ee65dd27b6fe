package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Environment string `mapstructure:"environment"`
	Timeout     int    `mapstructure:"timeout_seconds"`
}

type StorageConfig struct {
	StateDir string `mapstructure:"state_dir"`
}

type AppConfig struct {
	API     *APIConfig     `mapstructure:"api"`
	Storage *StorageConfig `mapstructure:"storage"`
}

// Load reads the YAML config at path, with TOPEVENT_* environment
// variables taking precedence over file values.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("TOPEVENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.timeout_seconds", 0)
	v.SetDefault("storage.state_dir", defaultStateDir())

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and env vars still apply.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
		}
	}

	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	return &conf, nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".topevent"
	}

	return filepath.Join(home, ".topevent")
}
