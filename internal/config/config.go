// Package config implements component K: a layered configuration singleton
// adapted from the teacher's internal/config.Initialize(), generalized from
// bd's BD_/BEADS_ dual env prefix to Rhema's single RHEMA_ prefix and from
// .beads/config.yaml to .rhema/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton. Should be called
// once at application startup; each call replaces the singleton with a
// fresh instance.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	configFileSet := false

	// 1. Walk up from CWD to find project .rhema/config.yaml, so commands
	// work from any subdirectory of the repository.
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".rhema", "config.yaml")
			if _, statErr := os.Stat(configPath); statErr == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	// 2. User config directory ($XDG_CONFIG_HOME/rhema/config.yaml).
	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "rhema", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// 3. Home directory (~/.rhema/config.yaml).
	if !configFileSet {
		if homeDir, err := os.UserHomeDir(); err == nil {
			configPath := filepath.Join(homeDir, ".rhema", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	v.SetEnvPrefix("RHEMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	// Cache sizing (component G).
	v.SetDefault("cache.memory.max-size-mb", 256)
	v.SetDefault("cache.memory.max-entries", 10000)
	v.SetDefault("cache.disk.enabled", true)
	v.SetDefault("cache.disk.compression", "zstd")
	v.SetDefault("cache.disk.compression-threshold-kb", 4)
	v.SetDefault("cache.eviction.policy", "adaptive")
	v.SetDefault("cache.eviction.strategy-switch-threshold", 0.10)

	// Cache monitor/optimizer (component H).
	v.SetDefault("monitor.history-retention-hours", 24)
	v.SetDefault("monitor.optimization-interval-minutes", 15)
	v.SetDefault("monitor.performance-threshold", 0.7)
	v.SetDefault("monitor.max-optimization-actions", 3)

	// Lock engine (component E).
	v.SetDefault("lock.stale-after-days", 30)

	// Scope-loader plugin service (component F).
	v.SetDefault("plugins.min-confidence-threshold", 0.5)
	v.SetDefault("plugins.cache-ttl", "5m")

	// Hook installer (component I).
	v.SetDefault("hooks.auto-backup", true)
	v.SetDefault("hooks.verify-after-install", true)
	v.SetDefault("hooks.smoke-test", true)
	v.SetDefault("hooks.smoke-test-timeout", "5s")

	// Logging (component L).
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", ".rhema/rhema.log")
	v.SetDefault("log.max-size-mb", 10)
	v.SetDefault("log.max-backups", 3)
	v.SetDefault("log.max-age-days", 28)
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetFloat64 retrieves a float configuration value.
func GetFloat64(key string) float64 {
	if v == nil {
		return 0
	}
	return v.GetFloat64(key)
}

// GetDuration retrieves a duration configuration value.
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set sets a configuration value, overriding file/env/defaults.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns all configuration settings as a map.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}

// ConfigFileUsed returns the path of the config file that was loaded, or
// empty string if none was found.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}
