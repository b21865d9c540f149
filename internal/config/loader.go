package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading for a project root.
type Loader interface {
	// Load loads configuration with priority defaults → treeline.yml →
	// TREELINE_* environment variables (env wins).
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader for the given project root.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("treeline")
	v.SetConfigType("yaml")
	v.AddConfigPath(l.rootDir)

	v.SetEnvPrefix("TREELINE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("syncWithGitignore")
	v.BindEnv("structure.format")
	v.BindEnv("indexing.enabled")
	v.BindEnv("indexing.estimateBytesPerSec")
	v.BindEnv("watch.debounce")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file falls back to defaults plus env vars.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("syncWithGitignore", defaults.SyncWithGitignore)
	v.SetDefault("structure.format", defaults.Structure.Format)
	v.SetDefault("structure.exclude", defaults.Structure.Exclude)
	v.SetDefault("indexing.enabled", defaults.Indexing.Enabled)
	v.SetDefault("indexing.include", defaults.Indexing.Include)
	v.SetDefault("indexing.exclude", defaults.Indexing.Exclude)
	v.SetDefault("indexing.estimateBytesPerSec", defaults.Indexing.EstimateBytesPerSec)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
}

// Load is a convenience wrapper over NewLoader(rootDir).Load().
func Load(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
