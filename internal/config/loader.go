package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins).
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (LLMPREP_*)
// 2. Config file (.llmprep/config.yml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, ".llmprep"))

	v.SetEnvPrefix("LLMPREP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("bundle.output")
	v.BindEnv("bundle.follow_symlinks")
	v.BindEnv("bundle.sort")
	v.BindEnv("bundle.id_prefix")
	v.BindEnv("bundle.max_file_bytes")
	v.BindEnv("bundle.max_total_bytes")
	v.BindEnv("bundle.guide")
	v.BindEnv("knowledge.output_dir")
	v.BindEnv("knowledge.base_name")
	v.BindEnv("knowledge.batch_size")
	v.BindEnv("knowledge.id_prefix")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env vars apply.
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

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("bundle.output", defaults.Bundle.Output)
	v.SetDefault("bundle.follow_symlinks", defaults.Bundle.FollowSymlinks)
	v.SetDefault("bundle.sort", defaults.Bundle.Sort)
	v.SetDefault("bundle.id_prefix", defaults.Bundle.IDPrefix)
	v.SetDefault("bundle.max_file_bytes", defaults.Bundle.MaxFileBytes)
	v.SetDefault("bundle.max_total_bytes", defaults.Bundle.MaxTotalBytes)
	v.SetDefault("bundle.guide", defaults.Bundle.Guide)

	v.SetDefault("knowledge.output_dir", defaults.Knowledge.OutputDir)
	v.SetDefault("knowledge.base_name", defaults.Knowledge.BaseName)
	v.SetDefault("knowledge.batch_size", defaults.Knowledge.BatchSize)
	v.SetDefault("knowledge.id_prefix", defaults.Knowledge.IDPrefix)
}
