// Package config loads and validates llmprep configuration from
// .llmprep/config.yml with environment variable overrides.
package config

// Config represents the complete llmprep configuration.
type Config struct {
	Bundle    BundleConfig    `yaml:"bundle" mapstructure:"bundle"`
	Knowledge KnowledgeConfig `yaml:"knowledge" mapstructure:"knowledge"`
}

// BundleConfig configures the project bundle encoder.
type BundleConfig struct {
	Output         string `yaml:"output" mapstructure:"output"`                   // bundle output path
	FollowSymlinks bool   `yaml:"follow_symlinks" mapstructure:"follow_symlinks"` // descend into symlinked dirs
	Sort           string `yaml:"sort" mapstructure:"sort"`                       // "path", "size", or "ext"
	IDPrefix       string `yaml:"id_prefix" mapstructure:"id_prefix"`             // file id prefix, e.g. "F"
	MaxFileBytes   int64  `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`   // per-file content cap
	MaxTotalBytes  int64  `yaml:"max_total_bytes" mapstructure:"max_total_bytes"` // total content cap
	Guide          string `yaml:"guide" mapstructure:"guide"`                     // usage guide: "none", "short", "verbose"
}

// KnowledgeConfig configures the document knowledge encoder.
type KnowledgeConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"` // knowledge file directory
	BaseName  string `yaml:"base_name" mapstructure:"base_name"`   // output files are <base>_<n>.txt
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"` // documents per output file
	IDPrefix  string `yaml:"id_prefix" mapstructure:"id_prefix"`   // DocID prefix, e.g. "DOC"
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Bundle: BundleConfig{
			Output:        "project_bundle.txt",
			Sort:          "path",
			IDPrefix:      "F",
			MaxFileBytes:  2_000_000,
			MaxTotalBytes: 50_000_000,
			Guide:         "short",
		},
		Knowledge: KnowledgeConfig{
			OutputDir: ".",
			BaseName:  "knowledge_base",
			BatchSize: 10,
			IDPrefix:  "DOC",
		},
	}
}
