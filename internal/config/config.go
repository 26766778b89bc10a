package config

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Config represents the analyzer configuration
type Config struct {
	// Scan settings
	Provider           string `mapstructure:"provider"`             // snapshot key: provider name (baidu, aliyun, quark, ...)
	Account            string `mapstructure:"account"`              // snapshot key: account name
	LargeFileThreshold string `mapstructure:"large_file_threshold"` // large file threshold, e.g. "100MiB"

	// Category settings
	CategoriesFile string `mapstructure:"categories_file"` // optional YAML file overriding the category priority list

	// Cache settings
	DatabasePath string `mapstructure:"database_path"` // SQLite database path; empty keeps snapshots in memory

	// Server settings
	ListenAddr string `mapstructure:"listen_addr"` // HTTP API listen address

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // text, json
	OutputFile   string `mapstructure:"output_file"`   // output file path; empty writes to stdout
}

// LoadConfig loads configuration from environment variables and defaults
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("provider", "baidu")
	v.SetDefault("account", "")
	v.SetDefault("large_file_threshold", "100MiB")
	v.SetDefault("categories_file", "")
	v.SetDefault("database_path", "cache/pan-cleaner.db")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("report_format", "text")
	v.SetDefault("output_file", "")

	// Read environment variables
	v.SetEnvPrefix("PANCLEANER")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ThresholdBytes parses the configured large-file threshold into bytes.
func (c *Config) ThresholdBytes() (int64, error) {
	bytes, err := humanize.ParseBytes(c.LargeFileThreshold)
	if err != nil {
		return 0, fmt.Errorf("invalid large_file_threshold %q: %w", c.LargeFileThreshold, err)
	}
	return int64(bytes), nil
}
