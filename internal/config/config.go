package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Version      string    `json:"version" mapstructure:"version"`
	DataDir      string    `json:"data_dir" mapstructure:"data_dir"`
	DatabasePath string    `json:"database_path" mapstructure:"database_path"`
	ReportJSON   string    `json:"report_json" mapstructure:"report_json"`
	ReportMD     string    `json:"report_md" mapstructure:"report_md"`
	QueriesPath  string    `json:"queries_path" mapstructure:"queries_path"`
	ResultDir    string    `json:"result_dir" mapstructure:"result_dir"`
	ServeRoot    string    `json:"serve_root" mapstructure:"serve_root"`
	Generator    Generator `json:"generator" mapstructure:"generator"`
}

type Generator struct {
	Seed     int64 `json:"seed" mapstructure:"seed"`
	Users    int   `json:"users" mapstructure:"users"`
	Products int   `json:"products" mapstructure:"products"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join("db", "ecommerce.db")
	}
	if cfg.ReportJSON == "" {
		cfg.ReportJSON = "report.json"
	}
	if cfg.ReportMD == "" {
		cfg.ReportMD = "report.md"
	}
	if cfg.QueriesPath == "" {
		cfg.QueriesPath = "queries.yaml"
	}
	if cfg.ResultDir == "" {
		cfg.ResultDir = "."
	}
	if cfg.ServeRoot == "" {
		cfg.ServeRoot = "."
	}
	if cfg.Generator.Seed == 0 {
		cfg.Generator.Seed = 42
	}
	if cfg.Generator.Users == 0 {
		cfg.Generator.Users = 95
	}
	if cfg.Generator.Products == 0 {
		cfg.Generator.Products = 32
	}
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path cannot be empty")
	}
	if c.Generator.Users < 0 || c.Generator.Products < 0 {
		return fmt.Errorf("generator counts cannot be negative")
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		filepath.Dir(c.DatabasePath),
		c.ResultDir,
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
