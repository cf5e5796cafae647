package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for an emrcurate run.
type Config struct {
	DSN         string
	InputDir    string
	Format      string // "csv" or "parquet"
	LogFormat   string // "text" or "json"
	AuditLog    string // path to the append-only audit log; "" disables it
	Load        bool   // load curated/quarantine outputs into Postgres
	KeepStaging bool

	DisabledRules []string `yaml:"disabled_rules"` // rule IDs excluded this run
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	DisabledRules []string `yaml:"disabled_rules"`
	AuditLog      string   `yaml:"audit_log"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Flag values already set take precedence over file values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.DisabledRules = yc.DisabledRules
	if c.AuditLog == "" {
		c.AuditLog = yc.AuditLog
	}
	return nil
}

// Validate checks required fields and returns an error if the config is
// invalid.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("--input is required")
	}
	if info, err := os.Stat(c.InputDir); err != nil {
		return fmt.Errorf("input directory not accessible: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", c.InputDir)
	}
	if c.Format != "csv" && c.Format != "parquet" {
		return fmt.Errorf("--format must be csv or parquet, got %q", c.Format)
	}
	return nil
}

// ValidateWithDSN checks input fields plus the database connection string.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}
