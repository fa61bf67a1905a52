package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	YNAB struct {
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		BudgetID string `yaml:"budget_id"`
	} `yaml:"ynab"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		SnapshotCron string `yaml:"snapshot_cron"`
	} `yaml:"schedule"`
	Currency struct {
		Symbol string `yaml:"symbol"`
	} `yaml:"currency"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("YNAB_API_KEY"); v != "" {
		cfg.YNAB.APIKey = v
	}
	if v := os.Getenv("YNAB_BUDGET_ID"); v != "" {
		cfg.YNAB.BudgetID = v
	}
	if v := os.Getenv("YNAB_BASE_URL"); v != "" {
		cfg.YNAB.BaseURL = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SNAPSHOT"); v != "" {
		cfg.Schedule.SnapshotCron = v
	}

	// Defaults
	if cfg.YNAB.BaseURL == "" {
		cfg.YNAB.BaseURL = "https://api.ynab.com/v1"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8099"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/finance_assistant.db"
	}
	if cfg.Schedule.SnapshotCron == "" {
		cfg.Schedule.SnapshotCron = "0 0 6 * * *"
	}
	if cfg.Currency.Symbol == "" {
		cfg.Currency.Symbol = "$"
	}

	return cfg, nil
}

// Validate checks that all required fields are set. YNAB credentials are
// optional: without them the app serves manual data only.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Database.SQLitePath == "" {
		return fmt.Errorf("database.sqlite_path is required")
	}
	if c.YNAB.APIKey != "" && c.YNAB.BudgetID == "" {
		return fmt.Errorf("ynab.budget_id is required when ynab.api_key is set")
	}
	return nil
}

// YNABConfigured reports whether both YNAB credentials are present.
func (c *Config) YNABConfigured() bool {
	return c.YNAB.APIKey != "" && c.YNAB.BudgetID != ""
}
