package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Business struct {
		Timezone       string `yaml:"timezone"`
		MaxAdvanceDays int    `yaml:"max_advance_days"`
	} `yaml:"business"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Line struct {
		ChannelToken string `yaml:"channel_token"`
		APIBase      string `yaml:"api_base"`
	} `yaml:"line"`

	Telegram struct {
		BotToken     string  `yaml:"bot_token"`
		AdminChatIDs []int64 `yaml:"admin_chat_ids"`
	} `yaml:"telegram"`

	Sheets struct {
		CredentialsFile     string `yaml:"credentials_file"`
		SpreadsheetID       string `yaml:"spreadsheet_id"`
		SyncIntervalMinutes int    `yaml:"sync_interval_minutes"`
	} `yaml:"sheets"`

	Reminders struct {
		Enabled bool `yaml:"enabled"`
		Hour    int  `yaml:"hour"`
	} `yaml:"reminders"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		StoragePath   string `yaml:"storage_path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	location *time.Location
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/glowslot.db"
	}
	if cfg.Business.Timezone == "" {
		cfg.Business.Timezone = "Asia/Taipei"
	}
	if cfg.Business.MaxAdvanceDays <= 0 {
		cfg.Business.MaxAdvanceDays = 60
	}
	if cfg.Reminders.Hour <= 0 || cfg.Reminders.Hour > 23 {
		cfg.Reminders.Hour = 9
	}
	if cfg.Backup.StoragePath == "" {
		cfg.Backup.StoragePath = "data/backups"
	}
	if cfg.Backup.RetentionDays <= 0 {
		cfg.Backup.RetentionDays = 14
	}

	cfg.location, err = time.LoadLocation(cfg.Business.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load business timezone %q: %w", cfg.Business.Timezone, err)
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location returns the business timezone. Every "today" and weekday
// derivation in the service goes through this, never the process local
// zone.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) MaxAdvance() time.Duration {
	return time.Duration(c.Business.MaxAdvanceDays) * 24 * time.Hour
}

func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}
