package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	APIURL      string `json:"api_url" mapstructure:"api_url"`
	PlatformURL string `json:"platform_url" mapstructure:"platform_url"` // public site used for referral links
	Profile     string `json:"profile" mapstructure:"profile"`
	PageSize    int    `json:"page_size" mapstructure:"page_size"`
	TimeoutSecs int    `json:"timeout_secs" mapstructure:"timeout_secs"`
	ExportPath  string `json:"export_path" mapstructure:"export_path"`
	TokenEnv    string `json:"token_env" mapstructure:"token_env"`
}

func DefaultConfig() *Config {
	return &Config{
		APIURL:      "http://localhost:5000/api",
		PlatformURL: "https://play.spinforge.io",
		Profile:     "default",
		PageSize:    10,
		TimeoutSecs: 30,
		ExportPath:  "exports",
		TokenEnv:    "PARTNER_TOKEN",
	}
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	def := DefaultConfig()
	if cfg.APIURL == "" {
		cfg.APIURL = def.APIURL
	}
	if cfg.PlatformURL == "" {
		cfg.PlatformURL = def.PlatformURL
	}
	if cfg.Profile == "" {
		cfg.Profile = def.Profile
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = def.TimeoutSecs
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = def.ExportPath
	}
	if cfg.TokenEnv == "" {
		cfg.TokenEnv = def.TokenEnv
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api_url must be an http(s) URL, got %q", c.APIURL)
	}

	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("page_size must be between 1 and 100, got %d", c.PageSize)
	}

	if c.ExportPath == "" {
		return fmt.Errorf("export_path cannot be empty")
	}

	return nil
}

func (c *Config) EnsureDirectories() error {
	if c.ExportPath == "" || c.ExportPath == "." {
		return nil
	}
	if err := os.MkdirAll(c.ExportPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.ExportPath, err)
	}
	return nil
}

// InitializeProject writes a starter partner.config.json into the current
// directory so teams can commit per-environment settings.
func InitializeProject() error {
	configPath := "partner.config.json"

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// StateDir returns the directory holding profile and history files,
// creating it when missing.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	dir := filepath.Join(home, ".partnerctl")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	return dir, nil
}
