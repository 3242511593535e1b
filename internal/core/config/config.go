package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultLanguage     = "ko-KR"
	DefaultBigStep      = 10
	DefaultSyncInterval = 5 * time.Minute
)

type Config struct {
	ConfigDir         string
	DBPath            string
	Language          string   // BCP-47 tag for speech recognition
	BigStep           int      // default big-increment size
	RecognizerCommand []string // external speech-to-text command (optional)
	RemoteEndpoint    string   // document store base URL (optional)
	AuthEndpoint      string   // sign-in token endpoint (optional)
	SyncInterval      time.Duration
}

type tomlConfig struct {
	DBPath            string   `toml:"db_path"`
	Language          string   `toml:"language"`
	BigStep           int      `toml:"big_step"`
	RecognizerCommand []string `toml:"recognizer_command"`
	RemoteEndpoint    string   `toml:"remote_endpoint"`
	AuthEndpoint      string   `toml:"auth_endpoint"`
	SyncIntervalMins  int      `toml:"sync_interval_minutes"`
}

// Load reads config from ~/.config/yeomju/
func Load() (*Config, error) {
	cfg := &Config{
		Language:     DefaultLanguage,
		BigStep:      DefaultBigStep,
		SyncInterval: DefaultSyncInterval,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // Use defaults
	}

	cfg.ConfigDir = filepath.Join(home, ".config", "yeomju")
	cfg.DBPath = filepath.Join(cfg.ConfigDir, "yeomju.db")
	tomlPath := filepath.Join(cfg.ConfigDir, "config.toml")

	// Load TOML config if it exists
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			if tc.DBPath != "" {
				cfg.DBPath = tc.DBPath
			}
			if tc.Language != "" {
				cfg.Language = tc.Language
			}
			if tc.BigStep > 0 {
				cfg.BigStep = tc.BigStep
			}
			cfg.RecognizerCommand = tc.RecognizerCommand
			cfg.RemoteEndpoint = tc.RemoteEndpoint
			cfg.AuthEndpoint = tc.AuthEndpoint
			if tc.SyncIntervalMins > 0 {
				cfg.SyncInterval = time.Duration(tc.SyncIntervalMins) * time.Minute
			}
		}
	}

	return cfg, nil
}
