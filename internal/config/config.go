// Package config persists editor settings as JSON in the user config
// directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/avatar"
)

// AppConfig stores persistent application settings
type AppConfig struct {
	ViewportSize  int      `json:"viewport_size"`
	Border        int      `json:"border"`
	MinScale      float64  `json:"min_scale"`
	MaxScale      float64  `json:"max_scale"`
	PreviewSize   int      `json:"preview_size"`
	ExportSize    int      `json:"export_size"`
	ExportQuality int      `json:"export_quality"`
	ExportFormat  string   `json:"export_format"`
	MaxFileSize   int64    `json:"max_file_size"`
	AllowedTypes  []string `json:"allowed_types,omitempty"`

	// LastDir is the directory of the most recently opened image.
	LastDir string `json:"last_dir,omitempty"`
}

// Default returns the settings matching avatar.DefaultConfig.
func Default() *AppConfig {
	d := avatar.DefaultConfig()
	return &AppConfig{
		ViewportSize:  d.ViewportSize,
		Border:        d.Border,
		MinScale:      d.MinScale,
		MaxScale:      d.MaxScale,
		PreviewSize:   d.PreviewSize,
		ExportSize:    d.ExportSize,
		ExportQuality: d.ExportQuality,
		ExportFormat:  string(d.ExportFormat),
		MaxFileSize:   d.MaxFileSize,
		AllowedTypes:  append([]string(nil), d.AllowedTypes...),
	}
}

// Dir returns the platform config directory without creating it
func Dir() (string, error) {
	// Windows: %APPDATA%\OpenTraceAvatar
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "OpenTraceAvatar"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Linux/macOS: ~/.config/opentraceavatar
	return filepath.Join(homeDir, ".config", "opentraceavatar"), nil
}

// Path returns the path to the config file
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config at path, or at Path() when path is empty. A missing
// file yields the defaults. Fields absent from the file keep their defaults.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return Default(), err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if _, err := config.Avatar(nil); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Save writes the config to path, or to Path() when path is empty
func Save(path string, config *AppConfig) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Avatar converts the settings into a validated editor config.
func (c *AppConfig) Avatar(logger *zap.Logger) (avatar.Config, error) {
	cfg := avatar.DefaultConfig()
	cfg.ViewportSize = c.ViewportSize
	cfg.Border = c.Border
	cfg.MinScale = c.MinScale
	cfg.MaxScale = c.MaxScale
	cfg.PreviewSize = c.PreviewSize
	cfg.ExportSize = c.ExportSize
	cfg.ExportQuality = c.ExportQuality
	cfg.MaxFileSize = c.MaxFileSize
	if len(c.AllowedTypes) > 0 {
		cfg.AllowedTypes = c.AllowedTypes
	}
	if c.ExportFormat != "" {
		format, err := avatar.ParseFormat(c.ExportFormat)
		if err != nil {
			return cfg, err
		}
		cfg.ExportFormat = format
	}
	cfg.Logger = logger
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
