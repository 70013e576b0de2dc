// Package config loads editor settings from ~/.datamodelrc.toml. A missing
// or unreadable file falls back to defaults without complaint.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DatabasePath    string `toml:"database_path"`
	ExportDirectory string `toml:"export_directory"`
	ShowMinimap     bool   `toml:"show_minimap"`
	AutosaveSeconds int    `toml:"autosave_seconds"`
	DefaultKind     string `toml:"default_kind"`
}

func Default() Config {
	return Config{
		DatabasePath:    "",
		ExportDirectory: "",
		ShowMinimap:     true,
		AutosaveSeconds: 3,
		DefaultKind:     "logical",
	}
}

// Load reads the rc file from the home directory. Missing keys keep their
// defaults; a missing file returns Default unchanged.
func Load() Config {
	cfg := Default()
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".datamodelrc.toml")
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default()
	}
	return normalize(cfg, home)
}

func normalize(cfg Config, home string) Config {
	cfg.DatabasePath = expand(cfg.DatabasePath, home)
	cfg.ExportDirectory = expand(cfg.ExportDirectory, home)
	if cfg.AutosaveSeconds <= 0 {
		cfg.AutosaveSeconds = Default().AutosaveSeconds
	}
	return cfg
}

func expand(path, home string) string {
	if path == "" {
		return ""
	}
	if path[0] == '~' {
		path = filepath.Join(home, path[1:])
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return path
}

// DefaultDatabasePath is used when the rc file does not set one.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "datamodel.db"
	}
	return filepath.Join(home, ".local", "share", "datamodel", "datamodel.db")
}

// ExportPath joins filename onto the configured export directory, creating
// it on demand.
func (c Config) ExportPath(filename string) string {
	if c.ExportDirectory == "" {
		return filename
	}
	os.MkdirAll(c.ExportDirectory, 0755)
	return filepath.Join(c.ExportDirectory, filename)
}
