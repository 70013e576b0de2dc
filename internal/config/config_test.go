package config

import (
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.ShowMinimap {
		t.Error("minimap should default on")
	}
	if cfg.AutosaveSeconds <= 0 {
		t.Error("autosave interval must be positive")
	}
	if cfg.DefaultKind != "logical" {
		t.Errorf("default kind = %q", cfg.DefaultKind)
	}
}

func TestNormalize(t *testing.T) {
	cfg := Config{DatabasePath: "~/data/x.db", AutosaveSeconds: -3}
	got := normalize(cfg, "/home/someone")
	if got.DatabasePath != "/home/someone/data/x.db" {
		t.Errorf("path = %q", got.DatabasePath)
	}
	if got.AutosaveSeconds != Default().AutosaveSeconds {
		t.Errorf("autosave = %d", got.AutosaveSeconds)
	}
}

func TestExportPath(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{ExportDirectory: dir}
	if got := cfg.ExportPath("out.png"); got != filepath.Join(dir, "out.png") {
		t.Errorf("got %q", got)
	}

	bare := Config{}
	if got := bare.ExportPath("out.png"); got != "out.png" {
		t.Errorf("got %q without export dir", got)
	}
}
