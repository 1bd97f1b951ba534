package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenTraceLab/OpenTraceAvatar/pkg/avatar"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ViewportSize != 300 || cfg.ExportSize != 200 || cfg.ExportQuality != 90 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	want := Default()
	want.ExportSize = 256
	want.ExportFormat = "png"
	want.LastDir = "/tmp/photos"

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ExportSize != 256 || got.ExportFormat != "png" || got.LastDir != "/tmp/photos" {
		t.Fatalf("round trip lost fields: %+v", got)
	}

	cfg, err := got.Avatar(nil)
	if err != nil {
		t.Fatalf("Avatar: %v", err)
	}
	if cfg.ExportFormat != avatar.FormatPNG || cfg.ExportSize != 256 {
		t.Fatalf("avatar config %+v", cfg)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"export_quality": 75}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ExportQuality != 75 || cfg.ViewportSize != 300 || cfg.MaxScale != 3.0 {
		t.Fatalf("partial config %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"viewport_size": `},
		{name: "bad scale bounds", body: `{"min_scale": 5, "max_scale": 1}`},
		{name: "bad format", body: `{"export_format": "gif"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error for %s", tt.body)
			}
		})
	}
}

func TestAvatarValidates(t *testing.T) {
	cfg := Default()
	cfg.ExportQuality = 0
	if _, err := cfg.Avatar(nil); !errors.Is(err, avatar.ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestPathHonoursAPPDATA(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APPDATA", dir)
	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if want := filepath.Join(dir, "OpenTraceAvatar", "config.json"); path != want {
		t.Fatalf("path = %s, want %s", path, want)
	}
}
