package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if cfg.Canvas.Width != 1500 || cfg.Canvas.Height != 175 {
		t.Errorf("Expected 1500x175 canvas, got %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Canvas.Augment {
		t.Error("Augmentation should be off by default")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":      func(c *Config) { c.Canvas.Width = 0 },
		"negative height": func(c *Config) { c.Canvas.Height = -5 },
		"bad filter":      func(c *Config) { c.Canvas.Filter = "sinc" },
		"quality low":     func(c *Config) { c.Cropper.OutputQuality = 0 },
		"quality high":    func(c *Config) { c.Cropper.OutputQuality = 101 },
		"bad format":      func(c *Config) { c.Output.DefaultFormat = "psd" },
		"bad log mode":    func(c *Config) { c.Logging.Mode = "verbose" },
	}

	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"config.json", "config.yaml", "nested/config.yml"} {
		cfg := Default()
		cfg.Canvas.Width = 800
		cfg.Canvas.Height = 90
		cfg.Canvas.Augment = true
		cfg.Canvas.Seed = 1234
		cfg.Logging.Mode = "release"

		path := filepath.Join(dir, name)
		if err := cfg.SaveToFile(path); err != nil {
			t.Fatalf("%s: SaveToFile failed: %v", name, err)
		}

		loaded, err := LoadFromFile(path)
		if err != nil {
			t.Fatalf("%s: LoadFromFile failed: %v", name, err)
		}
		if *loaded != *cfg {
			t.Errorf("%s: expected %+v, got %+v", name, *cfg, *loaded)
		}
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("canvas:\n  augment: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if !cfg.Canvas.Augment {
		t.Error("Expected augment to be loaded")
	}
	if cfg.Canvas.Width != 1500 || cfg.Cropper.OutputQuality != Default().Cropper.OutputQuality {
		t.Errorf("Missing fields should keep defaults, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadFromFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(bad); err == nil {
		t.Error("Expected error for malformed file")
	}
}

func TestCanvasSize(t *testing.T) {
	cfg := Default()
	size := cfg.CanvasSize()
	if size.Width != cfg.Canvas.Width || size.Height != cfg.Canvas.Height {
		t.Errorf("Unexpected canvas size %+v", size)
	}
}

func TestGetConfigPath(t *testing.T) {
	if filepath.Base(GetConfigPath()) != "config.json" {
		t.Errorf("Unexpected config path %s", GetConfigPath())
	}
}
