package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Camera.FovDegrees != 45.0 {
		t.Errorf("expected fov 45, got %f", cfg.Camera.FovDegrees)
	}
	if cfg.Camera.Near != 0.1 {
		t.Errorf("expected near 0.1, got %f", cfg.Camera.Near)
	}
	if cfg.Camera.Far != 100.0 {
		t.Errorf("expected far 100, got %f", cfg.Camera.Far)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "glint.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  vsync: false
  msaa: 4

camera:
  fov_degrees: 60
  radius: 5

logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync false after load")
	}
	if cfg.Graphics.MSAA != 4 {
		t.Errorf("expected msaa 4, got %d", cfg.Graphics.MSAA)
	}
	if cfg.Camera.FovDegrees != 60 {
		t.Errorf("expected fov 60, got %f", cfg.Camera.FovDegrees)
	}
	if cfg.Camera.Radius != 5 {
		t.Errorf("expected radius 5, got %f", cfg.Camera.Radius)
	}
	// Values absent from the file keep their defaults.
	if cfg.Camera.Near != 0.1 {
		t.Errorf("expected near to keep default 0.1, got %f", cfg.Camera.Near)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "glint.yaml")

	if err := os.WriteFile(configPath, []byte("graphics: [not a map"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/glint.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("expected non-empty config dir")
	}
}

func TestArgsEnvironmentValidation(t *testing.T) {
	full := Args{SkyboxPath: "s.hdr", IBLDiffusePath: "d.ktx2", IBLSpecularPath: "p.ktx2"}
	if !full.HasEnvironment() {
		t.Error("expected full bundle to report an environment")
	}
	if (Args{}).HasEnvironment() {
		t.Error("expected empty args to report no environment")
	}
}
