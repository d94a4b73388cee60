package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 9000
  static_dir: "/srv/vyayam/web"
camera:
  device_id: 2
  motion_threshold: 0.5
data:
  dir: "/var/lib/vyayam"
plugins:
  dir: "/var/lib/vyayam/plugins"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("server.port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Server.StaticDir != "/srv/vyayam/web" {
		t.Errorf("server.static_dir = %q", cfg.Server.StaticDir)
	}
	if cfg.Camera.DeviceID != 2 {
		t.Errorf("camera.device_id = %d, want 2", cfg.Camera.DeviceID)
	}
	if cfg.Camera.MotionThreshold != 0.5 {
		t.Errorf("camera.motion_threshold = %f, want 0.5", cfg.Camera.MotionThreshold)
	}
	if cfg.Data.Dir != "/var/lib/vyayam" {
		t.Errorf("data.dir = %q", cfg.Data.Dir)
	}
}

// TestLoadMissingFile verifies that a missing config file falls back to defaults.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should load defaults, got error: %v", err)
	}
	if cfg.Server.Port != 8421 {
		t.Errorf("server.port = %d, want default 8421", cfg.Server.Port)
	}
	if cfg.Camera.MotionThreshold != 1.0 {
		t.Errorf("camera.motion_threshold = %f, want default 1.0", cfg.Camera.MotionThreshold)
	}
	if cfg.Data.Dir == "" {
		t.Error("data.dir should default to a home-relative path")
	}
}

// TestEnvOverride verifies that VYAYAM_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("VYAYAM_SERVER_PORT", "9999")
	t.Setenv("VYAYAM_CAMERA_DEVICE_ID", "3")
	t.Setenv("VYAYAM_PLUGINS_DIR", "/opt/plugins")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Camera.DeviceID != 3 {
		t.Errorf("camera.device_id = %d, want 3", cfg.Camera.DeviceID)
	}
	if cfg.Plugins.Dir != "/opt/plugins" {
		t.Errorf("plugins.dir = %q, want /opt/plugins", cfg.Plugins.Dir)
	}
	// Unchanged fields should keep YAML values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
}

// TestValidationBadPort verifies that an out-of-range port is rejected.
func TestValidationBadPort(t *testing.T) {
	yaml := `
server:
  port: 70000
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Fatal("expected validation error for out-of-range port")
	}
}

// TestValidationBadThreshold verifies that a non-positive motion threshold is rejected.
func TestValidationBadThreshold(t *testing.T) {
	yaml := `
camera:
  motion_threshold: -1
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Fatal("expected validation error for negative motion threshold")
	}
}

// TestAddr verifies the listen address formatting.
func TestAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8421}
	if got, want := s.Addr(), "127.0.0.1:8421"; got != want {
		t.Errorf("Addr() = %q, want %q", got, want)
	}
}
