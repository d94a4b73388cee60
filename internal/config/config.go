// Package config loads the Vyayam configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Camera  CameraConfig  `yaml:"camera"`
	Data    DataConfig    `yaml:"data"`
	Plugins PluginsConfig `yaml:"plugins"`
}

type ServerConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

type CameraConfig struct {
	DeviceID        int     `yaml:"device_id"`
	MotionThreshold float64 `yaml:"motion_threshold"`
}

type DataConfig struct {
	Dir string `yaml:"dir"`
}

type PluginsConfig struct {
	Dir string `yaml:"dir"`
}

// Addr returns the address the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the configuration used when no config file exists.
// Data and plugins live under ~/.vyayam.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".vyayam")

	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8421,
		},
		Camera: CameraConfig{
			DeviceID:        0,
			MotionThreshold: 1.0,
		},
		Data:    DataConfig{Dir: base},
		Plugins: PluginsConfig{Dir: filepath.Join(base, "plugins")},
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; the defaults are used.
// Env vars use the prefix VYAYAM_ and underscore-separated paths:
//
//	VYAYAM_SERVER_HOST, VYAYAM_SERVER_PORT, VYAYAM_SERVER_STATIC_DIR,
//	VYAYAM_CAMERA_DEVICE_ID, VYAYAM_CAMERA_MOTION_THRESHOLD,
//	VYAYAM_DATA_DIR, VYAYAM_PLUGINS_DIR
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VYAYAM_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("VYAYAM_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("VYAYAM_SERVER_STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("VYAYAM_CAMERA_DEVICE_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Camera.DeviceID = id
		}
	}
	if v := os.Getenv("VYAYAM_CAMERA_MOTION_THRESHOLD"); v != "" {
		if thresh, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Camera.MotionThreshold = thresh
		}
	}
	if v := os.Getenv("VYAYAM_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("VYAYAM_PLUGINS_DIR"); v != "" {
		cfg.Plugins.Dir = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Camera.DeviceID < 0 {
		return fmt.Errorf("camera.device_id must not be negative")
	}
	if c.Camera.MotionThreshold <= 0 {
		return fmt.Errorf("camera.motion_threshold must be positive")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	return nil
}
