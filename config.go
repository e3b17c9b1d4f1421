package grove

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const (
	defaultWindowWidth  = 1024
	defaultWindowHeight = 768
)

// Config holds the settings for running a scene in a window.
type Config struct {
	Window        WindowConfig  `toml:"window"`
	Logging       LoggingConfig `toml:"logging"`
	Debug         bool          `toml:"debug"`
	ScreenshotDir string        `toml:"screenshot_dir"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	TPS       int    `toml:"tps"` // ticks per second; Update runs Frame(1/TPS)
	Resizable bool   `toml:"resizable"`
	VSync     bool   `toml:"vsync"`
	ShowFPS   bool   `toml:"show_fps"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// LoadConfig reads a TOML config file. Missing keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return nil, fmt.Errorf("config %s: window size %dx%d must be positive", path, cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.TPS <= 0 {
		return nil, fmt.Errorf("config %s: tps %d must be positive", path, cfg.Window.TPS)
	}
	return cfg, nil
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "grove",
			Width:     defaultWindowWidth,
			Height:    defaultWindowHeight,
			TPS:       60,
			Resizable: true,
			VSync:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		ScreenshotDir: "screenshots",
	}
}
