// Package config holds the user settings of the editor, stored as YAML.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/zuse/pkg/geom"
	"github.com/OpenTraceLab/zuse/pkg/render"
)

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("config: invalid value")

// Window is the initial editor window size in device independent pixels.
type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config controls the editor and the simulation loop.
type Config struct {
	// Drawing
	Theme      string `yaml:"theme"`
	ShowGrid   bool   `yaml:"show_grid"`
	ShowLabels bool   `yaml:"show_labels"`

	// View limits and input
	MinScale         float64 `yaml:"min_scale"`
	MaxScale         float64 `yaml:"max_scale"`
	PinchSensitivity float64 `yaml:"pinch_sensitivity"`

	UndoDepth     int `yaml:"undo_depth"`     // undo steps kept (default: 50)
	StepsPerFrame int `yaml:"steps_per_frame"` // simulation steps per frame (default: 1)

	Window Window `yaml:"window"`
}

// Default returns a Config with the built-in settings.
func Default() Config {
	return Config{
		Theme:            render.ThemeLight.String(),
		ShowGrid:         true,
		ShowLabels:       true,
		MinScale:         geom.DefaultMinScale,
		MaxScale:         geom.DefaultMaxScale,
		PinchSensitivity: 0.02,
		UndoDepth:        50,
		StepsPerFrame:    1,
		Window:           Window{Width: 1280, Height: 800},
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if _, err := render.ParseTheme(c.Theme); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if c.MinScale <= 0 || c.MaxScale < c.MinScale {
		return errors.Wrapf(ErrInvalid, "scale limits %v..%v", c.MinScale, c.MaxScale)
	}
	if c.PinchSensitivity <= 0 {
		return errors.Wrapf(ErrInvalid, "pinch sensitivity %v", c.PinchSensitivity)
	}
	if c.UndoDepth < 1 {
		return errors.Wrapf(ErrInvalid, "undo depth %d", c.UndoDepth)
	}
	if c.StepsPerFrame < 1 {
		return errors.Wrapf(ErrInvalid, "steps per frame %d", c.StepsPerFrame)
	}
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return errors.Wrapf(ErrInvalid, "window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// ThemeValue returns the parsed theme, light if the name is invalid.
func (c Config) ThemeValue() render.Theme {
	t, _ := render.ParseTheme(c.Theme)
	return t
}

// Parse reads YAML over the defaults, so missing keys keep their default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "config: parse")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), errors.Wrap(err, "config: read")
	}
	return Parse(data)
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return errors.Wrap(err, "config: marshal")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "config: create directory")
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the platform config file location, for example
// ~/.config/zuse/config.yaml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "config: locate")
	}
	return filepath.Join(dir, "zuse", "config.yaml"), nil
}
