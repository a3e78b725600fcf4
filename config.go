package zenparticles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/zenparticles/pointcloud/pc/core"
)

type Config struct {
	Window    WindowConfig    `toml:"window" yaml:"window"`
	Particles ParticlesConfig `toml:"particles" yaml:"particles"`
	Camera    CameraConfig    `toml:"camera" yaml:"camera"`
	Gesture   GestureConfig   `toml:"gesture" yaml:"gesture"`
	Debug     bool            `toml:"debug" yaml:"debug"`
}

type WindowConfig struct {
	Width  int    `toml:"width" yaml:"width"`
	Height int    `toml:"height" yaml:"height"`
	Title  string `toml:"title" yaml:"title"`
}

type ParticlesConfig struct {
	Count   int     `toml:"count" yaml:"count"`
	Shape   string  `toml:"shape" yaml:"shape"`
	Color   string  `toml:"color" yaml:"color"`
	Opacity float32 `toml:"opacity" yaml:"opacity"`
	// Ambience draws the star backdrop and the sparkles.
	Ambience bool `toml:"ambience" yaml:"ambience"`
}

type CameraConfig struct {
	Distance        float32 `toml:"distance" yaml:"distance"`
	Fov             float32 `toml:"fov" yaml:"fov"`
	Near            float32 `toml:"near" yaml:"near"`
	Far             float32 `toml:"far" yaml:"far"`
	AutoRotate      bool    `toml:"auto_rotate" yaml:"auto_rotate"`
	AutoRotateSpeed float32 `toml:"auto_rotate_speed" yaml:"auto_rotate_speed"`
	MinDistance     float32 `toml:"min_distance" yaml:"min_distance"`
	MaxDistance     float32 `toml:"max_distance" yaml:"max_distance"`
}

type GestureConfig struct {
	Listen string `toml:"listen" yaml:"listen"`
	Demo   bool   `toml:"demo" yaml:"demo"`
}

var ErrUnsupportedConfigFormat = errors.New("unsupported config format")

func DefaultConfig() *Config {
	cam := core.NewCamera()
	return &Config{
		Window: WindowConfig{
			Width:  defaultWindowWidth,
			Height: defaultWindowHeight,
			Title:  defaultWindowTitle,
		},
		Particles: ParticlesConfig{
			Count:    core.DefaultCount,
			Shape:    core.ShapeHeart.String(),
			Color:    core.DefaultColorHex,
			Opacity:  core.DefaultOpacity,
			Ambience: true,
		},
		Camera: CameraConfig{
			Distance:        cam.Distance,
			Fov:             cam.FovDegrees,
			Near:            cam.Near,
			Far:             cam.Far,
			AutoRotate:      cam.AutoRotate,
			AutoRotateSpeed: cam.AutoRotateSpeed,
			MinDistance:     cam.MinDistance,
			MaxDistance:     cam.MaxDistance,
		},
		Gesture: GestureConfig{
			Listen: "127.0.0.1:8765",
		},
	}
}

// LoadConfig reads a TOML or YAML file over the defaults. An empty path or a
// missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg in the format chosen by the file extension.
func SaveConfig(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedConfigFormat, path)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) Validate() error {
	if c.Particles.Count <= 0 {
		return fmt.Errorf("particles.count: %w", core.ErrInvalidCount)
	}
	if _, err := core.ParseShape(c.Particles.Shape); err != nil {
		return fmt.Errorf("particles.shape: %w", err)
	}
	if _, err := core.ParseColor(c.Particles.Color); err != nil {
		return fmt.Errorf("particles.color: %w", err)
	}
	if c.Particles.Opacity < 0 || c.Particles.Opacity > 1 {
		return fmt.Errorf("particles.opacity %v outside [0,1]", c.Particles.Opacity)
	}
	if c.Camera.Distance <= 0 {
		return fmt.Errorf("camera.distance %v must be positive", c.Camera.Distance)
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		return fmt.Errorf("camera.fov %v outside (0,180)", c.Camera.Fov)
	}
	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		return fmt.Errorf("camera.near %v must be positive and below far %v", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.MinDistance > c.Camera.MaxDistance {
		return fmt.Errorf("camera.min_distance %v above max_distance %v", c.Camera.MinDistance, c.Camera.MaxDistance)
	}
	return nil
}

// ShapeValue returns the parsed particle shape. Call after Validate.
func (c *Config) ShapeValue() core.Shape {
	s, _ := core.ParseShape(c.Particles.Shape)
	return s
}

// ColorValue returns the parsed particle color. Call after Validate.
func (c *Config) ColorValue() core.Color {
	col, err := core.ParseColor(c.Particles.Color)
	if err != nil {
		return core.DefaultColor
	}
	return col
}

func (c *Config) NewCamera() *core.Camera {
	cam := core.NewCamera()
	cam.Distance = c.Camera.Distance
	cam.FovDegrees = c.Camera.Fov
	cam.Near = c.Camera.Near
	cam.Far = c.Camera.Far
	cam.AutoRotate = c.Camera.AutoRotate
	cam.AutoRotateSpeed = c.Camera.AutoRotateSpeed
	cam.MinDistance = c.Camera.MinDistance
	cam.MaxDistance = c.Camera.MaxDistance
	return cam
}
