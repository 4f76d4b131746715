package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeusync/armino/internal/core/chain"
	"github.com/zeusync/armino/internal/core/domino"
	"github.com/zeusync/armino/internal/core/placement"
	"github.com/zeusync/armino/internal/core/surface"
	"github.com/zeusync/armino/internal/core/systems/physics"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config collects every tunable of a domino session.
type Config struct {
	Log       LogConfig       `yaml:"log" json:"log"`
	Physics   PhysicsConfig   `yaml:"physics" json:"physics"`
	Surface   SurfaceConfig   `yaml:"surface" json:"surface"`
	Placement PlacementConfig `yaml:"placement" json:"placement"`
	Domino    DominoConfig    `yaml:"domino" json:"domino"`
	Trigger   TriggerConfig   `yaml:"trigger" json:"trigger"`
	Feed      FeedConfig      `yaml:"feed" json:"feed"`
}

type LogConfig struct {
	Level    string `yaml:"level" json:"level"`
	Encoding string `yaml:"encoding" json:"encoding"`
}

type PhysicsConfig struct {
	TimeStep float64 `yaml:"time_step" json:"time_step"`
}

type SurfaceConfig struct {
	Thickness float64 `yaml:"thickness" json:"thickness"`
	Shards    int     `yaml:"shards" json:"shards"`
}

type PlacementConfig struct {
	MinSpacing float64 `yaml:"min_spacing" json:"min_spacing"`
}

type DominoConfig struct {
	Width    float64 `yaml:"width" json:"width"`
	Height   float64 `yaml:"height" json:"height"`
	Length   float64 `yaml:"length" json:"length"`
	Mass     float64 `yaml:"mass" json:"mass"`
	Friction float64 `yaml:"friction" json:"friction"`
	Lift     float64 `yaml:"lift" json:"lift"`
}

type TriggerConfig struct {
	Impulse float64 `yaml:"impulse" json:"impulse"`
}

// FeedConfig enables the websocket event feed when Addr is set.
type FeedConfig struct {
	Addr string `yaml:"addr" json:"addr"`
	Path string `yaml:"path" json:"path"`
}

func Default() *Config {
	spec := domino.DefaultSpec()
	return &Config{
		Log:       LogConfig{Level: "info", Encoding: "console"},
		Physics:   PhysicsConfig{TimeStep: physics.DefaultTimeStep},
		Surface:   SurfaceConfig{Thickness: surface.DefaultThickness, Shards: 16},
		Placement: PlacementConfig{MinSpacing: placement.DefaultMinSpacing},
		Domino: DominoConfig{
			Width:    spec.Size.Width,
			Height:   spec.Size.Height,
			Length:   spec.Size.Length,
			Mass:     spec.Mass,
			Friction: spec.Friction,
			Lift:     spec.Lift,
		},
		Trigger: TriggerConfig{Impulse: chain.DefaultImpulse},
		Feed:    FeedConfig{Path: "/events"},
	}
}

// Load decodes YAML on top of the defaults, so a file only lists overrides.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"physics.time_step", c.Physics.TimeStep},
		{"surface.thickness", c.Surface.Thickness},
		{"placement.min_spacing", c.Placement.MinSpacing},
		{"domino.width", c.Domino.Width},
		{"domino.height", c.Domino.Height},
		{"domino.length", c.Domino.Length},
		{"domino.mass", c.Domino.Mass},
		{"trigger.impulse", c.Trigger.Impulse},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, p.name, p.value)
		}
	}
	if c.Domino.Friction < 0 {
		return fmt.Errorf("%w: domino.friction must not be negative", ErrInvalidConfig)
	}
	if c.Domino.Lift < 0 {
		return fmt.Errorf("%w: domino.lift must not be negative", ErrInvalidConfig)
	}
	if c.Surface.Shards < 1 {
		return fmt.Errorf("%w: surface.shards must be at least 1", ErrInvalidConfig)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log.encoding %q", ErrInvalidConfig, c.Log.Encoding)
	}
	return nil
}

// DominoSpec converts the domino section for the factory.
func (c *Config) DominoSpec() domino.Spec {
	return domino.Spec{
		Size:     physics.Box{Width: c.Domino.Width, Height: c.Domino.Height, Length: c.Domino.Length},
		Mass:     c.Domino.Mass,
		Friction: c.Domino.Friction,
		Lift:     c.Domino.Lift,
	}
}
