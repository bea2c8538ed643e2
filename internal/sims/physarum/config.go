package physarum

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidConfig wraps every configuration rejection.
var ErrInvalidConfig = errors.New("physarum: invalid config")

const (
	// MaxAgents caps the population of a world.
	MaxAgents = 3000
	// MinResolution and MaxResolution bound the field width picked by a
	// resolution preset.
	MinResolution = 400
	MaxResolution = 1920
)

// Channel selects which part of a sample gates steering.
type Channel string

const (
	// ChannelAlpha compares the alpha channel of each sensor.
	ChannelAlpha Channel = "alpha"
	// ChannelRGB compares the summed color channels of each sensor.
	ChannelRGB Channel = "rgb"
)

// Reflection selects how an agent turns when it hits an edge.
type Reflection string

const (
	// ReflectMirror applies 180-heading on every edge.
	ReflectMirror Reflection = "mirror"
	// ReflectAxis negates the heading component perpendicular to the edge.
	ReflectAxis Reflection = "axis"
)

// Backend names a field implementation.
type Backend string

const (
	// BackendGrid is the numeric float grid.
	BackendGrid Backend = "grid"
	// BackendCanvas is the 2D canvas whose picture doubles as the trail.
	BackendCanvas Backend = "canvas"
)

// Params holds the agent and field tunables.
type Params struct {
	DecayRate      float64    `toml:"decay" yaml:"decay"`
	MaxSpeed       float64    `toml:"max_speed" yaml:"max_speed"`
	Attraction     float64    `toml:"attraction" yaml:"attraction"`
	SensorAngle    float64    `toml:"sensor_angle" yaml:"sensor_angle"`
	SensorDistance float64    `toml:"sensor_distance" yaml:"sensor_distance"`
	AgentSize      float64    `toml:"size" yaml:"size"`
	PointerBoost   float64    `toml:"boost" yaml:"boost"`
	PointerJitter  float64    `toml:"jitter" yaml:"jitter"`
	Channel        Channel    `toml:"channel" yaml:"channel"`
	Reflection     Reflection `toml:"reflection" yaml:"reflection"`
	Color          string     `toml:"color" yaml:"color"`
}

// Config controls the physarum world.
type Config struct {
	Agents  int     `toml:"agents" yaml:"agents"`
	Width   int     `toml:"w" yaml:"w"`
	Height  int     `toml:"h" yaml:"h"`
	Seed    int64   `toml:"seed" yaml:"seed"`
	Backend Backend `toml:"backend" yaml:"backend"`

	Params Params `toml:"params" yaml:"params"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Agents:  1000,
		Width:   400,
		Height:  300,
		Seed:    1337,
		Backend: BackendGrid,
		Params: Params{
			DecayRate:      0.04,
			MaxSpeed:       100,
			Attraction:     1,
			SensorAngle:    45,
			SensorDistance: 6,
			AgentSize:      1,
			PointerBoost:   4,
			PointerJitter:  45,
			Channel:        ChannelAlpha,
			Reflection:     ReflectMirror,
			Color:          "#ffffff",
		},
	}
}

// Validate rejects configurations the world cannot run.
func (c Config) Validate() error {
	p := c.Params
	switch {
	case c.Agents <= 0:
		return invalid("agents must be positive, got %d", c.Agents)
	case c.Width <= 0 || c.Height <= 0:
		return invalid("field size must be positive, got %dx%d", c.Width, c.Height)
	case !finite(p.DecayRate) || p.DecayRate < 0 || p.DecayRate > 1:
		return invalid("decay must be within [0,1], got %v", p.DecayRate)
	case !finite(p.MaxSpeed) || p.MaxSpeed <= 0:
		return invalid("max_speed must be positive, got %v", p.MaxSpeed)
	case !finite(p.Attraction) || p.Attraction <= 0:
		return invalid("attraction must be positive, got %v", p.Attraction)
	case !finite(p.SensorAngle) || p.SensorAngle < 0 || p.SensorAngle > 180:
		return invalid("sensor_angle must be within [0,180], got %v", p.SensorAngle)
	case !finite(p.SensorDistance) || p.SensorDistance < 0:
		return invalid("sensor_distance must not be negative, got %v", p.SensorDistance)
	case !finite(p.AgentSize) || p.AgentSize <= 0:
		return invalid("size must be positive, got %v", p.AgentSize)
	case !finite(p.PointerBoost) || p.PointerBoost < 0:
		return invalid("boost must not be negative, got %v", p.PointerBoost)
	case !finite(p.PointerJitter) || p.PointerJitter < 0 || p.PointerJitter > 180:
		return invalid("jitter must be within [0,180], got %v", p.PointerJitter)
	}
	switch c.Backend {
	case BackendGrid, BackendCanvas:
	default:
		return invalid("unknown backend %q", c.Backend)
	}
	switch p.Channel {
	case ChannelAlpha, ChannelRGB:
	default:
		return invalid("unknown channel %q", p.Channel)
	}
	switch p.Reflection {
	case ReflectMirror, ReflectAxis:
	default:
		return invalid("unknown reflection %q", p.Reflection)
	}
	if _, err := ParseColor(p.Color); err != nil {
		return invalid("color: %v", err)
	}
	return nil
}

// ParseColor accepts #rrggbb, #rrggbbaa, white and black.
func ParseColor(s string) (color.RGBA, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white":
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}, nil
	case "black":
		return color.RGBA{A: 255}, nil
	}
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("expected #rrggbb or #rrggbbaa, got %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// sensorOffsets returns the left, center and right offsets for angle.
func (p Params) sensorOffsets() [3]float64 {
	return [3]float64{-p.SensorAngle, 0, p.SensorAngle}
}

func (p Params) color() color.RGBA {
	c, err := ParseColor(p.Color)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return c
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
