package physarum

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"physarum/internal/core"
)

// FromMap builds a config from flag-style key/value pairs over the defaults.
func FromMap(kv map[string]string) (Config, error) {
	c := DefaultConfig()
	if err := c.Apply(kv, core.Size{}); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// ParseStartup reads a startup string such as "cells=1000&resolution=win2".
// Resolution presets are measured against viewport. Any other key is applied
// as in FromMap.
func ParseStartup(query string, viewport core.Size) (Config, error) {
	c := DefaultConfig()
	if err := c.ApplyStartup(query, viewport); err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// ApplyStartup applies a startup string on top of c.
func (c *Config) ApplyStartup(query string, viewport core.Size) error {
	query = strings.TrimPrefix(strings.TrimSpace(query), "?")
	if query == "" {
		return nil
	}
	vals, err := url.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("%w: startup string: %v", ErrInvalidConfig, err)
	}
	kv := make(map[string]string, len(vals))
	for k, v := range vals {
		if len(v) > 0 {
			kv[k] = v[len(v)-1]
		}
	}
	return c.Apply(kv, viewport)
}

// Apply overrides fields of c from kv. Unknown keys and unparsable values are
// errors. "cells" and "agents" are capped at MaxAgents; "resolution" picks the field width
// (see ResolveResolution) and derives the height from the viewport aspect.
func (c *Config) Apply(kv map[string]string, viewport core.Size) error {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	// resolution first so explicit w/h win.
	sort.Slice(keys, func(i, j int) bool {
		if (keys[i] == "resolution") != (keys[j] == "resolution") {
			return keys[i] == "resolution"
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if err := c.set(k, strings.TrimSpace(kv[k]), viewport); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, k, kv[k], err)
		}
	}
	return nil
}

func (c *Config) set(key, v string, viewport core.Size) error {
	p := &c.Params
	switch key {
	case "cells":
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if n <= 0 {
			return fmt.Errorf("must be positive")
		}
		c.Agents = min(n, MaxAgents)
	case "agents":
		if err := setInt(&c.Agents, v); err != nil {
			return err
		}
		c.Agents = min(c.Agents, MaxAgents)
	case "resolution":
		w, err := ResolveResolution(v, viewport.W)
		if err != nil {
			return err
		}
		c.Width = w
		c.Height = heightFor(w, viewport)
	case "w":
		return setInt(&c.Width, v)
	case "h":
		return setInt(&c.Height, v)
	case "seed":
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.Seed = s
	case "backend":
		c.Backend = Backend(strings.ToLower(v))
	case "decay":
		return setFloat(&p.DecayRate, v)
	case "max_speed":
		return setFloat(&p.MaxSpeed, v)
	case "attraction":
		return setFloat(&p.Attraction, v)
	case "sensor_angle":
		return setFloat(&p.SensorAngle, v)
	case "sensor_distance":
		return setFloat(&p.SensorDistance, v)
	case "size":
		return setFloat(&p.AgentSize, v)
	case "boost":
		return setFloat(&p.PointerBoost, v)
	case "jitter":
		return setFloat(&p.PointerJitter, v)
	case "channel":
		p.Channel = Channel(strings.ToLower(v))
	case "reflection":
		p.Reflection = Reflection(strings.ToLower(v))
	case "color":
		p.Color = v
	default:
		return fmt.Errorf("unknown key")
	}
	return nil
}

// ResolveResolution maps a resolution preset to a field width: "win" is the
// viewport width, "win2" two thirds of it, and a number is taken as pixels.
// The result is clamped to [MinResolution, MaxResolution].
func ResolveResolution(preset string, viewportW int) (int, error) {
	var w float64
	switch strings.ToLower(preset) {
	case "win", "win2":
		if viewportW <= 0 {
			return 0, fmt.Errorf("preset %q needs a viewport width", preset)
		}
		w = float64(viewportW)
		if strings.EqualFold(preset, "win2") {
			w /= 1.5
		}
	default:
		n, err := strconv.Atoi(preset)
		if err != nil {
			return 0, fmt.Errorf("unknown resolution preset %q", preset)
		}
		if n <= 0 {
			return 0, fmt.Errorf("resolution must be positive, got %d", n)
		}
		w = float64(n)
	}
	w = math.Max(MinResolution, math.Min(MaxResolution, w))
	return int(w), nil
}

// heightFor keeps the viewport aspect ratio at width w, or 4:3 without a
// viewport.
func heightFor(w int, viewport core.Size) int {
	if viewport.W <= 0 || viewport.H <= 0 {
		return w * 3 / 4
	}
	h := int(math.Round(float64(viewport.H) / float64(viewport.W) * float64(w)))
	if h < 1 {
		h = 1
	}
	return h
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}
