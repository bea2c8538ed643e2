package physarum

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"physarum/internal/core"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	p := cfg.Params
	if p.DecayRate != 0.04 || p.MaxSpeed != 100 || p.SensorDistance != 6 || p.SensorAngle != 45 {
		t.Fatalf("unexpected defaults %+v", p)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"agents":     func(c *Config) { c.Agents = -1 },
		"width":      func(c *Config) { c.Width = 0 },
		"decay":      func(c *Config) { c.Params.DecayRate = 1.5 },
		"decay nan":  func(c *Config) { c.Params.DecayRate = math.NaN() },
		"max speed":  func(c *Config) { c.Params.MaxSpeed = 0 },
		"attraction": func(c *Config) { c.Params.Attraction = -2 },
		"angle":      func(c *Config) { c.Params.SensorAngle = 190 },
		"distance":   func(c *Config) { c.Params.SensorDistance = math.Inf(1) },
		"size":       func(c *Config) { c.Params.AgentSize = 0 },
		"jitter":     func(c *Config) { c.Params.PointerJitter = 200 },
		"backend":    func(c *Config) { c.Backend = "webgl" },
		"channel":    func(c *Config) { c.Params.Channel = "green" },
		"reflection": func(c *Config) { c.Params.Reflection = "wrap" },
		"color":      func(c *Config) { c.Params.Color = "#12" },
		"boost":      func(c *Config) { c.Params.PointerBoost = -1 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]color.RGBA{
		"#ffffff":   {R: 255, G: 255, B: 255, A: 255},
		"white":     {R: 255, G: 255, B: 255, A: 255},
		"BLACK":     {A: 255},
		"#ff000080": {R: 255, A: 128},
		"00ff00":    {G: 255, A: 255},
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseColor(%q) = %+v, want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "#fff", "#gggggg", "teal"} {
		if _, err := ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestParseStartupDefaults(t *testing.T) {
	cfg, err := ParseStartup("", core.Size{W: 1280, H: 720})
	if err != nil {
		t.Fatalf("ParseStartup: %v", err)
	}
	if cfg.Agents != 1000 || cfg.Width != 400 {
		t.Fatalf("empty startup string should keep defaults, got %d agents %d wide", cfg.Agents, cfg.Width)
	}
}

func TestParseStartupResolutionPresets(t *testing.T) {
	viewport := core.Size{W: 1200, H: 800}
	cases := []struct {
		query string
		w, h  int
	}{
		{"resolution=win", 1200, 800},
		{"?resolution=win2", 800, 533},
		{"resolution=250", 400, 267},
		{"resolution=4000", 1920, 1280},
		{"resolution=win&w=640&h=480", 640, 480},
	}
	for _, tc := range cases {
		cfg, err := ParseStartup(tc.query, viewport)
		if err != nil {
			t.Fatalf("%q: %v", tc.query, err)
		}
		if cfg.Width != tc.w || cfg.Height != tc.h {
			t.Fatalf("%q: got %dx%d, want %dx%d", tc.query, cfg.Width, cfg.Height, tc.w, tc.h)
		}
	}
}

func TestParseStartupCapsCells(t *testing.T) {
	cfg, err := ParseStartup("cells=10000", core.Size{W: 800, H: 600})
	if err != nil {
		t.Fatalf("ParseStartup: %v", err)
	}
	if cfg.Agents != MaxAgents {
		t.Fatalf("cells should cap at %d, got %d", MaxAgents, cfg.Agents)
	}
	cfg, err = ParseStartup("cells=1000&resolution=win2", core.Size{W: 1920, H: 1080})
	if err != nil {
		t.Fatalf("ParseStartup: %v", err)
	}
	if cfg.Agents != 1000 || cfg.Width != 1280 || cfg.Height != 720 {
		t.Fatalf("unexpected config %d agents %dx%d", cfg.Agents, cfg.Width, cfg.Height)
	}
}

func TestParseStartupRejects(t *testing.T) {
	for _, q := range []string{
		"cells=abc",
		"cells=0",
		"resolution=huge",
		"resolution=win",
		"bogus=1",
		"decay=2",
		"channel=blue",
		"%zz",
	} {
		if _, err := ParseStartup(q, core.Size{}); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%q: expected ErrInvalidConfig, got %v", q, err)
		}
	}
}

func TestFromMap(t *testing.T) {
	cfg, err := FromMap(map[string]string{
		"agents":     "12",
		"w":          "64",
		"h":          "48",
		"seed":       "9",
		"backend":    "Canvas",
		"reflection": "axis",
		"channel":    "rgb",
		"attraction": "2.5",
		"color":      "#ff8800",
	})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if cfg.Agents != 12 || cfg.Width != 64 || cfg.Height != 48 || cfg.Seed != 9 {
		t.Fatalf("unexpected world config %+v", cfg)
	}
	if cfg.Backend != BackendCanvas || cfg.Params.Reflection != ReflectAxis || cfg.Params.Channel != ChannelRGB {
		t.Fatalf("policies not applied: %+v", cfg)
	}
	if cfg.Params.Attraction != 2.5 || cfg.Params.Color != "#ff8800" {
		t.Fatalf("params not applied: %+v", cfg.Params)
	}
	if _, err := FromMap(map[string]string{"max_speed": "fast"}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestAgentsKeyIsCapped(t *testing.T) {
	cfg, err := FromMap(map[string]string{"agents": "100000"})
	if err != nil {
		t.Fatalf("FromMap: %v", err)
	}
	if cfg.Agents != MaxAgents {
		t.Fatalf("agents should cap at %d, got %d", MaxAgents, cfg.Agents)
	}
	cfg, err = ParseStartup("agents=5000&cells=10", core.Size{W: 800, H: 600})
	if err != nil {
		t.Fatalf("ParseStartup: %v", err)
	}
	if cfg.Agents > MaxAgents {
		t.Fatalf("startup agents escaped the cap: %d", cfg.Agents)
	}
}
