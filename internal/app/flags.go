package app

import (
	"flag"

	"physarum/internal/config"
	"physarum/internal/core"
	"physarum/internal/sims/physarum"
)

// Config represents the command-line parameters for the application.
type Config struct {
	ConfigPath string
	Params     string
	Scale      int
	TPS        int
	Seed       int64
	LogLevel   string
	HUD        bool
	FixedStep  bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Scale: 2, TPS: 60, LogLevel: "info", HUD: true}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "TOML or YAML config file")
	fs.StringVar(&c.Params, "params", c.Params, "startup string, e.g. cells=1000&resolution=win2")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset; 0 keeps the configured seed")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: info, debug or trace")
	fs.BoolVar(&c.HUD, "hud", c.HUD, "show the parameter panel")
	fs.BoolVar(&c.FixedStep, "fixed-step", c.FixedStep, "advance 1/tps seconds per tick instead of wall-clock time")
}

// World resolves the simulation configuration for a viewport of the given
// size. A non-zero -seed replaces the configured seed.
func (c *Config) World(viewport core.Size) (physarum.Config, error) {
	cfg, err := config.Resolve(c.ConfigPath, c.Params, viewport)
	if err != nil {
		return physarum.Config{}, err
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	return cfg, nil
}

// FitScale lowers the scale until a field of width w fits the viewport.
func (c *Config) FitScale(w int, viewport core.Size) int {
	scale := c.Scale
	if scale < 1 {
		scale = 1
	}
	if viewport.W <= 0 {
		return scale
	}
	for scale > 1 && w*scale > viewport.W {
		scale--
	}
	return scale
}

// Clock returns the tick clock selected by the flags.
func (c *Config) Clock() core.Clock {
	if c.FixedStep {
		return core.NewFixedStep(c.TPS)
	}
	return core.NewWallClock()
}
