// Package runner drives physarum worlds headlessly for benchmarks and
// parameter sweeps.
package runner

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"physarum/internal/core"
	"physarum/internal/logging"
	"physarum/internal/render"
	"physarum/internal/sims/physarum"
)

// CoverageThreshold is the alpha a pixel needs to count as covered.
const CoverageThreshold = 8

// Options controls a headless run.
type Options struct {
	// Ticks to simulate. Defaults to 600.
	Ticks int
	// TPS is the fixed tick rate; each tick advances 1/TPS seconds.
	TPS int
	// Workers bounds concurrent runs in a sweep. Defaults to NumCPU.
	Workers int
	// Snapshot keeps the final frame in the result.
	Snapshot bool
	Logger   *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Ticks <= 0 {
		o.Ticks = 600
	}
	if o.TPS <= 0 {
		o.TPS = 60
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	return o
}

// Metrics summarise the final state of a run.
type Metrics struct {
	Ticks uint64
	// Coverage is the fraction of pixels whose alpha reaches CoverageThreshold.
	Coverage float64
	// MeanStrength is the mean alpha over all pixels, scaled to [0,1].
	MeanStrength float64
	MeanSpeed    float64
}

// Result is one finished run.
type Result struct {
	Config  physarum.Config
	Swept   map[string]float64
	Metrics Metrics
	Elapsed time.Duration
	Frame   *image.RGBA
}

// Run simulates cfg for opts.Ticks fixed-rate ticks.
func Run(ctx context.Context, cfg physarum.Config, opts Options) (Result, error) {
	opts = opts.withDefaults()
	world, err := physarum.New(cfg,
		physarum.WithClock(core.NewFixedStep(opts.TPS)),
		physarum.WithLogger(opts.Logger),
	)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	for i := 0; i < opts.Ticks; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("run interrupted after %d ticks: %w", i, err)
		}
		world.Tick()
	}

	frame := render.Snapshot(world)
	res := Result{
		Config:  cfg,
		Metrics: Measure(frame, world.Stats()),
		Elapsed: time.Since(start),
	}
	if opts.Snapshot {
		res.Frame = frame
	}
	opts.Logger.Info("run finished",
		"ticks", res.Metrics.Ticks,
		"coverage", res.Metrics.Coverage,
		"elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}

// Measure computes metrics from a frame and the world stats.
func Measure(frame *image.RGBA, stats physarum.Stats) Metrics {
	m := Metrics{Ticks: stats.Ticks, MeanSpeed: stats.MeanSpeed}
	if frame == nil {
		return m
	}
	b := frame.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return m
	}
	covered, sum := 0, 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := frame.Pix[frame.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			a := int(row[4*x+3])
			sum += a
			if a >= CoverageThreshold {
				covered++
			}
		}
	}
	m.Coverage = float64(covered) / float64(total)
	m.MeanStrength = float64(sum) / float64(total) / 255
	return m
}

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Key    string
	Values []float64
}

// ParseAxis reads "key=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	key, list, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" || strings.TrimSpace(list) == "" {
		return Axis{}, fmt.Errorf("axis %q: expected key=v1,v2", s)
	}
	var ax Axis
	ax.Key = key
	for _, part := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %q: %w", s, err)
		}
		ax.Values = append(ax.Values, v)
	}
	return ax, nil
}

// Combinations expands the axes into every assignment of values.
func Combinations(axes []Axis) []map[string]float64 {
	out := []map[string]float64{{}}
	for _, ax := range axes {
		if len(ax.Values) == 0 {
			continue
		}
		next := make([]map[string]float64, 0, len(out)*len(ax.Values))
		for _, base := range out {
			for _, v := range ax.Values {
				m := make(map[string]float64, len(base)+1)
				for k, bv := range base {
					m[k] = bv
				}
				m[ax.Key] = v
				next = append(next, m)
			}
		}
		out = next
	}
	return out
}

// Sweep runs every combination of axes over base, at most opts.Workers at a
// time, and returns the results sorted by coverage, highest first. The first
// failing run cancels the rest.
func Sweep(ctx context.Context, base physarum.Config, axes []Axis, opts Options) ([]Result, error) {
	opts = opts.withDefaults()
	combos := Combinations(axes)

	configs := make([]physarum.Config, len(combos))
	for i, combo := range combos {
		cfg := base
		kv := make(map[string]string, len(combo))
		for k, v := range combo {
			kv[k] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cfg.Apply(kv, core.Size{}); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		configs[i] = cfg
	}

	opts.Logger.Info("sweep started", "runs", len(configs), "workers", opts.Workers, "ticks", opts.Ticks)
	results := make([]Result, len(configs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	runOpts := opts
	runOpts.Logger = opts.Logger.With("component", "sweep")
	for i := range configs {
		g.Go(func() error {
			res, err := Run(gctx, configs[i], runOpts)
			if err != nil {
				return err
			}
			res.Swept = combos[i]
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Metrics.Coverage > results[j].Metrics.Coverage
	})
	return results, nil
}
