package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"

	"physarum/internal/logging"
	"physarum/internal/render"
	"physarum/internal/runner"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one configuration and report trail metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ticks, _ := cmd.Flags().GetInt("ticks")
			tps, _ := cmd.Flags().GetInt("tps")
			out, _ := cmd.Flags().GetString("out")
			level, _ := cmd.Flags().GetString("log-level")
			jsonOut, _ := cmd.Flags().GetBool("json")

			res, err := runner.Run(cmd.Context(), cfg, runner.Options{
				Ticks:    ticks,
				TPS:      tps,
				Snapshot: out != "",
				Logger:   logging.NewLogger(level, cmd.ErrOrStderr()),
			})
			if err != nil {
				return err
			}
			if out != "" {
				if err := writePNG(out, res); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(w).Encode(map[string]any{
					"agents":        cfg.Agents,
					"width":         cfg.Width,
					"height":        cfg.Height,
					"ticks":         res.Metrics.Ticks,
					"coverage":      res.Metrics.Coverage,
					"mean_strength": res.Metrics.MeanStrength,
					"mean_speed":    res.Metrics.MeanSpeed,
					"elapsed_ms":    res.Elapsed.Milliseconds(),
				})
			}
			fmt.Fprintf(w, "%d agents on %dx%d (%s backend)\n", cfg.Agents, cfg.Width, cfg.Height, cfg.Backend)
			fmt.Fprintf(w, "ticks=%d coverage=%.4f strength=%.4f speed=%.2f elapsed=%s\n",
				res.Metrics.Ticks, res.Metrics.Coverage, res.Metrics.MeanStrength, res.Metrics.MeanSpeed,
				res.Elapsed.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().Int("ticks", 600, "ticks to simulate")
	cmd.Flags().Int("tps", 60, "fixed tick rate; each tick advances 1/tps seconds")
	cmd.Flags().String("out", "", "write the final field to this PNG file")
	return cmd
}

func writePNG(path string, res runner.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	img := render.FlattenImage(res.Frame, color.RGBA{A: 255})
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
