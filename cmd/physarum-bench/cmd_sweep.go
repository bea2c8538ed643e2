package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"physarum/internal/logging"
	"physarum/internal/runner"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a grid of parameter values and rank them by coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rawAxes, _ := cmd.Flags().GetStringArray("axis")
			if len(rawAxes) == 0 {
				return fmt.Errorf("at least one --axis is required")
			}
			axes := make([]runner.Axis, 0, len(rawAxes))
			for _, raw := range rawAxes {
				ax, err := runner.ParseAxis(raw)
				if err != nil {
					return err
				}
				axes = append(axes, ax)
			}
			ticks, _ := cmd.Flags().GetInt("ticks")
			workers, _ := cmd.Flags().GetInt("workers")
			top, _ := cmd.Flags().GetInt("top")
			level, _ := cmd.Flags().GetString("log-level")
			jsonOut, _ := cmd.Flags().GetBool("json")

			results, err := runner.Sweep(cmd.Context(), cfg, axes, runner.Options{
				Ticks:   ticks,
				Workers: workers,
				Logger:  logging.NewLogger(level, cmd.ErrOrStderr()),
			})
			if err != nil {
				return err
			}
			if top > 0 && len(results) > top {
				results = results[:top]
			}

			w := cmd.OutOrStdout()
			if jsonOut {
				rows := make([]map[string]any, 0, len(results))
				for _, r := range results {
					rows = append(rows, map[string]any{
						"params":        r.Swept,
						"coverage":      r.Metrics.Coverage,
						"mean_strength": r.Metrics.MeanStrength,
					})
				}
				return json.NewEncoder(w).Encode(rows)
			}
			for i, r := range results {
				fmt.Fprintf(w, "%2d) coverage=%.4f strength=%.4f %s\n",
					i+1, r.Metrics.Coverage, r.Metrics.MeanStrength, formatSwept(r.Swept))
			}
			return nil
		},
	}
	cmd.Flags().StringArray("axis", nil, "swept parameter as key=v1,v2,... (repeatable)")
	cmd.Flags().Int("ticks", 300, "ticks to simulate per run")
	cmd.Flags().Int("workers", runtime.NumCPU(), "concurrent runs")
	cmd.Flags().Int("top", 10, "results to print; 0 prints all")
	return cmd
}

func formatSwept(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, m[k])
	}
	return strings.Join(parts, " ")
}
