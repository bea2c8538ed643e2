package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"physarum/internal/config"
	"physarum/internal/core"
	"physarum/internal/logging"
	"physarum/internal/sims/physarum"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "physarum-bench",
		Short: "Run physarum trail simulations without a window",
		Long: `physarum-bench steps the trail simulation headlessly.

Use it to time a configuration, render its final field to a PNG, or sweep
parameters and rank the results by trail coverage.

Examples:
  physarum-bench run --ticks 1200 --out field.png
  physarum-bench run --params "cells=3000&resolution=800"
  physarum-bench sweep --axis decay=0.01,0.04,0.1 --axis attraction=1,2
  physarum-bench defaults physarum.toml`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "TOML or YAML config file")
	rootCmd.PersistentFlags().String("params", "", "startup overrides, e.g. cells=1000&decay=0.05")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: info, debug or trace")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newDefaultsCmd(),
	)
	return rootCmd
}

// loadConfig resolves the persistent --config and --params flags.
func loadConfig(cmd *cobra.Command) (physarum.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	params, _ := cmd.Flags().GetString("params")
	cfg, err := config.Resolve(path, params, core.Size{})
	if err != nil {
		return physarum.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults <file.toml|file.yaml>",
		Short: "Write the resolved configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			level, _ := cmd.Flags().GetString("log-level")
			logging.NewLogger(level, cmd.ErrOrStderr()).Info("config written", "path", args[0])
			return nil
		},
	}
}
