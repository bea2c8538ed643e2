//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"physarum/internal/app"
	"physarum/internal/core"
	"physarum/internal/input"
	"physarum/internal/logging"
	"physarum/internal/sims/physarum"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := logging.NewLogger(cfg.LogLevel, os.Stderr)

	mw, mh := ebiten.ScreenSizeInFullscreen()
	viewport := core.Size{W: mw, H: mh}
	worldCfg, err := cfg.World(viewport)
	if err != nil {
		log.Fatal(err)
	}

	pointer := input.NewTracker()
	world, err := physarum.New(worldCfg,
		physarum.WithPointer(pointer),
		physarum.WithClock(cfg.Clock()),
		physarum.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}

	scale := cfg.FitScale(worldCfg.Width, viewport)
	game := app.New(world, pointer, scale, cfg.TPS, cfg.HUD, logger)

	ebiten.SetWindowTitle("physarum")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(game.WindowSize())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
