package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/wallclimb/logger"
	"github.com/milk9111/wallclimb/sim"
)

func main() {
	debug := flag.Bool("debug", false, "draw probe traces and log at debug level")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	prefab := flag.String("prefab", "character", "character prefab in prefabs/ (.yaml optional)")
	world := flag.String("world", string(sim.WorldBox), "collision world: box or planar")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	cfg := logger.DefaultConfig()
	if *debug {
		cfg = logger.DevelopmentConfig()
	}
	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	kind, err := sim.ParseWorldKind(*world)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("wallclimb")

	game, err := NewGame(*prefab, kind, *debug, zl)
	if err != nil {
		log.Fatal(err)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
