package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/zonemusic/logging"
	"github.com/milk9111/zonemusic/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging and the voice overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	zonesFile := flag.String("zones", prefabs.ZonesFile, "zone preset file in prefabs/")
	watch := flag.Bool("watch", false, "reload zones when prefab files change on disk")
	flag.Parse()

	logger := logging.Setup(*debug)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("zonemusic")

	game, err := NewGame(Options{
		ZonesFile: *zonesFile,
		Watch:     *watch,
		Debug:     *debug,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create game")
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal().Err(err).Msg("run game")
	}
}
