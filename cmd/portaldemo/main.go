package main

import (
	"flag"
	"log"

	"github.com/akmonengine/warp"
	"github.com/akmonengine/warp/config"
	"github.com/akmonengine/warp/internal/logging"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "yaml config file, reloaded on change")
	logLevel := flag.String("log", "", "log level, overrides the config file")
	width := flag.Int("w", 1280, "window width")
	height := flag.Int("h", 720, "window height")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}

	service := &screenService{width: *width, height: *height}
	world, err := warp.NewWorld(cfg, logger, service)
	if err != nil {
		logger.Fatal("world", zap.Error(err))
	}
	service.world = world
	defer world.Shutdown()

	if err := buildScene(world); err != nil {
		logger.Fatal("scene", zap.Error(err))
	}

	var watcher *config.Watcher
	if *configPath != "" {
		watcher, err = config.NewWatcher(*configPath, logger)
		if err != nil {
			logger.Warn("config hot reload disabled", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	ebiten.SetWindowSize(*width, *height)
	ebiten.SetWindowTitle("portaldemo")

	game := NewGame(world, watcher, logger, *width, *height)
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game stopped", zap.Error(err))
	}
}
