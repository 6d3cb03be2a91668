package main

import (
	"context"
	"flag"

	"sephora/crawler/internal/config"
	"sephora/crawler/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	mode := flag.String("mode", "scrape", "Run mode: 'scrape', 'replay' or 'load'")
	flag.Parse()

	log.Info("Starting Sephora catalog crawler...")

	// Load configuration using viper
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Info("Configuration loaded successfully")

	// Initialize container with all dependencies
	app, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	ctx := context.Background()

	switch *mode {
	case "scrape":
		err = app.Scrape(ctx)
	case "replay":
		err = app.Replay(ctx)
	case "load":
		err = app.Load(ctx)
	default:
		log.Fatalf("Unknown mode: %s", *mode)
	}

	if err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}

	log.Info("Application finished successfully")
}
