package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fslick/fundamentals-yf/internal/di"
	"github.com/fslick/fundamentals-yf/pkg/config"
	"github.com/fslick/fundamentals-yf/pkg/server"
	"github.com/fslick/fundamentals-yf/pkg/util"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path (empty for defaults)")
	mode := flag.String("mode", server.ModeBatch, "run mode: batch or serve")
	symbols := flag.String("symbols", "", "comma separated symbols, overrides batch.symbols")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s mode=%s provider=%s", cfg.Environment, *mode, cfg.Provider.BaseURL)

	// Wire DI: Initialize all dependencies
	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = app.Run(ctx, *mode, util.SplitSymbols(*symbols))
	stop()
	cleanup()

	if err != nil {
		if errors.Is(err, server.ErrAllFailed) {
			log.Printf("no report produced: %v", err)
		} else {
			log.Printf("app error: %v", err)
		}
		os.Exit(1)
	}
}
