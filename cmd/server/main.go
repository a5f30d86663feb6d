package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/toyfacade/internal/config"
	"github.com/zeusync/toyfacade/internal/core/observability/log"
	"github.com/zeusync/toyfacade/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML or JSON config file")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	a, err := injector.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building app:", err)
		os.Exit(1)
	}

	if _, err = a.PlaceTargets(); err != nil {
		a.Logger.Fatal("Failed to place targets", log.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = a.Run(ctx); err != nil {
		a.Logger.Error("Server stopped with error", log.Error(err))
		os.Exit(1)
	}
	a.Logger.Info("Server stopped")
}
