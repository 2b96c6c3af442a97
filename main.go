package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/ia-solution/cybercrim/internal/config"
	"github.com/ia-solution/cybercrim/internal/scanner"
	"github.com/ia-solution/cybercrim/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	registry := scanner.NewRegistry()
	srv := server.New(cfg, registry)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
