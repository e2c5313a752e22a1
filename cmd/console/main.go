package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DRSN-tech/inventory-backend/internal/app"
	config "github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

func main() {
	// stdout занят интерфейсом, логи только в stderr
	log := logger.NewSlogLoggerWithWriter(os.Stderr, slog.LevelWarn)
	config.LoadDotEnv(log)

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunConsole(ctx, cfg, log, os.Stdin, os.Stdout); err != nil {
		log.Errorf(err, "console stopped with error")
		stop()
		os.Exit(1)
	}
}
