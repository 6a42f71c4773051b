package main

import (
	"errors"
	"fmt"
	"os"

	"cryptotx/internal/app"
	"cryptotx/internal/config"
	"cryptotx/internal/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	if err := app.New(cfg, log, os.Stdout).Run(os.Args[1:]); err != nil {
		if !errors.Is(err, app.ErrUsage) {
			log.Error("command failed", zap.Error(err))
		}
		fmt.Fprintln(os.Stderr, err)
		_ = log.Sync()
		os.Exit(1)
	}
}
