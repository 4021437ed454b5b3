package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/samvad-welcome-bot/internal/app"
	"github.com/samvad-hq/samvad-welcome-bot/internal/config"
	"github.com/samvad-hq/samvad-welcome-bot/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "welcomebot start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	_, err = logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("welcomebot starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := app.NewBot(ctx, cfg, logger.Std{})
	if err != nil {
		logger.ErrorObj("failed to initialize bot", "error", err)
		return err
	}

	if err := bot.Run(ctx); err != nil {
		return fmt.Errorf("bot run: %w", err)
	}

	return nil
}
