package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/colindelotavo/chatgpt-cli/internal/config"
	"github.com/colindelotavo/chatgpt-cli/internal/logger"
)

func main() {
	// Config is not resolved yet, so this logger uses the default level.
	boot := logger.New(logger.Config{Pretty: true, Output: os.Stderr})

	// .env first so the API key is visible to config.Load.
	loadDotenv(boot)

	// Ctrl-C / SIGTERM cancels the in-flight request.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(defaultDeps())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadDotenv applies .env files; a broken file is logged and otherwise ignored.
func loadDotenv(log zerolog.Logger, files ...string) {
	if err := config.LoadDotenv(files...); err != nil {
		log.Warn().Err(err).Msg("dotenv not applied")
	}
}
