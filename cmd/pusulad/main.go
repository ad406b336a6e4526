// Command pusulad serves crop recommendations over HTTP, streaming
// Gemini's answer to clients as it is generated.
//
// Usage:
//
//	GEMINI_API_KEY=gk-... pusulad [flags]
//
// Flags:
//
//	-config string    Path to a config file (yaml, json or toml)
//	-env-file string  Path to a .env file (default: .env, optional)
//
// Every setting can also be given as an environment variable with the
// PUSULA_ prefix, e.g. PUSULA_ADDR=:8080 or PUSULA_LOG_LEVEL=debug.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fwojciec/pusula/gemini"
	pusulagin "github.com/fwojciec/pusula/gin"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pusulad: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile = flag.String("config", "", "Path to a config file")
		envFile    = flag.String("env-file", defaultEnvFile, "Path to a .env file")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFile, *envFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gin.SetMode(gin.ReleaseMode)

	client, err := gemini.New(ctx, cfg.GeminiAPIKey, gemini.WithModel(cfg.Model))
	if err != nil {
		return fmt.Errorf("gemini: %w", err)
	}

	srv := pusulagin.NewServer(client,
		pusulagin.WithLogger(logger),
		pusulagin.WithMaxBodyBytes(cfg.MaxBodyBytes),
		pusulagin.WithAllowedOrigins(cfg.AllowedOrigins...),
	)
	if err := srv.Open(cfg.Addr); err != nil {
		return err
	}
	logger.Info().Str("model", client.Model()).Msg("ready")

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	return srv.Close()
}
