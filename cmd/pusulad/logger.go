package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// newLogger builds the process logger from cfg, writing to w.
func newLogger(cfg logConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	var zl zerolog.Logger
	switch strings.ToLower(cfg.Format) {
	case "console", "pretty", "":
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})
	case "json":
		zl = zerolog.New(w)
	default:
		return zerolog.Logger{}, fmt.Errorf("unknown log format %q: must be \"console\" or \"json\"", cfg.Format)
	}
	return zl.Level(level).With().Timestamp().Str("service", "pusulad").Logger(), nil
}
