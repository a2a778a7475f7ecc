// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Service string
	Env     string
	Level   string
	// Out defaults to stderr.
	Out io.Writer
}

// New builds the logger, installs it as log.Logger and returns it.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Env == "dev" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.SetGlobalLevel(ParseLevel(opts.Level))
	zerolog.TimeFieldFormat = time.RFC3339Nano

	base := zerolog.New(out).With().
		Timestamp().
		Str("service", opts.Service).
		Str("env", opts.Env).
		Logger()

	log.Logger = base
	return base
}

func ParseLevel(lvl string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
