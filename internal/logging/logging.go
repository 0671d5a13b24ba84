// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	stdlog "log"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Livecast/internal/config"
)

// Init replaces the global logger. Pretty output goes through ConsoleWriter,
// otherwise one JSON object per line. Stdlib log is bridged into zerolog.
func Init(cfg config.LogConfig) {
	Setup(os.Stderr, cfg)
}

func Setup(out io.Writer, cfg config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger.With().Str("source", "stdlog").Logger())
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
