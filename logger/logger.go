// Package logger builds the zerolog logger shared by the oasgen commands.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	// Level is a zerolog level name. Unknown or empty names select info.
	Level string

	// Pretty switches to the human readable console writer.
	Pretty bool
}

// New returns a timestamped logger writing to w.
func New(cfg Config, w io.Writer) zerolog.Logger {
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
