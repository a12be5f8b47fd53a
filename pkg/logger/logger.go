package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger for one pipeline stage: console
// output on stderr, RFC3339 timestamps and a stage field on every entry.
func Init(stage, level string) {
	InitWithWriter(os.Stderr, stage, level)
}

func InitWithWriter(w io.Writer, stage, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().
		Str("stage", stage).
		Logger()
}
