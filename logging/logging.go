package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog for the process and installs it as the global logger.
func Setup(debug bool) zerolog.Logger {
	return SetupWithWriter(debug, os.Stderr)
}

// SetupWithWriter writes human-readable logs to out.
func SetupWithWriter(debug bool, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: out != os.Stderr}).
		With().Timestamp().Logger().Level(level)
	log.Logger = logger
	return logger
}
