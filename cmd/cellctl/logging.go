package main

import (
	"io"
	"os"
	"strings"
	"time"

	gethlog "github.com/ethereum/go-ethereum/log"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const envLogLevel = "TVMCELL_LOG_LEVEL"

// initLogger installs the global console logger. At trace level the
// library's placement records are written to w as well.
func initLogger(w io.Writer) zerolog.Logger {
	level, ok := parseLevel(os.Getenv(envLogLevel))
	if !ok {
		level = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).Level(level).With().Timestamp().Str("app", "cellctl").Logger()
	log.Logger = logger

	if level == zerolog.TraceLevel {
		gethlog.SetDefault(gethlog.NewLogger(gethlog.NewTerminalHandlerWithLevel(w, gethlog.LevelTrace, false)))
	}
	return logger
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
