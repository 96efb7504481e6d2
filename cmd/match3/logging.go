package main

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	logDir      = "logs"
	logFileName = "match3.log"
)

// setupLogging returns a file logger when debug is set, otherwise a no-op logger
// The terminal owns stdout, so logs never go to the console
func setupLogging(debug bool) (zerolog.Logger, *os.File) {
	if !debug {
		return zerolog.Nop(), nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return zerolog.Nop(), nil
	}
	f, err := os.OpenFile(filepath.Join(logDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil
	}

	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "debug"))
	if err != nil {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(f).Level(lvl).With().Timestamp().Logger(), f
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
