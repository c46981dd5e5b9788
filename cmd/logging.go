package cmd

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging redirects the standard logger to a rotating file. It returns nil when path is empty.
func setupLogging(path string) io.Closer {
	if path == "" {
		return nil
	}

	logger := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	log.SetOutput(logger)
	return logger
}
