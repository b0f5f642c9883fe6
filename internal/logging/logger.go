package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a configured logger writing to stdout and a rotating log
// file. The file is capped at 5 MB with 5 rotations kept, and backs the
// /api/logs endpoint.
func NewLogger(level, logFile string) *logrus.Logger {
	logger := logrus.New()

	rotating := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 5,
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, rotating))
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Parse log level
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}
