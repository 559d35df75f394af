package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NeuralTrust/ToxiGuard/pkg/config"
	"github.com/sirupsen/logrus"
)

const fileBufferSize = 32 * 1024

// NewLogger builds the JSON logger. When a log file is configured, records go to an async
// buffered file writer and are mirrored to stdout through ConsoleHook. The returned func
// flushes and closes the file.
func NewLogger(cfg config.LoggingConfig) (*logrus.Logger, func(), error) {
	logger := logrus.New()

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(parseLevel(cfg.Level))

	if cfg.File == "" {
		logger.SetOutput(os.Stdout)
		return logger, func() {}, nil
	}

	logFile := filepath.Clean(cfg.File)
	if strings.Contains(logFile, "..") {
		return nil, nil, fmt.Errorf("invalid log file path %q", cfg.File)
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	asyncWriter, err := NewAsyncFileWriter(logFile, fileBufferSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize async log writer: %w", err)
	}

	logger.SetOutput(asyncWriter)
	logger.AddHook(NewConsoleHook(os.Stdout))

	return logger, asyncWriter.Close, nil
}

func parseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
