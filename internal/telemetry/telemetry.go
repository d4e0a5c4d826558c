// Package telemetry wraps a package-level logrus logger with the
// stdio-ownership discipline an MCP server needs: when the process is
// serving MCP over stdio, log output must never touch stdout/stderr
// because the transport owns those streams exclusively.
package telemetry

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu     sync.Mutex
	logger = logrus.New()
	file   *os.File
)

func init() {
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Logger returns the shared logger; callers add fields with
// logger.WithField rather than formatting their own prefixes.
func Logger() *logrus.Logger { return logger }

// SetLevel parses one of spec.md §6's DEBUG/INFO/WARNING/ERROR/CRITICAL
// levels into the nearest logrus level.
func SetLevel(level string) {
	switch level {
	case "DEBUG":
		logger.SetLevel(logrus.DebugLevel)
	case "INFO":
		logger.SetLevel(logrus.InfoLevel)
	case "WARNING":
		logger.SetLevel(logrus.WarnLevel)
	case "ERROR":
		logger.SetLevel(logrus.ErrorLevel)
	case "CRITICAL":
		logger.SetLevel(logrus.FatalLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
}

// EnterMCPMode redirects log output to a file under persistDir instead
// of stderr, since the MCP stdio transport owns stdio exclusively once
// serve() starts talking the protocol. Returns the log file path.
func EnterMCPMode(persistDir string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(persistDir, 0o755); err != nil {
		return "", err
	}
	logPath := filepath.Join(persistDir, "codeloom.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", err
	}
	file = f
	logger.SetOutput(f)
	return logPath, nil
}

// Close flushes and closes the redirected log file, if one is open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	logger.SetOutput(os.Stderr)
	return err
}
