package utils

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sync"

	"routine-guard/internal/types"

	"github.com/sirupsen/logrus"
)

var (
	logFileMu sync.Mutex
	logFile   *os.File
)

// syncWriter wraps an io.Writer with synchronization so concurrent goroutines
// cannot interleave log entries.
type syncWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

func (sw *syncWriter) Write(p []byte) (n int, err error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.writer.Write(p)
}

// flushWriter wraps a buffered writer and flushes after each write so entries
// are immediately visible in the file. Not thread-safe on its own; must be
// wrapped by syncWriter.
type flushWriter struct {
	file   *os.File
	writer *bufio.Writer
}

func newFlushWriter(file *os.File) *flushWriter {
	return &flushWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}
}

func (fw *flushWriter) Write(p []byte) (n int, err error) {
	n, err = fw.writer.Write(p)
	if err != nil {
		return n, err
	}
	return n, fw.writer.Flush()
}

// SetupLogger configures the global logrus logger from the log configuration.
func SetupLogger(configManager types.ConfigManager) {
	logConfig := configManager.GetLogConfig()

	level, err := logrus.ParseLevel(logConfig.Level)
	if err != nil {
		logrus.Warn("Invalid log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if logConfig.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if logConfig.EnableFile {
		logDir := filepath.Dir(logConfig.FilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			logrus.Warnf("Failed to create log directory: %v", err)
			return
		}
		file, err := os.OpenFile(logConfig.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			logrus.Warnf("Failed to open log file: %v", err)
			return
		}

		logFileMu.Lock()
		logFile = file
		logFileMu.Unlock()

		var fileWriter io.Writer
		// Only flush eagerly in debug/trace mode; plain file writes are
		// cheaper for the common case.
		if level == logrus.DebugLevel || level == logrus.TraceLevel {
			fileWriter = newFlushWriter(file)
		} else {
			fileWriter = file
		}
		logrus.SetOutput(&syncWriter{
			writer: io.MultiWriter(os.Stdout, fileWriter),
		})
	}
}

// CloseLogger releases the log file handle, if one was opened.
func CloseLogger() {
	logFileMu.Lock()
	defer logFileMu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
