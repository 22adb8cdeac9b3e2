package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileLoggerConfig holds configuration for file-based logging
type FileLoggerConfig struct {
	Filename   string `json:"filename"`
	MaxSize    int    `json:"max_size"`    // megabytes
	MaxBackups int    `json:"max_backups"` // number of backup files
	MaxAge     int    `json:"max_age"`     // days
	Compress   bool   `json:"compress"`    // compress backup files
}

// DefaultFileLoggerConfig rotates the log file at 10 MB. MaxBackups and
// MaxAge are 0, which lumberjack treats as "no limit": every rotated file
// is kept and none is removed by age.
func DefaultFileLoggerConfig(logsDir string) FileLoggerConfig {
	return FileLoggerConfig{
		Filename:   filepath.Join(logsDir, "monitor.log"),
		MaxSize:    10,
		MaxBackups: 0,
		MaxAge:     0,
		Compress:   false,
	}
}

// SetupFileLogger configures the global logger with file output and disk space optimization
func SetupFileLogger(config FileLoggerConfig) error {
	logDir := filepath.Dir(config.Filename)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	fileLogger := &lumberjack.Logger{
		Filename:   config.Filename,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}

	multiWriter := io.MultiWriter(os.Stdout, fileLogger)
	log.SetOutput(multiWriter)

	log.Printf("file logging configured: %s (max_size: %dMB, max_backups: %d, max_age: %d days, compress: %t)",
		config.Filename, config.MaxSize, config.MaxBackups, config.MaxAge, config.Compress)

	return nil
}

// GetLogFileSize returns the current size of the main log file in bytes
func GetLogFileSize(filename string) (int64, error) {
	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	return info.Size(), nil
}
