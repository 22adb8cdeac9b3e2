package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// Logger is the global structured logger instance
	Logger zerolog.Logger

	initialized bool
)

func init() {
	initStructuredLogger()
}

// initStructuredLogger initializes the structured logger with this daemon's defaults.
func initStructuredLogger() {
	zerolog.TimeFieldFormat = time.RFC3339

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
		NoColor:    false,
	}

	Logger = zerolog.New(consoleWriter).
		With().
		Timestamp().
		Str("service", "ai-stack-monitor").
		Logger()

	initialized = true
}

// LogAPIRequest logs API requests with structured fields
func LogAPIRequest(requestID, method, path string, statusCode int, duration time.Duration) {
	Logger.Info().
		Str("component", "api").
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status_code", statusCode).
		Dur("duration", duration).
		Msg("API request completed")
}

// LogProbeResult logs the outcome of a single HTTP health probe.
func LogProbeResult(service, status string, responseTimeMs int64, reason string) {
	event := Logger.Info().
		Str("component", "probe").
		Str("service", service).
		Str("status", status)
	if responseTimeMs > 0 {
		event = event.Int64("response_time_ms", responseTimeMs)
	}
	if reason != "" {
		event = event.Str("reason", reason)
	}
	event.Msg("probe completed")
}

// LogCollectionCycle logs one pass of the collection scheduler.
func LogCollectionCycle(cycle int, serviceCount int, duration time.Duration) {
	Logger.Info().
		Str("component", "scheduler").
		Int("cycle", cycle).
		Int("services", serviceCount).
		Dur("duration", duration).
		Msg("collection cycle completed")
}

// LogReconcile logs an nginx upstream reconciliation decision.
func LogReconcile(service, upstream, target string, reloaded bool) {
	Logger.Info().
		Str("component", "reconciler").
		Str("service", service).
		Str("upstream", upstream).
		Str("target", target).
		Bool("reloaded", reloaded).
		Msg("upstream reconciled")
}

// LogConfigLoad logs configuration loading events
func LogConfigLoad(configType, path string, success bool, errorMsg string) {
	event := Logger.Info().
		Str("component", "config").
		Str("config_type", configType).
		Str("path", path).
		Bool("success", success)

	if !success && errorMsg != "" {
		event = event.Str("error", errorMsg)
	}

	event.Msg("configuration loaded")
}

// Info logs an info message (backward compatible)
func Info(format string, args ...interface{}) {
	if initialized {
		Logger.Info().Msgf(format, args...)
	} else {
		log.Info().Msgf(format, args...)
	}
}

// Warn logs a warning message (backward compatible)
func Warn(format string, args ...interface{}) {
	if initialized {
		Logger.Warn().Msgf(format, args...)
	} else {
		log.Warn().Msgf(format, args...)
	}
}

// Error logs an error message (backward compatible)
func Error(format string, args ...interface{}) {
	if initialized {
		Logger.Error().Msgf(format, args...)
	} else {
		log.Error().Msgf(format, args...)
	}
}

// Debug logs a debug message (backward compatible)
func Debug(format string, args ...interface{}) {
	if initialized {
		Logger.Debug().Msgf(format, args...)
	} else {
		log.Debug().Msgf(format, args...)
	}
}

// Fatal logs a fatal message and exits (backward compatible)
func Fatal(format string, args ...interface{}) {
	if initialized {
		Logger.Fatal().Msgf(format, args...)
	} else {
		log.Fatal().Msgf(format, args...)
	}
}

