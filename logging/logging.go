// Package logging sets up the global logger.
// For this to work this package needs to be imported with the blank
// identifier.
package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// These are the log level that we support.
// We should rely on them when retrieving them from the
// environment variables.
const (
	Debug = "DEBUG"
	Info  = "INFO"
	Warn  = "WARN"
	Error = "ERROR"
)

// init initializes the logger by adding a hook to add fields in the context,
// setting the log level and formatter based on environment variables.
// If the log level is set to debug, it also sets the report caller to true to
// log the filename and line number.
func init() {
	log.AddHook(&logrusContextHook{})

	// Get log level from environment variable
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info" // Default log level
	}

	// Parse log level from string
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Fatal(err)
	}

	log.SetLevel(level)

	// Set the logging format given the value set in ENV.
	log.SetFormatter(formatterFromEnv())

	// Add this line for logging filename and line number!
	if log.StandardLogger().GetLevel() == log.DebugLevel {
		log.SetReportCaller(true)
	}
}

// formatterFromEnv returns a new formatter based on LOG_FORMAT.
func formatterFromEnv() log.Formatter {
	logFormat := os.Getenv("LOG_FORMAT")

	if logFormat == "json" {
		return &log.JSONFormatter{}
	}

	return &log.TextFormatter{}
}

type logrusContextHook struct {
}

func (hook *logrusContextHook) Levels() []log.Level {
	return log.AllLevels
}

// Fire extracts the trace ID and span ID from the log entry's context and adds
// them as fields to the log entry.
func (hook *logrusContextHook) Fire(entry *log.Entry) error {
	if entry.Context == nil {
		return nil
	}

	span := trace.SpanFromContext(entry.Context).SpanContext()

	if span.IsValid() {
		entry.Data["trace_id"] = span.TraceID().String()
		entry.Data["span_id"] = span.SpanID().String()
	}

	return nil
}
