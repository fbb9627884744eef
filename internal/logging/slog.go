package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Indirection for tests that capture console output.
var (
	osStdout io.Writer = os.Stdout
	osPipe             = os.Pipe
)

// SlogManager manages slog-based logging with optional Graylog output.
type SlogManager struct {
	logger *slog.Logger

	// GELF writer kept for closing at shutdown
	graylog io.Writer

	// provider stamps session attributes onto every record. Set it once
	// during startup, before anything logs concurrently.
	provider ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system. Records go to the log file when one
// is given, to the console otherwise, and additionally to Graylog when a
// GELF writer is provided.
func (m *SlogManager) Setup(file io.Writer, level string, graylog io.Writer) {
	lvl := parseLevel(level)
	m.graylog = graylog

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(osStdout, handlerOpts))
	}

	// Graylog receives structured records; the GELF writer turns each
	// JSON line into one message
	if graylog != nil {
		handlers = append(handlers, slog.NewJSONHandler(graylog, handlerOpts))
	}

	multiHandler := NewMultiHandler(handlers...)

	// The provider is looked up per record, so a provider registered after
	// Setup still reaches records from every handler
	wrapped := NewContextHandler(multiHandler, func() []slog.Attr {
		if m.provider == nil {
			return nil
		}
		return m.provider()
	})

	m.logger = slog.New(wrapped)
	m.logger.Info("Logging initialized", "level", level)
}

// SetContextProvider registers the source of per-record session attributes.
func (m *SlogManager) SetContextProvider(provider ContextProvider) {
	m.provider = provider
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// WriteLog writes a log entry with the specified function name, data, and level.
// This provides backward compatibility with the old Manager interface.
func (m *SlogManager) WriteLog(functionName, data, level string) {
	if m.logger == nil {
		return
	}

	switch parseLevel(level) {
	case slog.LevelDebug:
		m.logger.Debug(data, "function", functionName)
	case slog.LevelWarn:
		m.logger.Warn(data, "function", functionName)
	case slog.LevelError:
		m.logger.Error(data, "function", functionName)
	default:
		m.logger.Info(data, "function", functionName)
	}
}

// Close releases the Graylog connection if one was configured.
func (m *SlogManager) Close() error {
	if closer, ok := m.graylog.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
