package shared

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a charm logger writing to w. format is "text" or
// "json".
func SetupLogger(w io.Writer, debug bool, format string) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	opts := log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}
	if format == "json" {
		opts.Formatter = log.JSONFormatter
		opts.TimeFormat = time.RFC3339Nano
	}
	return log.NewWithOptions(w, opts)
}

// OpenLogFile opens path for appending, or returns stderr when path is empty.
// The returned close function is always safe to call.
func OpenLogFile(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stderr, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
