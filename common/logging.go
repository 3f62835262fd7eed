// Package common holds shared service plumbing: logger setup and build
// metadata.
package common

import (
	"log/slog"
	"os"
)

// PackageName identifies the service in metrics and logs.
const PackageName = "key-weaver"

// Version is the service version, overridable at build time via
// -ldflags "-X github.com/otherview/key-weaver/common.Version=...".
var Version = "dev"

// LoggingOpts configures SetupLogger.
type LoggingOpts struct {
	// Debug enables debug-level logging.
	Debug bool

	// JSON switches from text to JSON output.
	JSON bool

	// Service is added as a "service" attribute on all records when set.
	Service string

	// Version is added as a "version" attribute on all records when set.
	Version string
}

// SetupLogger creates the process logger writing to stderr.
func SetupLogger(opts *LoggingOpts) *slog.Logger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	if opts.Service != "" {
		logger = logger.With("service", opts.Service)
	}
	if opts.Version != "" {
		logger = logger.With("version", opts.Version)
	}
	return logger
}
