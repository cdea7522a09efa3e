package gom

import "log/slog"

var logger *slog.Logger

// Logger returns the logger used by the object model. It defaults to
// slog.Default().
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// SetLogger replaces the logger used by the object model.
func SetLogger(l *slog.Logger) {
	logger = l
}

// TagLogger returns a logger whose records carry the given subsystem tag,
// e.g. "MeshGrob::smooth" or "GOMLua".
func TagLogger(tag string) *slog.Logger {
	return Logger().With("tag", tag)
}
