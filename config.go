package gom

import "log/slog"

// Config holds the process-wide settings applied by Init.
type Config struct {
	// Logger receives every record of the object model and the script
	// bridges. If nil, slog.Default() is used.
	Logger *slog.Logger

	// FPTraps enables floating point trap checks (see CheckFloat) outside of
	// native/script boundary crossings.
	FPTraps bool
}
