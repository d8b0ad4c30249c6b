package logger

import "log/slog"

// Attribute helpers keep key names consistent across packages.

// Error records an error under the conventional "error" key.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// Component names the emitting component.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Email records the identity a log line concerns.
func Email(email string) slog.Attr {
	return slog.String("email", email)
}
