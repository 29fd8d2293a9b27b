// Package logger builds the process-wide structured logger once at startup.
// Components never reach for a global logger; they receive the *slog.Logger
// built here.
package logger
