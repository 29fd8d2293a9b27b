// Package httpserver wraps http.Server with listen address validation and a
// context-driven graceful shutdown.
package httpserver
