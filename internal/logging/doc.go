// Package logging provides slog helpers and consistent attribute naming
// for structured logs across the command server.
package logging
