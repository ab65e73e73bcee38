// Package logging configures slog for the pipeline and centralizes the
// structured field vocabulary (component, run, session, pass, batch).
//
// Two output formats are supported: a pretty console handler for interactive
// use (color when stdout is a terminal) and line-delimited JSON for
// machine consumption. Context helpers from internal/services feed the
// standardized fields so every component logs the same keys.
package logging
