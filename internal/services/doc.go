// Package services defines shared utilities consumed by the extraction
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run, session, and batch identifiers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the pipeline's error taxonomy (provider, validation, integrity,
//     configuration).
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays uniform across components.
package services
