// Package services defines shared utilities consumed by the packaging
// operations and the NuGet command runner.
//
// Key responsibilities:
//   - Context helpers that stamp operation names, pipeline stages, and
//     correlation identifiers for logging and the run journal.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified (external tool, validation, not found) without string
//     matching.
//
// Use these helpers when wiring new operations so error handling and
// observability stay uniform across the pipeline.
package services
