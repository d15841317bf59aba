// Package diag defines the diagnostic model shared by the decode pipeline.
//
// Diagnostic is the central record: a Severity, a numeric Code with a stable
// string form, a short Message, the Primary span (a byte range in the input
// file) and optional Notes. Producers emit through a Reporter so that storage
// stays decoupled; BagReporter collects into a Bag, which supports limits,
// sorting and deduplication.
//
// Package diag performs no formatting or IO. Rendering lives in
// internal/diagfmt; the driver owns one Bag per input file.
package diag
