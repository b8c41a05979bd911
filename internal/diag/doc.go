// Package diag defines the diagnostic model shared by the reader phases.
//
// Diagnostic is the central record: Severity, Code, Message, a Primary span
// and optional Notes pointing at related source locations. Phases emit
// diagnostics through a Reporter (usually a BagReporter) and never format
// them; rendering lives in internal/diagfmt.
//
// Codes are grouped by phase: LEX1xxx (lexer), SYN2xxx (structure builder),
// IO4xxx (source loading) and OBS6xxx (observability).
package diag
