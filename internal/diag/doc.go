// Package diag defines the diagnostic model shared by all compilation phases.
//
// A Bag is the diagnostic context of one compilation unit: it is created when
// the unit starts, every validating step reports into it through a Reporter,
// and it is consumed once at the end. A Bag holding any error makes the unit
// fail (Bag.Err wraps ErrFailed) even when later phases would succeed.
//
// # Data model
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form: LEX1xxx lexing, SYN2xxx directive and Go syntax, ATR3xxx attribute
//     shape and types, DCL4xxx declarations, IO5xxx files, PRJ6xxx project.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – optional secondary spans, e.g. "first defined here".
//
// Package diag does not format anything for terminals; rendering lives in
// internal/diagfmt. FormatShortDiagnostics is the one exception, kept here so
// tests of every phase can compare stable one-line output.
//
// Bags are not safe for concurrent use. The driver creates one Bag per unit
// and merges them after the unit is done.
package diag
