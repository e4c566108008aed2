// Package attr parses jsonerr directive arguments.
//
// ParseCase turns the arguments of one `jsonerr:case` directive into a Set or
// reports diagnostics and returns nil. Parsing is best-effort per key: every
// problem of a case is reported in one pass. ParseUnitConfig reads the
// optional `internal_code` of a `jsonerr:unit` directive and never reports.
package attr
