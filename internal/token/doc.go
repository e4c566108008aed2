// Package token defines the token kinds of jsonerr directive arguments.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Directive arguments live inside a single line comment, so there is no
//     trivia other than spaces and tabs, and the lexer drops it.
//   - Keywords do not exist: `request`, `internal`, `status` and friends are
//     identifiers, recognised by the attribute parser.
package token
