// Package token defines lexical token kinds for the desmir front end.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - A lone '=' is a single Eq token; whether it means definition or
//     comparison is decided by the parser, not the lexer.
//   - Builtin function names (sin, length, ...) are identifiers. They are
//     recognized during lowering, not by the lexer.
package token
