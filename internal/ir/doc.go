// Package ir provides the literal value model shared by the query algebra and
// the SQL compiler.
//
// Every literal that appears in an expression tree is an IRValue. Literals are
// never inlined into SQL text: the compiler converts them to native Go values
// with ToParam and binds them as parameters.
//
// Key design constraints:
//   - NO float types anywhere - numbers are int64
//   - IRNull marks an explicit SQL NULL and is never bound as a parameter
//   - Canonical JSON (RFC 8785) is the only encoding used for fingerprints
//
// This package imports nothing internal.
package ir
