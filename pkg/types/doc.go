// Package types holds the typed error categories shared by every metakit
// package.
//
// Errors carry a stable ErrKind so callers can branch on intent rather than
// text:
//
//	def, err := defaults.Imc(ctx, candidate)
//	if errors.Is(err, types.ErrNotFound) {
//	    // the table does not exist; this is not a zero-valued default
//	}
//
// This package has no dependencies beyond the standard library.
package types
