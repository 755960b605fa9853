package types

import "errors"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat      ErrKind = iota // malformed table layout (bad header, bad counts)
	ErrKindCorrupt                    // structural corruption (offsets past the end)
	ErrKindUnsupported                // valid feature we don't support (yet)
	ErrKindNotFound                   // missing table, variant or manipulation
	ErrKindInvalid                    // key combination that can never exist
	ErrKindRange                      // value outside the field's permitted range
	ErrKindState                      // invalid operation for current state
)

// String returns a short lowercase name for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindCorrupt:
		return "corrupt"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindNotFound:
		return "not found"
	case ErrKindInvalid:
		return "invalid"
	case ErrKindRange:
		return "range"
	case ErrKindState:
		return "state"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && t.Err == nil && isSentinel(t)
}

// Sentinels commonly returned by implementations.
var (
	// ErrFormat indicates a table whose header or counts do not parse.
	ErrFormat = &Error{Kind: ErrKindFormat, Msg: "malformed table"}
	// ErrCorrupt indicates non-recoverable structural inconsistency.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt table structure"}
	// ErrUnsupported indicates a recognized but unsupported feature/variant.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported table feature"}
	// ErrNotFound indicates a missing table, variant or entry.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrInvalidKey indicates a key combination that has no backing table.
	ErrInvalidKey = &Error{Kind: ErrKindInvalid, Msg: "invalid key combination"}
	// ErrOutOfRange indicates a value outside the field's permitted range.
	ErrOutOfRange = &Error{Kind: ErrKindRange, Msg: "value out of range"}
	// ErrState indicates an operation that is not valid right now.
	ErrState = &Error{Kind: ErrKindState, Msg: "invalid state"}
)

func isSentinel(e *Error) bool {
	switch e {
	case ErrFormat, ErrCorrupt, ErrUnsupported, ErrNotFound, ErrInvalidKey, ErrOutOfRange, ErrState:
		return true
	}
	return false
}

// Errorf builds a typed error of the given kind wrapping cause (may be nil).
func Errorf(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	var te *Error
	if errors.As(err, &te) && te != nil {
		return te.Kind, true
	}
	return 0, false
}

// IsKind reports whether err carries a typed error of kind k.
func IsKind(err error, k ErrKind) bool {
	kind, ok := KindOf(err)
	return ok && kind == k
}
