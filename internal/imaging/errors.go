package imaging

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is:
//
//	if errors.Is(err, imaging.ErrUsage) { ... }
var (
	// ErrDecode reports malformed or unsupported image bytes, a failed read,
	// or a preview surface that could not be prepared.
	ErrDecode = errors.New("decode error")

	// ErrSurface reports an off-screen surface that could not be allocated
	// or drawn.
	ErrSurface = errors.New("surface error")

	// ErrEncode reports a failure while re-decoding or re-encoding an
	// existing result during format conversion.
	ErrEncode = errors.New("encode error")

	// ErrUsage reports an operation invoked before its precondition holds.
	ErrUsage = errors.New("usage error")
)

// Error carries the kind of failure, the operation that failed and the
// underlying cause.
type Error struct {
	Kind error
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool { return target == e.Kind }

func newError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// DecodeError wraps err as an ErrDecode failure of op.
func DecodeError(op string, err error) error { return newError(ErrDecode, op, err) }

// SurfaceError wraps err as an ErrSurface failure of op.
func SurfaceError(op string, err error) error { return newError(ErrSurface, op, err) }

// EncodeError wraps err as an ErrEncode failure of op.
func EncodeError(op string, err error) error { return newError(ErrEncode, op, err) }

// UsageError returns an ErrUsage failure of op with a formatted message.
func UsageError(op, format string, args ...interface{}) error {
	return newError(ErrUsage, op, fmt.Errorf(format, args...))
}
