package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates which part of the library rejected the operation
type Phase string

const (
	PhaseBuffer  Phase = "buffer"  // core storage, growth, lock
	PhaseEncode  Phase = "encode"  // instruction encoding
	PhaseCompose Phase = "compose" // merge, clone, copy, append-raw
	PhaseEdit    Phase = "edit"    // positional insert/remove/read
	PhaseSink    Phase = "sink"    // writing a stream out
	PhaseConfig  Phase = "config"  // librender.toml loading
	PhaseScript  Phase = "script"  // instruction script decoding
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindLocked          Kind = "locked"
	KindAllocation      Kind = "allocation"
	KindOutOfRange      Kind = "out_of_range"
	KindEmptyField      Kind = "empty_field"
	KindFieldTooLong    Kind = "field_too_long"
	KindUnknownOpcode   Kind = "unknown_opcode"
	KindIO              Kind = "io"
	KindShortWrite      Kind = "short_write"
	KindInvalidData     Kind = "invalid_data"
)

// Sentinels for errors.Is. They carry no phase and match an error of the
// same kind from any package.
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrLocked          = &Error{Kind: KindLocked}
	ErrAllocation      = &Error{Kind: KindAllocation}
	ErrOutOfRange      = &Error{Kind: KindOutOfRange}
	ErrEmptyField      = &Error{Kind: KindEmptyField}
	ErrFieldTooLong    = &Error{Kind: KindFieldTooLong}
	ErrUnknownOpcode   = &Error{Kind: KindUnknownOpcode}
	ErrIO              = &Error{Kind: KindIO}
	ErrShortWrite      = &Error{Kind: KindShortWrite}
	ErrInvalidData     = &Error{Kind: KindInvalidData}
)

// Error is the structured error type returned by every librender package
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &Error{Kind: kind})
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the name of the rejected operation
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Path sets the location path (e.g. "steps", "3", "args")
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NilBuffer creates the error returned when an operation receives an absent buffer
func NilBuffer(phase Phase, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Op:     op,
		Detail: "nil buffer",
	}
}

// Locked creates the error returned when a locked buffer is mutated
func Locked(phase Phase, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLocked,
		Op:     op,
		Detail: "buffer is locked",
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, op string, requested, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Op:     op,
		Detail: fmt.Sprintf("cannot grow to %d bytes (limit %d)", requested, limit),
		Value:  requested,
	}
}

// OutOfRange creates an index out of range error
func OutOfRange(phase Phase, op string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Op:     op,
		Detail: fmt.Sprintf("index %d out of range (length %d)", index, length),
		Value:  index,
	}
}

// InvalidArgument creates an invalid argument error
func InvalidArgument(phase Phase, op, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Op:     op,
		Detail: detail,
	}
}

// EmptyField creates the error for a required field with zero length
func EmptyField(op, field string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindEmptyField,
		Op:     op,
		Path:   []string{field},
		Detail: "required field is empty",
	}
}

// FieldTooLong creates the error for a field that does not fit a one-byte length prefix
func FieldTooLong(op, field string, length, limit int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindFieldTooLong,
		Op:     op,
		Path:   []string{field},
		Detail: fmt.Sprintf("field length %d exceeds %d", length, limit),
		Value:  length,
	}
}

// UnknownOpcode creates an unknown opcode error
func UnknownOpcode(phase Phase, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownOpcode,
		Detail: fmt.Sprintf("unknown opcode %v", value),
		Value:  value,
	}
}

// IO wraps a failure of the underlying destination
func IO(phase Phase, op, target string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Op:     op,
		Detail: strconv.Quote(target),
		Cause:  cause,
	}
}

// ShortWrite creates the error for a destination that accepted fewer bytes than given
func ShortWrite(phase Phase, op string, written, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShortWrite,
		Op:     op,
		Detail: fmt.Sprintf("wrote %d of %d bytes", written, want),
		Value:  written,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns a copy of err with path prepended to its location.
// Errors that are not *Error are wrapped as invalid data in the given phase.
func WithPath(phase Phase, err error, path ...string) *Error {
	var e *Error
	if !stderrors.As(err, &e) {
		return &Error{
			Phase: phase,
			Kind:  KindInvalidData,
			Path:  path,
			Cause: err,
		}
	}
	out := *e
	out.Path = append(append([]string{}, path...), e.Path...)
	return &out
}
