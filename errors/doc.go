// Package errors provides structured error types for the librender library.
//
// Errors are categorized by Phase (which component rejected the call) and Kind
// (why it was rejected). Every invalid use of a buffer or encoder is reported
// through this type.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseScript, errors.KindInvalidData).
//		Path("steps", "3", "op").
//		Value("blink").
//		Detail("unknown instruction %q", "blink").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Locked(errors.PhaseBuffer, "AppendByte")
//	err := errors.OutOfRange(errors.PhaseEdit, "RemoveByte", 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
// A target with no Phase matches any phase, which IsKind uses:
//
//	if errors.IsKind(err, errors.KindLocked) { ... }
//
// The Err* sentinels do the same through the standard library:
//
//	if errors.Is(err, liberrors.ErrAllocation) { ... }
package errors
