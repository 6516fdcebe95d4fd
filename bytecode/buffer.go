package bytecode

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/librender/errors"
)

// DefaultCapacity is used when a buffer is created with capacity 0.
const DefaultCapacity = 1024

// Buffer is a growable byte container holding an encoded instruction stream.
//
// Only bytes in [0, Len()) are content. Capacity only grows. While a buffer is
// locked every mutating method fails with errors.KindLocked and leaves the
// buffer untouched; reads are unaffected. A Buffer is not safe for concurrent
// use; the lock is a logical guard, not a mutex.
//
// A nil *Buffer is accepted by every method and reported as an invalid argument.
type Buffer struct {
	data   []byte
	maxCap int
	locked bool
}

// Option configures a Buffer at creation.
type Option func(*Buffer)

// WithMaxCapacity caps the storage a buffer may allocate. Growth beyond the
// cap fails with errors.KindAllocation, which callers may treat as fatal.
// Zero means unlimited.
func WithMaxCapacity(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxCap = n
		}
	}
}

// New creates an empty, unlocked buffer with the given initial capacity.
// A capacity of 0 selects DefaultCapacity (clamped to the max capacity, if any).
func New(capacity int, opts ...Option) (*Buffer, error) {
	if capacity < 0 {
		return nil, errors.InvalidArgument(errors.PhaseBuffer, "New",
			fmt.Sprintf("negative capacity %d", capacity))
	}

	b := &Buffer{}
	for _, opt := range opts {
		opt(b)
	}

	if capacity == 0 {
		capacity = DefaultCapacity
		if b.maxCap > 0 && capacity > b.maxCap {
			capacity = b.maxCap
		}
	}
	if b.maxCap > 0 && capacity > b.maxCap {
		Logger().Warn("buffer allocation refused",
			zap.Int("capacity", capacity), zap.Int("limit", b.maxCap))
		return nil, errors.AllocationFailed(errors.PhaseBuffer, "New", capacity, b.maxCap)
	}

	b.data = make([]byte, 0, capacity)
	return b, nil
}

// MustNew is like New but panics if the buffer cannot be created.
func MustNew(capacity int, opts ...Option) *Buffer {
	b, err := New(capacity, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// Destroy releases the buffer's storage. Every later operation on b reports
// an invalid argument. Destroy on a nil buffer is a no-op.
func (b *Buffer) Destroy() {
	if b == nil {
		return
	}
	b.data = nil
	b.locked = false
}

// Lock write-protects the buffer.
func (b *Buffer) Lock() {
	if b == nil {
		return
	}
	b.locked = true
}

// Unlock removes write protection.
func (b *Buffer) Unlock() {
	if b == nil {
		return
	}
	b.locked = false
}

// IsLocked reports whether the buffer is write-protected. A nil buffer is not locked.
func (b *Buffer) IsLocked() bool {
	return b != nil && b.locked
}

// Len returns the number of content bytes.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Cap returns the allocated storage size.
func (b *Buffer) Cap() int {
	if b == nil {
		return 0
	}
	return cap(b.data)
}

// MaxCap returns the allocation limit, or 0 if unlimited.
func (b *Buffer) MaxCap() int {
	if b == nil {
		return 0
	}
	return b.maxCap
}

// Bytes returns the content bytes. The slice aliases the buffer's storage and
// is only valid until the next mutation.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// String implements fmt.Stringer for logs and test failures.
func (b *Buffer) String() string {
	if b == nil {
		return "Buffer(nil)"
	}
	return fmt.Sprintf("Buffer{len=%d cap=%d locked=%t % x}", len(b.data), cap(b.data), b.locked, b.data)
}

// AppendByte appends a single byte, doubling capacity when the buffer is full.
func (b *Buffer) AppendByte(v byte) error {
	if err := b.writable(errors.PhaseBuffer, "AppendByte"); err != nil {
		return err
	}
	if err := b.reserve(errors.PhaseBuffer, "AppendByte", 1); err != nil {
		return err
	}
	b.data = append(b.data, v)
	return nil
}

// AppendBytes appends p in order. Capacity for all of p is secured first, so
// on failure nothing is written. A nil p is an invalid argument; an empty
// non-nil p is a no-op.
func (b *Buffer) AppendBytes(p []byte) error {
	return b.appendBytes(errors.PhaseBuffer, "AppendBytes", p)
}

func (b *Buffer) appendBytes(phase errors.Phase, op string, p []byte) error {
	if err := b.writable(phase, op); err != nil {
		return err
	}
	if p == nil {
		return errors.InvalidArgument(phase, op, "nil bytes")
	}
	if err := b.reserve(phase, op, len(p)); err != nil {
		return err
	}
	b.data = append(b.data, p...)
	return nil
}

// Clear drops all content. Capacity and the underlying bytes are kept.
func (b *Buffer) Clear() error {
	if err := b.writable(errors.PhaseBuffer, "Clear"); err != nil {
		return err
	}
	b.data = b.data[:0]
	return nil
}

// Resize grows storage to at least newCap bytes. Requests that do not exceed
// the current capacity succeed without effect.
func (b *Buffer) Resize(newCap int) error {
	if err := b.writable(errors.PhaseBuffer, "Resize"); err != nil {
		return err
	}
	if newCap <= cap(b.data) {
		return nil
	}
	if b.maxCap > 0 && newCap > b.maxCap {
		Logger().Warn("buffer resize refused",
			zap.Int("capacity", newCap), zap.Int("limit", b.maxCap))
		return errors.AllocationFailed(errors.PhaseBuffer, "Resize", newCap, b.maxCap)
	}
	b.grow(newCap)
	return nil
}

// writable is the common precondition of every mutation.
func (b *Buffer) writable(phase errors.Phase, op string) error {
	if b == nil || b.data == nil {
		return errors.NilBuffer(phase, op)
	}
	if b.locked {
		return errors.Locked(phase, op)
	}
	return nil
}

// reserve makes room for n more bytes, doubling capacity until it fits.
func (b *Buffer) reserve(phase errors.Phase, op string, n int) error {
	need := len(b.data) + n
	if b.maxCap > 0 && need > b.maxCap {
		Logger().Warn("buffer growth refused",
			zap.String("op", op), zap.Int("need", need), zap.Int("limit", b.maxCap))
		return errors.AllocationFailed(phase, op, need, b.maxCap)
	}
	if need <= cap(b.data) {
		return nil
	}

	newCap := max(cap(b.data), 1)
	for newCap < need {
		newCap *= 2
	}
	if b.maxCap > 0 && newCap > b.maxCap {
		newCap = b.maxCap
	}

	b.grow(newCap)
	return nil
}

// grow never leaves Cap() above the limit; slices.Grow may round up to a size class.
func (b *Buffer) grow(newCap int) {
	from := cap(b.data)
	b.data = slices.Grow(b.data, newCap-len(b.data))
	if b.maxCap > 0 && cap(b.data) > b.maxCap {
		b.data = b.data[:len(b.data):b.maxCap]
	}
	Logger().Debug("buffer grown", zap.Int("from", from), zap.Int("to", cap(b.data)))
}
