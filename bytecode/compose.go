package bytecode

import (
	"go.uber.org/zap"

	"github.com/wippyai/librender/errors"
)

// Merge concatenates the content of bufs, in order, into a new buffer sized
// to the combined length. Nil entries are skipped. With no arguments Merge
// returns (nil, nil). The result is unlocked and independent of its inputs.
func Merge(bufs ...*Buffer) (*Buffer, error) {
	if len(bufs) == 0 {
		return nil, nil
	}

	total := 0
	for _, b := range bufs {
		total += b.Len()
	}

	merged, err := New(total)
	if err != nil {
		return nil, err
	}
	for _, b := range bufs {
		if b.Len() == 0 {
			continue
		}
		if err := merged.appendBytes(errors.PhaseCompose, "Merge", b.data); err != nil {
			return nil, err
		}
	}

	Logger().Debug("buffers merged", zap.Int("inputs", len(bufs)), zap.Int("len", merged.Len()))
	return merged, nil
}

// Clone returns a new buffer with b's capacity, allocation limit and content.
// A nil or empty b yields (nil, nil). The lock state is not copied.
func (b *Buffer) Clone() (*Buffer, error) {
	if b.Len() == 0 {
		return nil, nil
	}

	capacity := cap(b.data)
	if b.maxCap > 0 {
		capacity = min(capacity, b.maxCap)
	}
	c, err := New(capacity, WithMaxCapacity(b.maxCap))
	if err != nil {
		return nil, err
	}
	if err := c.appendBytes(errors.PhaseCompose, "Clone", b.data); err != nil {
		return nil, err
	}
	return c, nil
}

// Copy appends src's content onto dst. An empty src is a no-op.
func Copy(dst, src *Buffer) error {
	if err := dst.writable(errors.PhaseCompose, "Copy"); err != nil {
		return err
	}
	if src == nil || src.data == nil {
		return errors.NilBuffer(errors.PhaseCompose, "Copy")
	}
	if len(src.data) == 0 {
		return nil
	}
	return dst.appendBytes(errors.PhaseCompose, "Copy", src.data)
}

// AppendRaw splices already-encoded bytes onto the buffer verbatim, bypassing
// the instruction encoder. An empty p is a no-op.
func (b *Buffer) AppendRaw(p []byte) error {
	if err := b.writable(errors.PhaseCompose, "AppendRaw"); err != nil {
		return err
	}
	if p == nil {
		return errors.InvalidArgument(errors.PhaseCompose, "AppendRaw", "nil bytes")
	}
	if len(p) == 0 {
		return nil
	}
	return b.appendBytes(errors.PhaseCompose, "AppendRaw", p)
}
