package bytecode

import (
	"io"

	"github.com/wippyai/librender/errors"
)

var _ io.WriterTo = (*Buffer)(nil)

// WriteTo writes the content bytes to w in a single call. It implements
// io.WriterTo. A destination that accepts fewer bytes without an error is
// reported as errors.KindShortWrite. The buffer is never modified.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if b == nil || b.data == nil {
		return 0, errors.NilBuffer(errors.PhaseSink, "WriteTo")
	}
	if w == nil {
		return 0, errors.InvalidArgument(errors.PhaseSink, "WriteTo", "nil writer")
	}

	n, err := w.Write(b.data)
	if err != nil {
		return int64(n), errors.New(errors.PhaseSink, errors.KindIO).
			Op("WriteTo").
			Value(n).
			Cause(err).
			Build()
	}
	if n < len(b.data) {
		e := errors.ShortWrite(errors.PhaseSink, "WriteTo", n, len(b.data))
		e.Cause = io.ErrShortWrite
		return int64(n), e
	}
	return int64(n), nil
}
