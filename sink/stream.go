package sink

import (
	"context"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/errors"
)

// Stream writes the buffers to w in order, as one concatenated stream,
// without merging them first. Nil buffers are skipped. The context is checked
// before each buffer; on cancellation the bytes already written stay written
// and the returned error wraps ctx.Err().
func Stream(ctx context.Context, w io.Writer, bufs ...*bytecode.Buffer) (int64, error) {
	if w == nil {
		return 0, errors.InvalidArgument(errors.PhaseSink, "Stream", "nil writer")
	}

	var total int64
	for i, b := range bufs {
		if err := ctx.Err(); err != nil {
			return total, errors.New(errors.PhaseSink, errors.KindIO).
				Op("Stream").
				Path(strconv.Itoa(i)).
				Cause(err).
				Detail("stream interrupted after %d bytes", total).
				Build()
		}
		if b == nil || b.Len() == 0 {
			continue
		}

		n, err := b.WriteTo(w)
		total += n
		if err != nil {
			return total, errors.WithPath(errors.PhaseSink, err, strconv.Itoa(i))
		}
	}

	Logger().Debug("streamed buffers", zap.Int("buffers", len(bufs)), zap.Int64("bytes", total))
	return total, nil
}
