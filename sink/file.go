// Package sink writes the content of a bytecode buffer to its destination:
// a file, any io.Writer, or the linear memory of a WebAssembly instance.
//
// Sinks only read the buffer. A failing destination is reported as a
// *errors.Error in errors.PhaseSink and never affects buffer state.
package sink

import (
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/errors"
)

// WriteFile replaces the file at path with the buffer's content. The file is
// created if needed and truncated otherwise. Open, write and close failures
// are returned with the path included; a short write is errors.KindShortWrite.
func WriteFile(buf *bytecode.Buffer, path string) (err error) {
	if buf.Bytes() == nil {
		return errors.NilBuffer(errors.PhaseSink, "WriteFile")
	}
	if path == "" {
		return errors.InvalidArgument(errors.PhaseSink, "WriteFile", "empty path")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		Logger().Warn("cannot open destination", zap.String("path", path), zap.Error(err))
		return errors.IO(errors.PhaseSink, "WriteFile", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.IO(errors.PhaseSink, "WriteFile", path, cerr)
		}
	}()

	n, werr := buf.WriteTo(f)
	if werr != nil {
		Logger().Warn("write failed", zap.String("path", path), zap.Int64("written", n), zap.Error(werr))
		if errors.IsKind(werr, errors.KindShortWrite) {
			return werr
		}
		return errors.IO(errors.PhaseSink, "WriteFile", path, werr)
	}

	Logger().Debug("stream written", zap.String("path", path), zap.Int64("bytes", n))
	return nil
}
