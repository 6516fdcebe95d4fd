package sink

import (
	"math"

	"go.uber.org/zap"

	"github.com/wippyai/librender"
	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/errors"
)

// Region locates a stream copied into linear memory. Offset and Length are
// what a guest-side execution engine takes as its (ptr, len) arguments.
type Region struct {
	Offset uint32
	Length uint32
}

// End returns the first offset past the region.
func (r Region) End() uint32 {
	return r.Offset + r.Length
}

// MemorySink copies buffers into a linear memory at a fixed offset.
// Each Write overwrites the previous stream at that offset.
type MemorySink struct {
	mem    librender.Memory
	offset uint32
}

// NewMemorySink returns a sink writing into mem starting at offset.
func NewMemorySink(mem librender.Memory, offset uint32) *MemorySink {
	return &MemorySink{mem: mem, offset: offset}
}

// Offset returns the offset streams are written at.
func (s *MemorySink) Offset() uint32 {
	return s.offset
}

// Write copies the buffer's content into memory. When the memory reports its
// size the bounds are checked before anything is written.
func (s *MemorySink) Write(buf *bytecode.Buffer) (Region, error) {
	data := buf.Bytes()
	if data == nil {
		return Region{}, errors.NilBuffer(errors.PhaseSink, "MemorySink.Write")
	}
	if s.mem == nil {
		return Region{}, errors.InvalidArgument(errors.PhaseSink, "MemorySink.Write", "nil memory")
	}
	if uint64(s.offset)+uint64(len(data)) > math.MaxUint32 {
		return Region{}, errors.New(errors.PhaseSink, errors.KindOutOfRange).
			Op("MemorySink.Write").
			Value(len(data)).
			Detail("stream of %d bytes at offset %d overflows 32-bit address space", len(data), s.offset).
			Build()
	}

	region := Region{Offset: s.offset, Length: uint32(len(data))}
	if sizer, ok := s.mem.(librender.MemorySizer); ok {
		if size := sizer.Size(); region.End() > size {
			Logger().Warn("stream does not fit memory",
				zap.Uint32("offset", region.Offset),
				zap.Uint32("length", region.Length),
				zap.Uint32("size", size))
			return Region{}, errors.New(errors.PhaseSink, errors.KindOutOfRange).
				Op("MemorySink.Write").
				Value(region.End()).
				Detail("region [%d, %d) exceeds memory size %d", region.Offset, region.End(), size).
				Build()
		}
	}

	if err := s.mem.Write(region.Offset, data); err != nil {
		if errors.KindOf(err) != "" {
			return Region{}, err
		}
		return Region{}, errors.Wrap(errors.PhaseSink, errors.KindIO, err, "memory write failed")
	}

	Logger().Debug("stream copied to memory",
		zap.Uint32("offset", region.Offset),
		zap.Uint32("length", region.Length))
	return region, nil
}
