package sink

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/librender/errors"
)

// WazeroMemory adapts a wazero instance memory to librender.Memory.
type WazeroMemory struct {
	mem api.Memory
}

// NewWazeroMemory wraps mem, typically api.Module.Memory() or an exported memory.
func NewWazeroMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, m.outOfBounds("Read", offset, length)
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return m.outOfBounds("Write", offset, uint32(len(data)))
	}
	return nil
}

// Size returns the memory size in bytes.
func (m *WazeroMemory) Size() uint32 {
	return m.mem.Size()
}

func (m *WazeroMemory) outOfBounds(op string, offset, length uint32) *errors.Error {
	return errors.New(errors.PhaseSink, errors.KindOutOfRange).
		Op("WazeroMemory." + op).
		Value(offset).
		Detail("offset=%d, length=%d, size=%d", offset, length, m.mem.Size()).
		Build()
}
