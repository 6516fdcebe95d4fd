package librender

// Memory is a linear memory an instruction stream can be copied into, such as
// the memory of a WebAssembly instance hosting the execution engine.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// MemorySizer provides the current size of a linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}
