// Package bytecode implements the buffer that holds an encoded UI instruction
// stream.
//
// A Buffer owns a growable byte slice. Appends double the capacity when the
// buffer is full, giving amortized O(1) growth. A buffer can be locked to
// freeze a finished stream; while locked every mutation fails with
// errors.KindLocked and leaves length, capacity and content unchanged.
//
// Besides appends the package provides positional editing (InsertByte,
// RemoveByte, ByteAt) and composition (Merge, Clone, Copy, AppendRaw). A
// rejected call returns a *errors.Error describing why:
//
//	buf, _ := bytecode.New(0)
//	buf.Lock()
//	if err := buf.AppendByte(0xFF); errors.IsKind(err, errors.KindLocked) {
//		// unchanged
//	}
//
// Allocation failure is modelled by an optional capacity limit
// (WithMaxCapacity). Growth past the limit returns errors.KindAllocation;
// callers that cannot continue without the buffer may treat it as fatal.
//
// Buffers are single-owner and perform no synchronization.
package bytecode
