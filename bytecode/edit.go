package bytecode

import (
	"slices"

	"github.com/wippyai/librender/errors"
)

// InsertByte writes v at index, shifting [index, Len()) one position right.
// index == Len() appends.
func (b *Buffer) InsertByte(index int, v byte) error {
	if err := b.writable(errors.PhaseEdit, "InsertByte"); err != nil {
		return err
	}
	if index < 0 || index > len(b.data) {
		return errors.OutOfRange(errors.PhaseEdit, "InsertByte", index, len(b.data))
	}
	if err := b.reserve(errors.PhaseEdit, "InsertByte", 1); err != nil {
		return err
	}
	b.data = slices.Insert(b.data, index, v)
	return nil
}

// RemoveByte deletes the byte at index, shifting the remainder left.
func (b *Buffer) RemoveByte(index int) error {
	if err := b.writable(errors.PhaseEdit, "RemoveByte"); err != nil {
		return err
	}
	if index < 0 || index >= len(b.data) {
		return errors.OutOfRange(errors.PhaseEdit, "RemoveByte", index, len(b.data))
	}
	b.data = slices.Delete(b.data, index, index+1)
	return nil
}

// ByteAt returns the byte at index. It ignores the lock.
func (b *Buffer) ByteAt(index int) (byte, error) {
	if b == nil || b.data == nil {
		return 0, errors.NilBuffer(errors.PhaseEdit, "ByteAt")
	}
	if index < 0 || index >= len(b.data) {
		return 0, errors.OutOfRange(errors.PhaseEdit, "ByteAt", index, len(b.data))
	}
	return b.data[index], nil
}
