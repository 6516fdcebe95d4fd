// Package encoder translates UI instructions into opcode bytes and
// length-prefixed fields appended to a bytecode.Buffer.
//
// Every instruction is written atomically: it is fully validated and encoded
// into scratch space before a single append, so a rejected call leaves the
// buffer exactly as it was. A successful call grows the buffer by
// 1 + Σ(1 + len(field)) bytes.
//
// Fields longer than opcode.MaxFieldLen are rejected with
// errors.KindFieldTooLong; they are never truncated.
package encoder

import (
	"strconv"

	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/errors"
	"github.com/wippyai/librender/opcode"
)

// Instruction is one decoded-form instruction: an opcode and its fields in
// table order.
type Instruction struct {
	Fields []string
	Op     opcode.Opcode
}

// Size returns the encoded size of ins, assuming it is valid.
func Size(ins Instruction) int {
	n := 1
	for _, f := range ins.Fields {
		n += 1 + len(f)
	}
	return n
}

// Append validates ins and appends its encoding to dst.
// On error dst is returned unchanged.
func Append(dst []byte, ins Instruction) ([]byte, error) {
	info, ok := ins.Op.Info()
	if !ok {
		return dst, errors.UnknownOpcode(errors.PhaseEncode, byte(ins.Op))
	}
	op := info.Name
	if len(ins.Fields) != info.Arity() {
		return dst, errors.New(errors.PhaseEncode, errors.KindInvalidArgument).
			Op(op).
			Value(len(ins.Fields)).
			Detail("expected %d fields, got %d", info.Arity(), len(ins.Fields)).
			Build()
	}
	for i, f := range ins.Fields {
		if len(f) == 0 {
			return dst, errors.EmptyField(op, info.Fields[i])
		}
		if len(f) > opcode.MaxFieldLen {
			return dst, errors.FieldTooLong(op, info.Fields[i], len(f), opcode.MaxFieldLen)
		}
	}

	out := append(dst, byte(ins.Op))
	for _, f := range ins.Fields {
		out = append(out, byte(len(f)))
		out = append(out, f...)
	}
	return out, nil
}

// Encoder writes instructions into a buffer it does not own.
type Encoder struct {
	buf     *bytecode.Buffer
	scratch []byte
}

// New returns an encoder appending to buf.
func New(buf *bytecode.Buffer) *Encoder {
	return &Encoder{buf: buf}
}

// Buffer returns the target buffer.
func (e *Encoder) Buffer() *bytecode.Buffer {
	return e.buf
}

// Encode validates and appends one instruction.
func (e *Encoder) Encode(ins Instruction) error {
	if e.buf == nil {
		return errors.NilBuffer(errors.PhaseEncode, ins.Op.String())
	}
	if e.buf.IsLocked() {
		return errors.Locked(errors.PhaseEncode, ins.Op.String())
	}

	out, err := Append(e.scratch[:0], ins)
	if err != nil {
		return err
	}
	e.scratch = out
	return e.buf.AppendBytes(out)
}

// EncodeAll encodes each instruction in order and stops at the first failure,
// returning its index. Instructions before the failing one stay written.
func (e *Encoder) EncodeAll(ins []Instruction) (int, error) {
	for i, in := range ins {
		if err := e.Encode(in); err != nil {
			return i, errors.WithPath(errors.PhaseEncode, err, strconv.Itoa(i))
		}
	}
	return len(ins), nil
}

// Nop encodes NOP, a single opcode byte.
func (e *Encoder) Nop() error {
	return e.Encode(Instruction{Op: opcode.Nop})
}

// CreateElement encodes CREATE_ELEMENT with the element's tag name.
func (e *Encoder) CreateElement(tag string) error {
	return e.Encode(Instruction{Op: opcode.CreateElement, Fields: []string{tag}})
}

// SetAttribute encodes SET_ATTRIBUTE name=value.
func (e *Encoder) SetAttribute(name, value string) error {
	return e.Encode(Instruction{Op: opcode.SetAttribute, Fields: []string{name, value}})
}

// AppendChild encodes APPEND_CHILD, which has no fields.
func (e *Encoder) AppendChild() error {
	return e.Encode(Instruction{Op: opcode.AppendChild})
}

// RemoveChild encodes REMOVE_CHILD.
func (e *Encoder) RemoveChild() error {
	return e.Encode(Instruction{Op: opcode.RemoveChild})
}

// ReplaceChild encodes REPLACE_CHILD.
func (e *Encoder) ReplaceChild() error {
	return e.Encode(Instruction{Op: opcode.ReplaceChild})
}

// TextNode encodes TEXT_NODE creating a text node with the given content.
func (e *Encoder) TextNode(text string) error {
	return e.Encode(Instruction{Op: opcode.TextNode, Fields: []string{text}})
}

// SetText encodes SET_TEXT replacing the current node's text.
func (e *Encoder) SetText(text string) error {
	return e.Encode(Instruction{Op: opcode.SetText, Fields: []string{text}})
}

// RemoveAttribute encodes REMOVE_ATTRIBUTE for the named attribute.
func (e *Encoder) RemoveAttribute(name string) error {
	return e.Encode(Instruction{Op: opcode.RemoveAttribute, Fields: []string{name}})
}

// SetStyle encodes STYLE property=value.
func (e *Encoder) SetStyle(property, value string) error {
	return e.Encode(Instruction{Op: opcode.Style, Fields: []string{property, value}})
}

// AddEventListener encodes EVENT_LISTENER for an event type such as "click".
func (e *Encoder) AddEventListener(event string) error {
	return e.Encode(Instruction{Op: opcode.EventListener, Fields: []string{event}})
}

// AppendSibling encodes APPEND_SIBLING.
func (e *Encoder) AppendSibling() error {
	return e.Encode(Instruction{Op: opcode.AppendSibling})
}
