// Package opcode defines the one-byte instruction tags of the librender
// bytecode stream and the fields each instruction carries.
package opcode

import "fmt"

// Opcode identifies an instruction kind in the encoded stream.
type Opcode byte

const (
	Nop             Opcode = 0x00
	CreateElement   Opcode = 0x01
	SetAttribute    Opcode = 0x02
	AppendChild     Opcode = 0x03
	RemoveChild     Opcode = 0x04
	ReplaceChild    Opcode = 0x05
	TextNode        Opcode = 0x06
	SetText         Opcode = 0x07
	RemoveAttribute Opcode = 0x08
	Style           Opcode = 0x09
	EventListener   Opcode = 0x0A
	AppendSibling   Opcode = 0x0B
)

// Count is the number of defined opcodes; valid values are [0, Count).
const Count = 12

// MaxFieldLen is the largest field a one-byte length prefix can describe.
const MaxFieldLen = 255

// Info describes an instruction.
type Info struct {
	Name   string
	Fields []string // field names, in encoding order
	Opcode Opcode
}

// Arity returns the number of length-prefixed fields following the opcode.
func (i Info) Arity() int {
	return len(i.Fields)
}

var table = [Count]Info{
	{Opcode: Nop, Name: "nop"},
	{Opcode: CreateElement, Name: "create_element", Fields: []string{"tag"}},
	{Opcode: SetAttribute, Name: "set_attribute", Fields: []string{"name", "value"}},
	{Opcode: AppendChild, Name: "append_child"},
	{Opcode: RemoveChild, Name: "remove_child"},
	{Opcode: ReplaceChild, Name: "replace_child"},
	{Opcode: TextNode, Name: "text_node", Fields: []string{"text"}},
	{Opcode: SetText, Name: "set_text", Fields: []string{"text"}},
	{Opcode: RemoveAttribute, Name: "remove_attribute", Fields: []string{"name"}},
	{Opcode: Style, Name: "style", Fields: []string{"property", "value"}},
	{Opcode: EventListener, Name: "event_listener", Fields: []string{"event"}},
	{Opcode: AppendSibling, Name: "append_sibling"},
}

var byName = func() map[string]Opcode {
	m := make(map[string]Opcode, Count)
	for _, info := range table {
		m[info.Name] = info.Opcode
	}
	return m
}()

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool {
	return int(op) < Count
}

// Info returns the table entry for op.
func (op Opcode) Info() (Info, bool) {
	if !op.Valid() {
		return Info{}, false
	}
	return table[op], true
}

// Arity returns the field count of op, or -1 for an undefined opcode.
func (op Opcode) Arity() int {
	if !op.Valid() {
		return -1
	}
	return len(table[op].Fields)
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("opcode(0x%02X)", byte(op))
	}
	return table[op].Name
}

// Lookup returns the opcode for an instruction name such as "set_attribute".
func Lookup(name string) (Opcode, bool) {
	op, ok := byName[name]
	return op, ok
}

// All returns every opcode in ascending order.
func All() []Opcode {
	ops := make([]Opcode, Count)
	for i := range ops {
		ops[i] = Opcode(i)
	}
	return ops
}
