package opcode

import "testing"

func TestTable(t *testing.T) {
	tests := []struct {
		name   string
		opcode Opcode
		value  byte
		arity  int
	}{
		{"nop", Nop, 0x00, 0},
		{"create_element", CreateElement, 0x01, 1},
		{"set_attribute", SetAttribute, 0x02, 2},
		{"append_child", AppendChild, 0x03, 0},
		{"remove_child", RemoveChild, 0x04, 0},
		{"replace_child", ReplaceChild, 0x05, 0},
		{"text_node", TextNode, 0x06, 1},
		{"set_text", SetText, 0x07, 1},
		{"remove_attribute", RemoveAttribute, 0x08, 1},
		{"style", Style, 0x09, 2},
		{"event_listener", EventListener, 0x0A, 1},
		{"append_sibling", AppendSibling, 0x0B, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if byte(tt.opcode) != tt.value {
				t.Errorf("opcode = 0x%02X, want 0x%02X", byte(tt.opcode), tt.value)
			}
			op, ok := Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.name)
			}
			if op != tt.opcode {
				t.Errorf("Lookup(%q) = %v, want %v", tt.name, op, tt.opcode)
			}
			if got := op.Arity(); got != tt.arity {
				t.Errorf("Arity() = %d, want %d", got, tt.arity)
			}
			if got := op.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			info, ok := op.Info()
			if !ok || info.Opcode != op || info.Arity() != tt.arity {
				t.Errorf("Info() = %+v, %v", info, ok)
			}
		})
	}
}

func TestLookupNotFound(t *testing.T) {
	if _, ok := Lookup("blink"); ok {
		t.Error("Lookup should return false for unknown instruction")
	}
}

func TestUndefinedOpcode(t *testing.T) {
	op := Opcode(Count)
	if op.Valid() {
		t.Error("Valid() = true for opcode past the table")
	}
	if op.Arity() != -1 {
		t.Errorf("Arity() = %d, want -1", op.Arity())
	}
	if _, ok := op.Info(); ok {
		t.Error("Info() should fail for undefined opcode")
	}
	if got := op.String(); got != "opcode(0x0C)" {
		t.Errorf("String() = %q", got)
	}
}

func TestAll(t *testing.T) {
	ops := All()
	if len(ops) != Count {
		t.Fatalf("len(All()) = %d, want %d", len(ops), Count)
	}
	for i, op := range ops {
		if int(op) != i {
			t.Errorf("All()[%d] = %v", i, op)
		}
	}
}
