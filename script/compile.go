package script

import (
	"strconv"

	"github.com/wippyai/librender/bytecode"
	"github.com/wippyai/librender/encoder"
	"github.com/wippyai/librender/errors"
	"github.com/wippyai/librender/opcode"
)

// Instruction resolves a step's opcode name into an encoder instruction.
func (s Step) Instruction() (encoder.Instruction, error) {
	op, ok := opcode.Lookup(s.Op)
	if !ok {
		return encoder.Instruction{}, errors.New(errors.PhaseScript, errors.KindUnknownOpcode).
			Path("op").
			Value(s.Op).
			Detail("unknown opcode %q", s.Op).
			Build()
	}
	return encoder.Instruction{Op: op, Fields: s.Args}, nil
}

// StepOf converts an instruction back into its script form.
func StepOf(ins encoder.Instruction) Step {
	return Step{Op: ins.Op.String(), Args: ins.Fields}
}

// Compile encodes steps into buf in order and returns how many were written.
// It stops at the first failing step; that step writes nothing, and the error
// path starts with "steps" and the step index.
func Compile(steps []Step, buf *bytecode.Buffer) (int, error) {
	enc := encoder.New(buf)
	for i, s := range steps {
		ins, err := s.Instruction()
		if err == nil {
			err = enc.Encode(ins)
		}
		if err != nil {
			return i, errors.WithPath(errors.PhaseScript, err, "steps", strconv.Itoa(i))
		}
	}
	return len(steps), nil
}
