package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the program.
func Disassemble(program Program) string {
	return DisassembleWithName(program, "")
}

// DisassembleWithName returns a listing with a name header.
func DisassembleWithName(program Program, name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; %d instructions\n", len(program)))

	depth := 0
	for i, inst := range program {
		op := OpcodeOf(inst)
		line := op.String()
		if lit, ok := inst.(PushLiteral); ok {
			line = fmt.Sprintf("%-10s %d", op, lit.Value)
		}

		pops, pushes := stackEffect(op)
		depth += pushes - pops
		sb.WriteString(fmt.Sprintf("%04d  0x%02X  %-16s ; depth %d\n", i, byte(op), line, depth))
	}

	return sb.String()
}

// stackEffect is the nominal (pops, pushes) of op. GET_HEALTH with a bad
// wizard id pushes nothing at run time, which a static listing cannot see.
func stackEffect(op Opcode) (int, int) {
	switch op {
	case OpLiteral:
		return 0, 1
	case OpAdd, OpSub, OpMul, OpDiv:
		return 2, 1
	case OpSetHealth:
		return 2, 0
	case OpGetHealth:
		return 1, 1
	case OpPlaySound:
		return 1, 0
	}
	return 0, 0
}
