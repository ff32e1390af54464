package vm

import "fmt"

type Opcode byte

const (
	OpLiteral   Opcode = 0x00
	OpAdd       Opcode = 0x01
	OpSub       Opcode = 0x02
	OpMul       Opcode = 0x03
	OpDiv       Opcode = 0x04
	OpSetHealth Opcode = 0x05
	OpGetHealth Opcode = 0x06
	OpPlaySound Opcode = 0x07

	opUnknown Opcode = 0xff
)

var opcodeNames = map[Opcode]string{
	OpLiteral:   "LITERAL",
	OpAdd:       "ADD",
	OpSub:       "SUB",
	OpMul:       "MUL",
	OpDiv:       "DIV",
	OpSetHealth: "SET_HEALTH",
	OpGetHealth: "GET_HEALTH",
	OpPlaySound: "PLAY_SOUND",
}

func (op Opcode) String() string {
	name, ok := opcodeNames[op]
	if !ok {
		return "UNKNOWN"
	}
	return name
}

func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}

// ParseOpcode maps a mnemonic (as returned by Opcode.String) back to its opcode.
func ParseOpcode(name string) (Opcode, error) {
	for op, n := range opcodeNames {
		if n == name {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown mnemonic %q", name)
}

// Instruction is a single step of a spell. The set of implementations is
// closed: only this package can add one.
type Instruction interface {
	Opcode() Opcode
	String() string
	instruction()
}

// Program is a spell ready for interpretation.
type Program []Instruction

type PushLiteral struct {
	Value int32
}

type (
	Add       struct{}
	Subtract  struct{}
	Multiply  struct{}
	Divide    struct{}
	SetHealth struct{}
	GetHealth struct{}
	PlaySound struct{}
)

func (PushLiteral) Opcode() Opcode { return OpLiteral }
func (Add) Opcode() Opcode         { return OpAdd }
func (Subtract) Opcode() Opcode    { return OpSub }
func (Multiply) Opcode() Opcode    { return OpMul }
func (Divide) Opcode() Opcode      { return OpDiv }
func (SetHealth) Opcode() Opcode   { return OpSetHealth }
func (GetHealth) Opcode() Opcode   { return OpGetHealth }
func (PlaySound) Opcode() Opcode   { return OpPlaySound }

func (p PushLiteral) String() string { return fmt.Sprintf("%s %d", OpLiteral, p.Value) }
func (Add) String() string           { return OpAdd.String() }
func (Subtract) String() string      { return OpSub.String() }
func (Multiply) String() string      { return OpMul.String() }
func (Divide) String() string        { return OpDiv.String() }
func (SetHealth) String() string     { return OpSetHealth.String() }
func (GetHealth) String() string     { return OpGetHealth.String() }
func (PlaySound) String() string     { return OpPlaySound.String() }

func (PushLiteral) instruction() {}
func (Add) instruction()         {}
func (Subtract) instruction()    {}
func (Multiply) instruction()    {}
func (Divide) instruction()      {}
func (SetHealth) instruction()   {}
func (GetHealth) instruction()   {}
func (PlaySound) instruction()   {}

// OpcodeOf is Opcode() that tolerates a nil or foreign instruction value.
func OpcodeOf(inst Instruction) Opcode {
	switch inst.(type) {
	case PushLiteral, Add, Subtract, Multiply, Divide,
		SetHealth, GetHealth, PlaySound:
		return inst.Opcode()
	}
	return opUnknown
}

// New builds the operand-less instruction for op. LITERAL needs an
// immediate, use PushLiteral directly for it.
func New(op Opcode) (Instruction, error) {
	switch op {
	case OpAdd:
		return Add{}, nil
	case OpSub:
		return Subtract{}, nil
	case OpMul:
		return Multiply{}, nil
	case OpDiv:
		return Divide{}, nil
	case OpSetHealth:
		return SetHealth{}, nil
	case OpGetHealth:
		return GetHealth{}, nil
	case OpPlaySound:
		return PlaySound{}, nil
	case OpLiteral:
		return nil, fmt.Errorf("%s requires an immediate value", op)
	}
	return nil, fmt.Errorf("unknown opcode 0x%02x", byte(op))
}

// example
// (5 + 3) * 2 = 16
// 5
// push stack
// 3
// push stack
// add
// 2
// push stack
// mul
