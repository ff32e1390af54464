package spell

import (
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/krehermann/spellvm/vm"
)

type Encoder[T any] interface {
	Encode(T) error
}

type Decoder[T any] interface {
	Decode(T) error
}

// EncodeProgram writes the bytecode form of program: one opcode byte per
// instruction, LITERAL followed by its value as a signed varint.
func EncodeProgram(program vm.Program) ([]byte, error) {
	out := make([]byte, 0, len(program)*2)
	for i, inst := range program {
		op := vm.OpcodeOf(inst)
		if !op.Valid() {
			return nil, fmt.Errorf("encode instruction %d: %w", i, vm.ErrUnknownInstruction)
		}
		out = append(out, byte(op))
		if lit, ok := inst.(vm.PushLiteral); ok {
			out = binary.AppendVarint(out, int64(lit.Value))
		}
	}
	return out, nil
}

func MustEncodeProgram(program vm.Program) []byte {
	b, err := EncodeProgram(program)
	if err != nil {
		panic(err)
	}
	return b
}

func DecodeProgram(data []byte) (vm.Program, error) {
	program := vm.Program{}
	for ip := 0; ip < len(data); {
		op := vm.Opcode(data[ip])
		ip++

		if op != vm.OpLiteral {
			inst, err := vm.New(op)
			if err != nil {
				return nil, fmt.Errorf("decode at byte %d: %w", ip-1, err)
			}
			program = append(program, inst)
			continue
		}

		v, n := binary.Varint(data[ip:])
		if n <= 0 {
			return nil, fmt.Errorf("decode at byte %d: truncated literal", ip-1)
		}
		if int64(int32(v)) != v {
			return nil, fmt.Errorf("decode at byte %d: literal %d out of range", ip-1, v)
		}
		ip += n
		program = append(program, vm.PushLiteral{Value: int32(v)})
	}
	return program, nil
}

// gobSpell carries the code as bytecode; gob cannot encode the
// instruction interface values directly.
type gobSpell struct {
	Name        string
	Description string
	Bytecode    []byte
}

type GobSpellEncoder struct {
	w io.Writer
}

func NewGobSpellEncoder(w io.Writer) *GobSpellEncoder {
	return &GobSpellEncoder{
		w: w,
	}
}

func (e GobSpellEncoder) Encode(s *Spell) error {
	code, err := EncodeProgram(s.Code)
	if err != nil {
		return err
	}
	return gob.NewEncoder(e.w).Encode(&gobSpell{
		Name:        s.Name,
		Description: s.Description,
		Bytecode:    code,
	})
}

type GobSpellDecoder struct {
	r io.Reader
}

func NewGobSpellDecoder(r io.Reader) *GobSpellDecoder {
	return &GobSpellDecoder{
		r: r,
	}
}

func (d GobSpellDecoder) Decode(s *Spell) error {
	var g gobSpell
	if err := gob.NewDecoder(d.r).Decode(&g); err != nil {
		return err
	}
	code, err := DecodeProgram(g.Bytecode)
	if err != nil {
		return fmt.Errorf("spell %q: %w", g.Name, err)
	}
	s.Name = g.Name
	s.Description = g.Description
	s.Code = code
	return nil
}
