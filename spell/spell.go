package spell

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/krehermann/spellvm/vm"
	"gopkg.in/yaml.v3"
)

// Spell is a named program.
type Spell struct {
	Name        string
	Description string
	Code        vm.Program
}

func New(name, description string, code ...vm.Instruction) *Spell {
	return &Spell{
		Name:        name,
		Description: description,
		Code:        code,
	}
}

func (s *Spell) Hash() Hash {
	return DefaultSpellHasher{}.Hash(s)
}

func (s *Spell) Encode(enc Encoder[*Spell]) error {
	return enc.Encode(s)
}

func (s *Spell) Decode(dec Decoder[*Spell]) error {
	return dec.Decode(s)
}

// Op is the readable form of one instruction, as used in spellbooks and
// over http:
//
//	{op: literal, arg: 5}
//	{op: add}
type Op struct {
	Op  string `yaml:"op" json:"op"`
	Arg *int32 `yaml:"arg,omitempty" json:"arg,omitempty"`
}

func (o Op) Instruction() (vm.Instruction, error) {
	op, err := vm.ParseOpcode(strings.ToUpper(strings.TrimSpace(o.Op)))
	if err != nil {
		return nil, err
	}
	if op == vm.OpLiteral {
		if o.Arg == nil {
			return nil, fmt.Errorf("%s needs an arg", op)
		}
		return vm.PushLiteral{Value: *o.Arg}, nil
	}
	if o.Arg != nil {
		return nil, fmt.Errorf("%s takes no arg", op)
	}
	return vm.New(op)
}

func OpOf(inst vm.Instruction) (Op, error) {
	op := vm.OpcodeOf(inst)
	if !op.Valid() {
		return Op{}, fmt.Errorf("cannot describe instruction %v", inst)
	}
	out := Op{Op: strings.ToLower(op.String())}
	if lit, ok := inst.(vm.PushLiteral); ok {
		v := lit.Value
		out.Arg = &v
	}
	return out, nil
}

func ProgramFromOps(ops []Op) (vm.Program, error) {
	program := make(vm.Program, len(ops))
	for i, o := range ops {
		inst, err := o.Instruction()
		if err != nil {
			return nil, fmt.Errorf("op %d: %w", i, err)
		}
		program[i] = inst
	}
	return program, nil
}

func OpsFromProgram(program vm.Program) ([]Op, error) {
	ops := make([]Op, len(program))
	for i, inst := range program {
		o, err := OpOf(inst)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		ops[i] = o
	}
	return ops, nil
}

// entry is the on-disk and on-wire shape of a spell.
type entry struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Code        []Op   `yaml:"code" json:"code"`
}

func (s *Spell) toEntry() (entry, error) {
	ops, err := OpsFromProgram(s.Code)
	if err != nil {
		return entry{}, fmt.Errorf("spell %q: %w", s.Name, err)
	}
	return entry{Name: s.Name, Description: s.Description, Code: ops}, nil
}

func (s *Spell) fromEntry(e entry) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("spell has no name")
	}
	program, err := ProgramFromOps(e.Code)
	if err != nil {
		return fmt.Errorf("spell %q: %w", e.Name, err)
	}
	s.Name = e.Name
	s.Description = e.Description
	s.Code = program
	return nil
}

func (s *Spell) MarshalJSON() ([]byte, error) {
	e, err := s.toEntry()
	if err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

func (s *Spell) UnmarshalJSON(b []byte) error {
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		return err
	}
	return s.fromEntry(e)
}

func (s *Spell) MarshalYAML() (any, error) {
	return s.toEntry()
}

func (s *Spell) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "name", "description", "code"); err != nil {
		return err
	}
	var e entry
	if err := value.Decode(&e); err != nil {
		return err
	}
	return s.fromEntry(e)
}

func (o *Op) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "op", "arg"); err != nil {
		return err
	}
	type plain Op
	return value.Decode((*plain)(o))
}

// checkKeys rejects mapping keys outside allowed. Node.Decode does not
// inherit the decoder's KnownFields setting, so nested values check here.
func checkKeys(value *yaml.Node, allowed ...string) error {
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		if !slices.Contains(allowed, key.Value) {
			return fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
		}
	}
	return nil
}
