package spell

import (
	"encoding/json"
	"testing"

	"github.com/krehermann/spellvm/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arg(v int32) *int32 {
	return &v
}

func TestOp_Instruction(t *testing.T) {
	tests := []struct {
		name    string
		op      Op
		want    vm.Instruction
		wantErr bool
	}{
		{name: "literal", op: Op{Op: "literal", Arg: arg(7)}, want: vm.PushLiteral{Value: 7}},
		{name: "mixed case", op: Op{Op: " Set_Health "}, want: vm.SetHealth{}},
		{name: "upper", op: Op{Op: "DIV"}, want: vm.Divide{}},
		{name: "literal without arg", op: Op{Op: "literal"}, wantErr: true},
		{name: "add with arg", op: Op{Op: "add", Arg: arg(1)}, wantErr: true},
		{name: "unknown", op: Op{Op: "jump"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op.Instruction()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpsFromProgram(t *testing.T) {
	program := vm.Program{lit(0), lit(-3), vm.GetHealth{}, vm.Multiply{}}
	ops, err := OpsFromProgram(program)
	require.NoError(t, err)
	assert.Equal(t, []Op{
		{Op: "literal", Arg: arg(0)},
		{Op: "literal", Arg: arg(-3)},
		{Op: "get_health"},
		{Op: "mul"},
	}, ops)

	back, err := ProgramFromOps(ops)
	require.NoError(t, err)
	assert.Equal(t, program, back)

	_, err = OpsFromProgram(vm.Program{nil})
	assert.Error(t, err)
}

func TestSpell_JSON(t *testing.T) {
	body := `{"name":"calc","code":[{"op":"literal","arg":5},{"op":"literal","arg":3},{"op":"add"}]}`

	var s Spell
	require.NoError(t, json.Unmarshal([]byte(body), &s))
	assert.Equal(t, "calc", s.Name)
	assert.Equal(t, vm.Program{lit(5), lit(3), vm.Add{}}, s.Code)

	out, err := json.Marshal(&s)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(out))
}

func TestSpell_JSONErrors(t *testing.T) {
	for _, body := range []string{
		`{"code":[{"op":"add"}]}`,
		`{"name":"x","code":[{"op":"literal"}]}`,
		`{"name":"x","code":[{"op":"nope"}]}`,
		`{"name":"x","code":"add"}`,
	} {
		var s Spell
		assert.Error(t, json.Unmarshal([]byte(body), &s), body)
	}
}

func TestSpell_Hash(t *testing.T) {
	a := New("a", "", lit(1), lit(2), vm.Add{})
	b := New("b", "different name, same code", lit(1), lit(2), vm.Add{})
	c := New("c", "", lit(2), lit(1), vm.Add{})

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.False(t, a.Hash().IsZero())
	assert.Len(t, a.Hash().Prefix(), 8)

	h, err := HashFromHex(a.Hash().String())
	require.NoError(t, err)
	assert.Equal(t, a.Hash(), h)

	_, err = HashFromHex("abcd")
	assert.Error(t, err)
	_, err = HashFromHex("zz")
	assert.Error(t, err)
}

func TestDemo(t *testing.T) {
	machine := vm.NewVM()
	for _, s := range Demo() {
		require.NoError(t, machine.Interpret(s.Code), s.Name)
	}
	assert.Equal(t, []int32{60, 60}, machine.Healths())
	assert.Equal(t, []int32{16}, machine.Stack())
}
