package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	got := DisassembleWithName(prog(5, 3, Add{}, 2, Multiply{}), "calc")
	want := "; === calc ===\n" +
		"; 5 instructions\n" +
		"0000  0x00  LITERAL    5     ; depth 1\n" +
		"0001  0x00  LITERAL    3     ; depth 2\n" +
		"0002  0x01  ADD              ; depth 1\n" +
		"0003  0x00  LITERAL    2     ; depth 2\n" +
		"0004  0x03  MUL              ; depth 1\n"
	assert.Equal(t, want, got)
}

func TestDisassemble_Unknown(t *testing.T) {
	got := Disassemble(prog(nil))
	assert.Contains(t, got, "0xFF  UNKNOWN")
}

func TestOpcode(t *testing.T) {
	for op := OpLiteral; op <= OpPlaySound; op++ {
		assert.True(t, op.Valid())
		parsed, err := ParseOpcode(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}
	assert.False(t, Opcode(0x08).Valid())
	assert.Equal(t, "UNKNOWN", Opcode(0x08).String())

	_, err := ParseOpcode("JUMP")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	inst, err := New(OpGetHealth)
	require.NoError(t, err)
	assert.Equal(t, GetHealth{}, inst)

	_, err = New(OpLiteral)
	assert.Error(t, err)
	_, err = New(Opcode(0x42))
	assert.Error(t, err)

	assert.Equal(t, "LITERAL -4", PushLiteral{Value: -4}.String())
	assert.Equal(t, OpSetHealth, OpcodeOf(SetHealth{}))
	assert.Equal(t, Opcode(0xff), OpcodeOf(nil))
}
