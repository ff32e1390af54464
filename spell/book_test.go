package spell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/krehermann/spellvm/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBook = `
spells:
  - name: fireball
    description: opponent takes 30
    code:
      - {op: literal, arg: 1}
      - {op: literal, arg: 1}
      - {op: get_health}
      - {op: literal, arg: 30}
      - {op: sub}
      - {op: set_health}
      - {op: literal, arg: 7}
      - {op: play_sound}
  - name: halve
    code:
      - {op: literal, arg: 10}
      - {op: literal, arg: 2}
      - {op: div}
`

func TestParseBook(t *testing.T) {
	book, err := ParseBook(strings.NewReader(testBook))
	require.NoError(t, err)
	require.Len(t, book.Spells, 2)

	fireball, ok := book.Get("fireball")
	require.True(t, ok)
	assert.Equal(t, "opponent takes 30", fireball.Description)
	assert.Len(t, fireball.Code, 8)

	machine := vm.NewVM()
	require.NoError(t, machine.Interpret(fireball.Code))
	assert.Equal(t, []int32{100, 50}, machine.Healths())

	halve, ok := book.Get("halve")
	require.True(t, ok)
	require.NoError(t, machine.Interpret(halve.Code))
	assert.Equal(t, []int32{5}, machine.Stack())

	_, ok = book.Get("missing")
	assert.False(t, ok)
}

func TestParseBook_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "duplicate",
			body: "spells:\n  - {name: a, code: [{op: add}]}\n  - {name: a, code: [{op: sub}]}\n",
		},
		{
			name: "bad op",
			body: "spells:\n  - {name: a, code: [{op: jump}]}\n",
		},
		{
			name: "literal without arg",
			body: "spells:\n  - {name: a, code: [{op: literal}]}\n",
		},
		{
			name: "missing name",
			body: "spells:\n  - {code: [{op: add}]}\n",
		},
		{
			name: "unknown top level field",
			body: "spell: []\n",
		},
		{
			name: "misspelled code key",
			body: "spells:\n  - {name: heal, cod: [{op: literal, arg: 0}]}\n",
		},
		{
			name: "unknown spell key",
			body: "spells:\n  - {name: a, author: me, code: [{op: add}]}\n",
		},
		{
			name: "unknown op key",
			body: "spells:\n  - {name: x, code: [{op: add, argz: 5}]}\n",
		},
		{
			name: "null entry",
			body: "spells:\n  -\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBook(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestParseBook_Empty(t *testing.T) {
	book, err := ParseBook(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, book.Spells)
}

func TestLoadBook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spells.yaml")

	book := &Book{Spells: Demo()}
	data, err := book.Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := LoadBook(path)
	require.NoError(t, err)
	assert.Equal(t, book, loaded)

	_, err = LoadBook(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestParseBook_UnknownFieldNamed(t *testing.T) {
	_, err := ParseBook(strings.NewReader("spells:\n  - name: heal\n    cod:\n      - {op: add}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "cod"`)

	_, err = ParseBook(strings.NewReader("spells:\n  - {name: x, code: [{op: add, argz: 5}]}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "argz"`)
}
