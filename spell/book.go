package spell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Book is a spellbook file:
//
//	spells:
//	  - name: heal
//	    description: player heals 10
//	    code:
//	      - {op: literal, arg: 0}
//	      - ...
type Book struct {
	Spells []*Spell `yaml:"spells"`
}

func LoadBook(path string) (*Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read spellbook %s: %w", path, err)
	}
	defer file.Close()

	book, err := ParseBook(file)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return book, nil
}

func ParseBook(r io.Reader) (*Book, error) {
	var book Book
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&book); err != nil {
		if errors.Is(err, io.EOF) {
			return &Book{}, nil
		}
		return nil, err
	}

	seen := make(map[string]bool, len(book.Spells))
	for _, s := range book.Spells {
		if s == nil {
			return nil, fmt.Errorf("empty spell entry")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate spell %q", s.Name)
		}
		seen[s.Name] = true
	}
	return &book, nil
}

func (b *Book) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Book) Get(name string) (*Spell, bool) {
	for _, s := range b.Spells {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
