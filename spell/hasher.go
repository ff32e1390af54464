package spell

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const HashLen = sha256.Size

// Hash identifies a spell by its bytecode. Two spells with different names
// but the same code share a hash.
type Hash [HashLen]uint8

func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, err
	}
	if len(b) != HashLen {
		return Hash{}, fmt.Errorf("hash must be %d bytes, got %d", HashLen, len(b))
	}
	return Hash(b), nil
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Prefix is the short form used in logs.
func (h Hash) Prefix() string {
	return h.String()[:8]
}

type Hasher[T any] interface {
	Hash(T) Hash
}

type DefaultSpellHasher struct{}

// Hash panics on a spell that does not encode.
func (DefaultSpellHasher) Hash(s *Spell) Hash {
	return Hash(sha256.Sum256(MustEncodeProgram(s.Code)))
}
