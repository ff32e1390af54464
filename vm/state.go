package vm

import (
	"fmt"
)

// DefaultHealth is the starting health of the player (0) and the opponent (1).
var DefaultHealth = []int32{100, 80}

// HealthTable is the game state a spell can touch: one health value per
// wizard, indexed by wizard id. It outlives individual spells.
type HealthTable struct {
	data []int32
}

func NewHealthTable(initial []int32) *HealthTable {
	data := make([]int32, len(initial))
	copy(data, initial)
	return &HealthTable{
		data: data,
	}
}

func (h *HealthTable) Valid(id int32) bool {
	return id >= 0 && int(id) < len(h.data)
}

func (h *HealthTable) Set(id, health int32) error {
	if !h.Valid(id) {
		return fmt.Errorf("wizard %d: %w", id, ErrInvalidActor)
	}
	h.data[id] = health
	return nil
}

func (h *HealthTable) Get(id int32) (int32, error) {
	if !h.Valid(id) {
		return 0, fmt.Errorf("wizard %d: %w", id, ErrInvalidActor)
	}
	return h.data[id], nil
}

func (h *HealthTable) Len() int {
	return len(h.data)
}

func (h *HealthTable) Slice() []int32 {
	out := make([]int32, len(h.data))
	copy(out, h.data)
	return out
}
