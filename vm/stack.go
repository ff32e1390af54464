package vm

import (
	"fmt"
)

const DefaultMaxStack = 128

// Stack is the operand stack. It is not safe for concurrent use; the
// owning VM serializes access.
type Stack struct {
	data []int32
	ptr  int

	depth int
}

type StackOpt func(*Stack) *Stack

func MaxStack(max int) StackOpt {
	return func(s *Stack) *Stack {
		s.depth = max
		return s
	}
}

func NewStack(opts ...StackOpt) *Stack {
	s := &Stack{
		ptr:   0,
		depth: DefaultMaxStack,
	}
	for _, opt := range opts {
		s = opt(s)
	}
	// a negative depth is an empty stack, every push overflows
	if s.depth < 0 {
		s.depth = 0
	}
	s.data = make([]int32, s.depth)
	return s
}

func (s *Stack) Push(v int32) error {
	if s.ptr >= s.depth {
		return fmt.Errorf("push %d at depth %d: %w", v, s.depth, ErrStackOverflow)
	}

	s.data[s.ptr] = v
	s.ptr += 1

	return nil
}

func (s *Stack) Pop() (int32, error) {
	if s.Empty() {
		return 0, ErrStackUnderflow
	}

	// ptr is at the next write slot, one ahead of the read slot
	v := s.data[s.ptr-1]
	s.ptr -= 1

	return v, nil
}

// PopPair pops the top two values and returns them bottom first, so for a
// stack [.. a b] it returns (a, b).
func (s *Stack) PopPair() (int32, int32, error) {
	b, err := s.Pop()
	if err != nil {
		return 0, 0, err
	}
	a, err := s.Pop()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func (s *Stack) Empty() bool {
	return s.ptr == 0
}

func (s *Stack) Len() int {
	return s.ptr
}

func (s *Stack) Depth() int {
	return s.depth
}

func (s *Stack) Peek() (int32, error) {
	return s.read(s.Len() - 1)
}

func (s *Stack) Reset() {
	s.ptr = 0
}

// Slice copies the live values, bottom first.
func (s *Stack) Slice() []int32 {
	out := make([]int32, s.ptr)
	copy(out, s.data[:s.ptr])
	return out
}

func (s *Stack) read(pos int) (int32, error) {
	if pos >= s.Len() || pos < 0 {
		return 0, fmt.Errorf("read out of range len %d, pos %d", s.Len(), pos)
	}
	return s.data[pos], nil
}
