package vm

import (
	"errors"
	"fmt"
)

var (
	ErrStackOverflow      = errors.New("stack overflow")
	ErrStackUnderflow     = errors.New("stack underflow")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrUnknownInstruction = errors.New("unknown instruction")

	// ErrInvalidActor is never returned by Interpret; a bad wizard id inside
	// a spell is logged and skipped.
	ErrInvalidActor = errors.New("invalid wizard id")

	ErrBusy = errors.New("vm is already running a spell")
)

// ExecError reports which instruction aborted a spell.
type ExecError struct {
	IP          int
	Instruction string
	Err         error
}

func NewExecError(ip int, inst Instruction, err error) *ExecError {
	name := OpcodeOf(inst).String()
	return &ExecError{
		IP:          ip,
		Instruction: name,
		Err:         err,
	}
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %v", e.IP, e.Instruction, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
