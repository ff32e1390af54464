package vm

import (
	"go.uber.org/zap"
)

type RunState int

const (
	Idle RunState = iota
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// SoundPlayer receives PLAY_SOUND signals.
type SoundPlayer interface {
	PlaySound(id int32)
}

type SoundPlayerFunc func(id int32)

func (f SoundPlayerFunc) PlaySound(id int32) {
	f(id)
}

// VM interprets spells. The stack is per spell, the health table is not.
// A VM must not be used from multiple goroutines at once.
type VM struct {
	// instruction pointer
	ip    int
	state RunState

	stack  *Stack
	health *HealthTable
	sound  SoundPlayer
	logger *zap.Logger
}

type VMOpt func(*VM) *VM

func LoggerOpt(l *zap.Logger) VMOpt {
	return func(vm *VM) *VM {
		vm.logger = l
		return vm
	}
}

// MaxStackOpt bounds the operand stack. A negative depth is treated as 0.
func MaxStackOpt(depth int) VMOpt {
	return func(vm *VM) *VM {
		vm.stack = NewStack(MaxStack(depth))
		return vm
	}
}

func HealthOpt(initial []int32) VMOpt {
	return func(vm *VM) *VM {
		vm.health = NewHealthTable(initial)
		return vm
	}
}

func SoundOpt(p SoundPlayer) VMOpt {
	return func(vm *VM) *VM {
		vm.sound = p
		return vm
	}
}

func NewVM(opts ...VMOpt) *VM {
	vm := &VM{
		ip:     0,
		state:  Idle,
		stack:  NewStack(),
		health: NewHealthTable(DefaultHealth),
		logger: zap.L(),
	}

	for _, opt := range opts {
		vm = opt(vm)
	}

	vm.logger = vm.logger.Named("vm")

	return vm
}

// Interpret runs program to completion. It returns an *ExecError wrapping
// ErrStackOverflow, ErrStackUnderflow, ErrDivisionByZero or
// ErrUnknownInstruction when the spell aborts; the stack is left as it was
// at the failing instruction, with that instruction's operands popped.
func (vm *VM) Interpret(program Program) error {
	if vm.state == Running {
		return ErrBusy
	}
	vm.state = Running
	defer func() { vm.state = Idle }()

	vm.stack.Reset()

	for vm.ip = 0; vm.ip < len(program); vm.ip++ {
		inst := program[vm.ip]

		if ce := vm.logger.Check(zap.DebugLevel, "executing instruction"); ce != nil {
			ce.Write(
				zap.Int("ip", vm.ip),
				zap.Stringer("op", OpcodeOf(inst)),
				zap.Int32s("stack", vm.stack.Slice()),
			)
		}

		if err := vm.Exec(inst); err != nil {
			execErr := NewExecError(vm.ip, inst, err)
			vm.logger.Error("spell aborted",
				zap.Error(execErr),
				zap.Int32s("stack", vm.stack.Slice()),
			)
			return execErr
		}
	}

	vm.logger.Info("spell execution finished",
		zap.Int("instructions", len(program)),
		zap.Int32s("stack", vm.stack.Slice()),
	)
	return nil
}

// Exec applies a single instruction to the current stack and health table.
func (vm *VM) Exec(inst Instruction) error {
	switch inst := inst.(type) {
	case PushLiteral:
		return vm.stack.Push(inst.Value)

	case Add:
		a, b, err := vm.stack.PopPair()
		if err != nil {
			return err
		}
		return vm.stack.Push(a + b)

	case Subtract:
		a, b, err := vm.stack.PopPair()
		if err != nil {
			return err
		}
		return vm.stack.Push(a - b)

	case Multiply:
		a, b, err := vm.stack.PopPair()
		if err != nil {
			return err
		}
		return vm.stack.Push(a * b)

	case Divide:
		a, b, err := vm.stack.PopPair()
		if err != nil {
			return err
		}
		if b == 0 {
			return ErrDivisionByZero
		}
		// MinInt32 / -1 wraps in Go rather than trapping
		return vm.stack.Push(a / b)

	case SetHealth:
		id, health, err := vm.stack.PopPair()
		if err != nil {
			return err
		}
		if err := vm.health.Set(id, health); err != nil {
			vm.logger.Warn("set health skipped",
				zap.Int32("wizard", id),
				zap.Error(err))
			return nil
		}
		vm.logger.Debug("wizard health set",
			zap.Int32("wizard", id),
			zap.Int32("health", health))
		return nil

	case GetHealth:
		id, err := vm.stack.Pop()
		if err != nil {
			return err
		}
		health, err := vm.health.Get(id)
		if err != nil {
			// nothing is pushed; a later pop in the same spell may underflow
			vm.logger.Warn("get health skipped",
				zap.Int32("wizard", id),
				zap.Error(err))
			return nil
		}
		vm.logger.Debug("pushed wizard health",
			zap.Int32("wizard", id),
			zap.Int32("health", health))
		return vm.stack.Push(health)

	case PlaySound:
		id, err := vm.stack.Pop()
		if err != nil {
			return err
		}
		vm.logger.Debug("playing sound", zap.Int32("sound", id))
		if vm.sound != nil {
			vm.sound.PlaySound(id)
		}
		return nil
	}

	return ErrUnknownInstruction
}

func (vm *VM) State() RunState {
	return vm.state
}

// Stack returns a copy of the operand stack, bottom first.
func (vm *VM) Stack() []int32 {
	return vm.stack.Slice()
}

func (vm *VM) Health(id int32) (int32, error) {
	return vm.health.Get(id)
}

func (vm *VM) Healths() []int32 {
	return vm.health.Slice()
}

func (vm *VM) MaxStack() int {
	return vm.stack.Depth()
}
