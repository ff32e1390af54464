package spell

import "github.com/krehermann/spellvm/vm"

func lit(v int32) vm.Instruction {
	return vm.PushLiteral{Value: v}
}

// Demo returns the stock spells. Cast in order on a fresh VM they leave
// both wizards at 60 health and 16 on the stack.
func Demo() []*Spell {
	return []*Spell{
		New("set-player-health", "Set player health to 50",
			lit(0), lit(50), vm.SetHealth{},
		),
		New("heal-player", "Increase player health by 10",
			lit(0),
			lit(0), vm.GetHealth{},
			lit(10), vm.Add{},
			vm.SetHealth{},
		),
		New("hurt-opponent", "Opponent loses 20 health, play sound 123",
			lit(1),
			lit(1), vm.GetHealth{},
			lit(20), vm.Subtract{},
			vm.SetHealth{},
			lit(123), vm.PlaySound{},
		),
		New("calculate", "(5 + 3) * 2",
			lit(5), lit(3), vm.Add{},
			lit(2), vm.Multiply{},
		),
	}
}
