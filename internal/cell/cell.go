// Package cell implements the two-state Game of Life rule machine.
//
// A cell is either [Alive] or [Dead]. The only event is a tick carrying the
// number of live neighbours; [Tick] returns the resulting state.
//
//	alive --TICK(n)--> dead   when n is neither 2 nor 3
//	dead  --TICK(n)--> alive  when n is 3
//
// Every other combination is a self loop.
package cell

type State uint8

const (
	Dead State = iota
	Alive
)

func (s State) String() string {
	if s == Alive {
		return "alive"
	}
	return "dead"
}

// Dies guards the alive -> dead transition.
func Dies(neighbors int) bool {
	return neighbors != 2 && neighbors != 3
}

// Born guards the dead -> alive transition.
func Born(neighbors int) bool {
	return neighbors == 3
}

// Tick applies one rule transition.
func Tick(s State, neighbors int) State {
	switch s {
	case Alive:
		if Dies(neighbors) {
			return Dead
		}
	case Dead:
		if Born(neighbors) {
			return Alive
		}
	}
	return s
}

// Toggle flips a cell without consulting the rule.
func Toggle(s State) State {
	if s == Alive {
		return Dead
	}
	return Alive
}
