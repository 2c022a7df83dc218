package market

import "fmt"

// State is the discrete market regime for one period. The declaration
// order is the sampling order for weighted draws, so it must not change.
type State uint8

const (
	Up State = iota
	Down
	Flat
	Crash
	Boom
)

// NumStates is the size of the closed state set.
const NumStates = 5

func (s State) String() string {
	switch s {
	case Up:
		return "up"
	case Down:
		return "down"
	case Flat:
		return "flat"
	case Crash:
		return "crash"
	case Boom:
		return "boom"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// ParseState converts a config-file name into a State.
func ParseState(name string) (State, error) {
	switch name {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "flat":
		return Flat, nil
	case "crash":
		return Crash, nil
	case "boom":
		return Boom, nil
	default:
		return Flat, fmt.Errorf("unknown market state %q", name)
	}
}

// States lists every state in declaration order.
func States() []State {
	return []State{Up, Down, Flat, Crash, Boom}
}
