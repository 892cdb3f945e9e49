package component

import "github.com/milk9111/beastmind/common"

// InputPhase mirrors the lifecycle of an input action.
type InputPhase int

const (
	InputStarted InputPhase = iota
	InputPerformed
	InputCanceled
)

func (p InputPhase) String() string {
	switch p {
	case InputStarted:
		return "started"
	case InputPerformed:
		return "performed"
	case InputCanceled:
		return "canceled"
	}
	return "unknown"
}

// MoveEvent carries the movement stick/keys value.
type MoveEvent struct {
	Phase InputPhase
	Value common.Vec2
}

// ButtonEvent carries a button value (run, jump, interact).
type ButtonEvent struct {
	Phase   InputPhase
	Pressed bool
}

// Vector returns the effective vector; canceled events read as zero.
func (e MoveEvent) Vector() common.Vec2 {
	if e.Phase == InputCanceled {
		return common.Vec2{}
	}
	return e.Value
}

// IsPressed returns the effective button state; canceled events read as
// released.
func (e ButtonEvent) IsPressed() bool {
	if e.Phase == InputCanceled {
		return false
	}
	return e.Pressed
}
