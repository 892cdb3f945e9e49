// Package fsm is a small hierarchical state machine: a flyweight registry of
// state objects per machine, root states with optional sub-states, and a
// tick-driven update that forwards from each active state to its active
// child.
package fsm

import "strconv"

// Kind identifies a state within one machine type. Kinds are dense indices
// starting at zero.
type Kind int

// NoKind marks "no state" (no parent, no active sub-state).
const NoKind Kind = -1

func (k Kind) String() string {
	if k == NoKind {
		return "none"
	}
	return strconv.Itoa(int(k))
}

// State is one node of the machine. C is the shared context type the states
// of a machine operate on. Update is expected to end with CheckTransitions.
type State[C any] interface {
	Enter(ctx C)
	Update(ctx C)
	Exit(ctx C)
	CheckTransitions(ctx C)
}

// Def registers one state kind with a factory.
type Def[C any] struct {
	Kind   Kind
	Name   string
	Parent Kind
	New    func() State[C]
}

// Root defines a top-level state.
func Root[C any](kind Kind, name string, newState func() State[C]) Def[C] {
	return Def[C]{Kind: kind, Name: name, Parent: NoKind, New: newState}
}

// Sub defines a state owned by the super-state parent.
func Sub[C any](kind, parent Kind, name string, newState func() State[C]) Def[C] {
	return Def[C]{Kind: kind, Name: name, Parent: parent, New: newState}
}
