package fsm

import (
	"errors"
	"fmt"
)

var (
	ErrNoStates        = errors.New("fsm: no states defined")
	ErrKindOutOfRange  = errors.New("fsm: state kind out of range")
	ErrDuplicateKind   = errors.New("fsm: duplicate state kind")
	ErrNilConstructor  = errors.New("fsm: nil state constructor")
	ErrInvalidParent   = errors.New("fsm: invalid parent state")
	ErrParentCycle     = errors.New("fsm: parent chain forms a cycle")
	ErrNilStateCreated = errors.New("fsm: constructor returned nil state")
)

// Factory owns exactly one instance of every state kind of a machine. All
// instances are created up front; Get never allocates.
type Factory[C any] struct {
	states  []State[C]
	names   []string
	parents []Kind
}

// NewFactory builds every state listed in defs. Kinds must cover 0..len-1
// exactly once.
func NewFactory[C any](defs ...Def[C]) (*Factory[C], error) {
	if len(defs) == 0 {
		return nil, ErrNoStates
	}

	n := len(defs)
	f := &Factory[C]{
		states:  make([]State[C], n),
		names:   make([]string, n),
		parents: make([]Kind, n),
	}

	for _, d := range defs {
		if d.Kind < 0 || int(d.Kind) >= n {
			return nil, fmt.Errorf("%w: %d (%s)", ErrKindOutOfRange, d.Kind, d.Name)
		}
		if f.states[d.Kind] != nil {
			return nil, fmt.Errorf("%w: %d (%s)", ErrDuplicateKind, d.Kind, d.Name)
		}
		if d.New == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilConstructor, d.Name)
		}
		if d.Parent != NoKind && (d.Parent < 0 || int(d.Parent) >= n || d.Parent == d.Kind) {
			return nil, fmt.Errorf("%w: %s -> %d", ErrInvalidParent, d.Name, d.Parent)
		}
		s := d.New()
		if s == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilStateCreated, d.Name)
		}
		f.states[d.Kind] = s
		f.names[d.Kind] = d.Name
		f.parents[d.Kind] = d.Parent
	}

	for k := range f.parents {
		depth := 0
		for p := f.parents[k]; p != NoKind; p = f.parents[p] {
			depth++
			if depth > n {
				return nil, fmt.Errorf("%w: %s", ErrParentCycle, f.names[k])
			}
		}
	}

	return f, nil
}

// Get returns the single instance registered for kind, or nil for an
// unknown kind.
func (f *Factory[C]) Get(kind Kind) State[C] {
	if !f.valid(kind) {
		return nil
	}
	return f.states[kind]
}

func (f *Factory[C]) Len() int {
	if f == nil {
		return 0
	}
	return len(f.states)
}

func (f *Factory[C]) Name(kind Kind) string {
	if !f.valid(kind) {
		return kind.String()
	}
	return f.names[kind]
}

// Parent returns the owning super-state, or NoKind for root states.
func (f *Factory[C]) Parent(kind Kind) Kind {
	if !f.valid(kind) {
		return NoKind
	}
	return f.parents[kind]
}

func (f *Factory[C]) IsRoot(kind Kind) bool {
	return f.valid(kind) && f.parents[kind] == NoKind
}

func (f *Factory[C]) valid(kind Kind) bool {
	return f != nil && kind >= 0 && int(kind) < len(f.states)
}
