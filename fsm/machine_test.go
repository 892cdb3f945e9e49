package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	kGround Kind = iota
	kAir
	kIdle
	kWalk
)

type recorder struct {
	m      *Machine[*recorder]
	events []string
	// next maps a state to the sibling it switches to on its next check.
	next map[Kind]Kind
}

type probe struct {
	kind Kind
	name string
	sub  Kind
}

func (p *probe) Enter(r *recorder) {
	r.events = append(r.events, "enter:"+p.name+"@"+r.m.Name(r.m.Current()))
	if p.sub != NoKind {
		r.m.SetSubState(p.kind, p.sub)
	}
}

func (p *probe) Update(r *recorder) {
	r.events = append(r.events, "update:"+p.name)
	p.CheckTransitions(r)
}

func (p *probe) Exit(r *recorder) {
	r.events = append(r.events, "exit:"+p.name)
}

func (p *probe) CheckTransitions(r *recorder) {
	if to, ok := r.next[p.kind]; ok {
		delete(r.next, p.kind)
		r.m.Switch(p.kind, to)
	}
}

func newRecorder(t *testing.T, opts ...Option) *recorder {
	t.Helper()
	mk := func(kind Kind, name string, sub Kind) func() State[*recorder] {
		return func() State[*recorder] { return &probe{kind: kind, name: name, sub: sub} }
	}
	f, err := NewFactory(
		Root(kGround, "ground", mk(kGround, "ground", kIdle)),
		Root(kAir, "air", mk(kAir, "air", NoKind)),
		Sub(kIdle, kGround, "idle", mk(kIdle, "idle", NoKind)),
		Sub(kWalk, kGround, "walk", mk(kWalk, "walk", NoKind)),
	)
	require.NoError(t, err)
	r := &recorder{next: map[Kind]Kind{}}
	r.m = New(r, f, opts...)
	return r
}

func TestFactoryFlyweight(t *testing.T) {
	r := newRecorder(t)
	f := r.m.Factory()
	for k := Kind(0); int(k) < f.Len(); k++ {
		assert.Same(t, f.Get(k), f.Get(k), "kind %d", k)
	}
	assert.Nil(t, f.Get(Kind(99)))
	assert.Equal(t, kGround, f.Parent(kWalk))
	assert.True(t, f.IsRoot(kAir))
	assert.False(t, f.IsRoot(kIdle))
}

func TestFactoryValidation(t *testing.T) {
	mk := func() State[*recorder] { return &probe{sub: NoKind} }
	cases := []struct {
		name string
		defs []Def[*recorder]
		want error
	}{
		{"empty", nil, ErrNoStates},
		{"out_of_range", []Def[*recorder]{Root(Kind(3), "x", mk)}, ErrKindOutOfRange},
		{"duplicate", []Def[*recorder]{Root(0, "a", mk), Root(0, "b", mk)}, ErrDuplicateKind},
		{"nil_constructor", []Def[*recorder]{Root[*recorder](0, "a", nil)}, ErrNilConstructor},
		{"self_parent", []Def[*recorder]{Sub(0, 0, "a", mk)}, ErrInvalidParent},
		{"cycle", []Def[*recorder]{Sub(0, 1, "a", mk), Sub(1, 0, "b", mk)}, ErrParentCycle},
		{"nil_state", []Def[*recorder]{Root(0, "a", func() State[*recorder] { return nil })}, ErrNilStateCreated},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewFactory(c.defs...)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestStartEntersRootThenSubState(t *testing.T) {
	r := newRecorder(t)
	r.m.Start(kGround)

	assert.Equal(t, []string{"enter:ground@none", "enter:idle@none"}, r.events)
	assert.Equal(t, kGround, r.m.Current())
	assert.Equal(t, kIdle, r.m.SubState(kGround))
	assert.Equal(t, []Kind{kGround, kIdle}, r.m.Path())

	r.events = nil
	r.m.Start(kAir)
	assert.Empty(t, r.events, "start on a running machine is ignored")
}

func TestStartRejectsSubState(t *testing.T) {
	r := newRecorder(t)
	r.m.Start(kWalk)
	assert.Equal(t, NoKind, r.m.Current())
	assert.Empty(t, r.events)
}

func TestAdvanceForwardsToActiveSubState(t *testing.T) {
	r := newRecorder(t)
	r.m.Start(kGround)
	r.events = nil

	r.m.Advance()
	assert.Equal(t, []string{"update:ground", "update:idle"}, r.events)
}

func TestSwitchOrdering(t *testing.T) {
	var hooked [][2]Kind
	r := newRecorder(t, WithTransitionHook(func(from, to Kind) {
		hooked = append(hooked, [2]Kind{from, to})
	}))
	r.m.Start(kGround)
	r.events = nil

	// root switch: the sub-state exits before its parent, the new state
	// enters while the old one is still published.
	r.next[kGround] = kAir
	r.m.Advance()
	assert.Equal(t, []string{
		"update:ground",
		"exit:idle",
		"exit:ground",
		"enter:air@ground",
	}, r.events, "a switch ends the tick before the old sub-state updates")
	assert.Equal(t, kAir, r.m.Current())
	assert.Equal(t, NoKind, r.m.SubState(kGround))
	assert.Equal(t, [][2]Kind{{kGround, kAir}}, hooked)
}

func TestSubStateSwitchPublishesOnParent(t *testing.T) {
	r := newRecorder(t)
	r.m.Start(kGround)
	r.events = nil

	r.next[kIdle] = kWalk
	r.m.Advance()
	assert.Equal(t, []string{"update:ground", "update:idle", "exit:idle", "enter:walk@ground"}, r.events)
	assert.Equal(t, kGround, r.m.Current())
	assert.Equal(t, kWalk, r.m.SubState(kGround))
	assert.True(t, r.m.IsActive(kWalk))
	assert.False(t, r.m.IsActive(kIdle))
}

func TestSwitchRejectsInvalidRequests(t *testing.T) {
	r := newRecorder(t)
	r.m.Start(kGround)
	r.events = nil

	r.m.Switch(kAir, kGround)
	r.m.Switch(kIdle, kAir)
	r.m.Switch(kGround, kWalk)
	assert.Empty(t, r.events)
	assert.Equal(t, []Kind{kGround, kIdle}, r.m.Path())
}

func TestStopExitsInnermostFirst(t *testing.T) {
	r := newRecorder(t)
	r.m.Start(kGround)
	r.events = nil

	r.m.Stop()
	assert.Equal(t, []string{"exit:idle", "exit:ground"}, r.events)
	assert.Equal(t, NoKind, r.m.Current())
	assert.Nil(t, r.m.Path())

	r.events = nil
	r.m.Advance()
	assert.Empty(t, r.events)
}

func TestExactlyOneRootAfterManySwitches(t *testing.T) {
	r := newRecorder(t)
	r.m.Start(kGround)
	for i := 0; i < 50; i++ {
		switch r.m.Current() {
		case kGround:
			r.next[kGround] = kAir
		case kAir:
			r.next[kAir] = kGround
		}
		r.m.Advance()
		roots := 0
		for _, k := range []Kind{kGround, kAir} {
			if r.m.IsActive(k) {
				roots++
			}
		}
		require.Equal(t, 1, roots, "tick %d", i)
	}
}
