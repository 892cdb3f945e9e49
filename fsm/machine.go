package fsm

import "go.uber.org/zap"

// Option configures a Machine.
type Option func(*options)

type options struct {
	log   *zap.Logger
	name  string
	hooks []func(from, to Kind)
}

// WithLogger routes transition logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithName labels the machine in logs.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithTransitionHook is called after every completed switch, root or sub.
func WithTransitionHook(fn func(from, to Kind)) Option {
	return func(o *options) {
		if fn != nil {
			o.hooks = append(o.hooks, fn)
		}
	}
}

// Machine runs one agent's states. It owns the current root state and the
// active child of every super-state; states never hold pointers back to the
// machine and address each other by Kind.
type Machine[C any] struct {
	ctx     C
	factory *Factory[C]
	current Kind
	active  []Kind
	gen     uint64

	log   *zap.Logger
	name  string
	hooks []func(from, to Kind)
}

// New creates a stopped machine over ctx. Call Start to enter the initial
// state.
func New[C any](ctx C, factory *Factory[C], opts ...Option) *Machine[C] {
	o := options{log: zap.NewNop(), name: "fsm"}
	for _, opt := range opts {
		opt(&o)
	}
	active := make([]Kind, factory.Len())
	for i := range active {
		active[i] = NoKind
	}
	return &Machine[C]{
		ctx:     ctx,
		factory: factory,
		current: NoKind,
		active:  active,
		log:     o.log,
		name:    o.name,
		hooks:   o.hooks,
	}
}

// Start enters the root state initial. It is a no-op on a running machine.
func (m *Machine[C]) Start(initial Kind) {
	if m == nil || m.current != NoKind {
		return
	}
	if !m.factory.IsRoot(initial) {
		m.log.Error("fsm: start state is not a root state",
			zap.String("machine", m.name), zap.String("state", m.factory.Name(initial)))
		return
	}
	m.factory.Get(initial).Enter(m.ctx)
	m.current = initial
	m.gen++
	m.log.Debug("fsm: start", zap.String("machine", m.name), zap.String("state", m.factory.Name(initial)))
}

// Advance runs one tick: the root state updates, then each active child in
// turn. A switch anywhere in the chain ends the tick.
func (m *Machine[C]) Advance() {
	if m == nil || m.current == NoKind {
		return
	}
	gen := m.gen
	for k := m.current; k != NoKind; k = m.active[k] {
		m.factory.Get(k).Update(m.ctx)
		if m.gen != gen {
			return
		}
	}
}

// Switch leaves from and enters its sibling to. from's active descendants
// exit first (innermost first), then from exits, then to enters, and only
// then does to become the published state of its level.
func (m *Machine[C]) Switch(from, to Kind) {
	if m == nil {
		return
	}
	if !m.IsActive(from) {
		m.log.Warn("fsm: switch from inactive state",
			zap.String("machine", m.name),
			zap.String("from", m.factory.Name(from)),
			zap.String("to", m.factory.Name(to)))
		return
	}
	parent := m.factory.Parent(from)
	if m.factory.Get(to) == nil || m.factory.Parent(to) != parent {
		m.log.Error("fsm: switch across levels",
			zap.String("machine", m.name),
			zap.String("from", m.factory.Name(from)),
			zap.String("to", m.factory.Name(to)))
		return
	}

	m.exitBranch(from)
	m.gen++
	m.factory.Get(to).Enter(m.ctx)
	if parent == NoKind {
		m.current = to
	} else {
		m.active[parent] = to
	}

	m.log.Debug("fsm: switch",
		zap.String("machine", m.name),
		zap.String("from", m.factory.Name(from)),
		zap.String("to", m.factory.Name(to)))
	for _, h := range m.hooks {
		h(from, to)
	}
}

// SetSubState activates child under parent and enters it. Super-states call
// it from Enter to pick their initial child.
func (m *Machine[C]) SetSubState(parent, child Kind) {
	if m == nil {
		return
	}
	if m.factory.Get(child) == nil || m.factory.Parent(child) != parent {
		m.log.Error("fsm: sub-state does not belong to parent",
			zap.String("machine", m.name),
			zap.String("parent", m.factory.Name(parent)),
			zap.String("child", m.factory.Name(child)))
		return
	}
	if prev := m.active[parent]; prev != NoKind {
		m.exitBranch(prev)
	}
	m.gen++
	m.factory.Get(child).Enter(m.ctx)
	m.active[parent] = child
}

// Stop exits the whole active branch and leaves the machine without a
// current state.
func (m *Machine[C]) Stop() {
	if m == nil || m.current == NoKind {
		return
	}
	m.exitBranch(m.current)
	m.current = NoKind
	m.gen++
}

// Current returns the active root state, or NoKind before Start.
func (m *Machine[C]) Current() Kind {
	if m == nil {
		return NoKind
	}
	return m.current
}

// SubState returns the active child of parent.
func (m *Machine[C]) SubState(parent Kind) Kind {
	if m == nil || parent < 0 || int(parent) >= len(m.active) {
		return NoKind
	}
	return m.active[parent]
}

// Path lists the active branch from the root down to the leaf.
func (m *Machine[C]) Path() []Kind {
	if m == nil || m.current == NoKind {
		return nil
	}
	var path []Kind
	for k := m.current; k != NoKind; k = m.active[k] {
		path = append(path, k)
	}
	return path
}

// IsActive reports whether kind is on the active branch.
func (m *Machine[C]) IsActive(kind Kind) bool {
	if m == nil || m.factory.Get(kind) == nil {
		return false
	}
	parent := m.factory.Parent(kind)
	if parent == NoKind {
		return m.current == kind
	}
	return m.active[parent] == kind && m.IsActive(parent)
}

// Name returns the registered name of kind.
func (m *Machine[C]) Name(kind Kind) string {
	if m == nil {
		return kind.String()
	}
	return m.factory.Name(kind)
}

// Factory exposes the machine's state registry.
func (m *Machine[C]) Factory() *Factory[C] {
	if m == nil {
		return nil
	}
	return m.factory
}

func (m *Machine[C]) exitBranch(kind Kind) {
	if child := m.active[kind]; child != NoKind {
		m.exitBranch(child)
		m.active[kind] = NoKind
	}
	m.factory.Get(kind).Exit(m.ctx)
}
