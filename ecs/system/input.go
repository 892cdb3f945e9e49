package system

import (
	"github.com/milk9111/beastmind/ecs"
	"github.com/milk9111/beastmind/ecs/component"
)

// InputReader samples the raw input of one tick.
type InputReader func() component.Input

// InputSystem copies the sampled input into every Input component and
// derives the interact edge.
type InputSystem struct {
	read         InputReader
	prevInteract bool
}

// NewInputSystem samples input through read once per tick.
func NewInputSystem(read InputReader) *InputSystem {
	return &InputSystem{read: read}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil || i.read == nil {
		return
	}
	in := i.read()
	in.InteractPressed = in.Interact && !i.prevInteract
	i.prevInteract = in.Interact

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		*input = in
	})
}
