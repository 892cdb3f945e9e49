package component

import "github.com/milk9111/beastmind/common"

// Input is the raw input state of the current tick.
type Input struct {
	Move     common.Vec2
	Run      bool
	Jump     bool
	Interact bool
	// InteractPressed is true only on the tick Interact went down.
	InteractPressed bool
}

var InputComponent = NewComponent[Input]()
