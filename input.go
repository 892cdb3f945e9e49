package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/beastmind/common"
	ecscomp "github.com/milk9111/beastmind/ecs/component"
)

const stickDeadzone = 0.2

// readKeyboard samples WASD or the arrows, shift to run, space to jump and
// E to interact. The first gamepad overrides the stick and adds its buttons.
func readKeyboard() ecscomp.Input {
	var in ecscomp.Input
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.Move.X -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.Move.X += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.Move.Y += 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.Move.Y -= 1
	}
	if h := math.Hypot(in.Move.X, in.Move.Y); h > 1 {
		in.Move = common.Vec2{X: in.Move.X / h, Y: in.Move.Y / h}
	}
	in.Run = ebiten.IsKeyPressed(ebiten.KeyShift)
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	in.Interact = ebiten.IsKeyPressed(ebiten.KeyE)

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		y := -ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if math.Hypot(x, y) > stickDeadzone {
			in.Move = common.Vec2{X: x, Y: y}
		}
		in.Run = in.Run || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		in.Jump = in.Jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.Interact = in.Interact || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft)
	}
	return in
}
