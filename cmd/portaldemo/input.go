package main

import (
	"github.com/akmonengine/warp/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var bindings = map[input.Key][]ebiten.Key{
	input.KeyForward: {ebiten.KeyW, ebiten.KeyUp},
	input.KeyBack:    {ebiten.KeyS, ebiten.KeyDown},
	input.KeyLeft:    {ebiten.KeyA, ebiten.KeyLeft},
	input.KeyRight:   {ebiten.KeyD, ebiten.KeyRight},
	input.KeyJump:    {ebiten.KeySpace},
	input.KeyUnlock:  {ebiten.KeyEscape},
}

// keyboard is the input.Source of the demo: keys from the bindings above,
// look from the cursor motion between two polls.
type keyboard struct {
	lastX, lastY int
	dx, dy       float64
	primed       bool
}

// Poll samples the cursor once per tick
func (k *keyboard) Poll() {
	x, y := ebiten.CursorPosition()
	if !k.primed {
		k.lastX, k.lastY = x, y
		k.primed = true
	}
	k.dx, k.dy = float64(x-k.lastX), float64(y-k.lastY)
	k.lastX, k.lastY = x, y
}

// Reset drops the cursor history, used when the cursor mode changes
func (k *keyboard) Reset() {
	k.primed = false
	k.dx, k.dy = 0, 0
}

func (k *keyboard) KeyDown(key input.Key) bool {
	for _, physical := range bindings[key] {
		if ebiten.IsKeyPressed(physical) {
			return true
		}
	}
	return false
}

// MouseDelta reports cursor motion only while the cursor is captured,
// screen Y grows downward so it is flipped to tilt up
func (k *keyboard) MouseDelta() (float64, float64) {
	if ebiten.CursorMode() != ebiten.CursorModeCaptured {
		return 0, 0
	}
	return k.dx, -k.dy
}

// UnlockPressed reports the frame the unlock key went down
func (k *keyboard) UnlockPressed() bool {
	for _, physical := range bindings[input.KeyUnlock] {
		if inpututil.IsKeyJustPressed(physical) {
			return true
		}
	}
	return false
}

var _ input.Source = (*keyboard)(nil)
