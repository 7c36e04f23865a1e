// Package input abstracts the polled input the player controller consumes.
package input

// Key is a logical action key, mapped to physical keys by each Source
type Key int

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyJump
	// KeyUnlock releases a locked mouse cursor
	KeyUnlock
)

// Source is polled once per frame
type Source interface {
	KeyDown(key Key) bool
	// MouseDelta is the cursor motion since the previous poll
	MouseDelta() (dx, dy float64)
}

// Axes reads the movement keys as two axes in [-1, 1] plus the jump flag.
// Opposite keys cancel out.
func Axes(src Source) (forward, right float64, jump bool) {
	if src == nil {
		return 0, 0, false
	}
	if src.KeyDown(KeyForward) {
		forward++
	}
	if src.KeyDown(KeyBack) {
		forward--
	}
	if src.KeyDown(KeyRight) {
		right++
	}
	if src.KeyDown(KeyLeft) {
		right--
	}
	return forward, right, src.KeyDown(KeyJump)
}
