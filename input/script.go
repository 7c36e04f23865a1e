package input

// Script is a Source driven by code, for tests and headless runs.
// Held keys stay down until released; mouse deltas are consumed by the
// next MouseDelta call.
type Script struct {
	held   map[Key]bool
	dx, dy float64
}

func NewScript() *Script {
	return &Script{held: make(map[Key]bool)}
}

func (s *Script) Press(keys ...Key) {
	for _, k := range keys {
		s.held[k] = true
	}
}

func (s *Script) Release(keys ...Key) {
	for _, k := range keys {
		delete(s.held, k)
	}
}

// ReleaseAll lets go of every key
func (s *Script) ReleaseAll() {
	clear(s.held)
}

// Move queues cursor motion
func (s *Script) Move(dx, dy float64) {
	s.dx += dx
	s.dy += dy
}

func (s *Script) KeyDown(key Key) bool {
	return s.held[key]
}

func (s *Script) MouseDelta() (float64, float64) {
	dx, dy := s.dx, s.dy
	s.dx, s.dy = 0, 0
	return dx, dy
}
