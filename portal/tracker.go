package portal

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// Side is the signed alignment of point with the portal facing:
// dot(forward, normalize(point - position)). It is zero when point sits
// on the portal origin.
func (p *Portal) Side(point mgl64.Vec3) float64 {
	offset := point.Sub(p.Transform.Position)
	l := offset.Len()
	if l < 1e-12 {
		return 0
	}
	return p.Transform.Forward().Dot(offset.Mul(1 / l))
}

// sideSign folds a side value to front (+1) or back (-1); zero counts as front
func sideSign(side float64) int {
	if side >= 0 {
		return 1
	}
	return -1
}

// Travellers returns the travellers tracked by the portal
func (p *Portal) Travellers() []*Traveller {
	return p.travellers
}

// OnTriggerEnter starts tracking a traveller that touched the trigger volume.
// Travellers already tracked by any portal are ignored.
func (p *Portal) OnTriggerEnter(t *Traveller) {
	if !p.Active() || t == nil || t.Body.Removed() || t.Travelling() {
		return
	}
	p.travellers = append(p.travellers, t)
	t.begin(p, p.Side(t.Body.Transform.Position))
}

// OnTriggerExit stops tracking the traveller and restores the surface
func (p *Portal) OnTriggerExit(t *Traveller) {
	p.ResetSurface()

	i := p.indexOf(t)
	if i < 0 {
		return
	}
	p.removeAt(i)
	t.end()
}

// CheckCrossings evaluates every tracked traveller once. Travellers that
// crossed are dispatched for teleport and no longer tracked here.
func (p *Portal) CheckCrossings() {
	if !p.Active() {
		p.dropTravellers()
		return
	}

	for i := 0; i < len(p.travellers); i++ {
		t := p.travellers[i]
		if t.Body.Removed() {
			p.removeAt(i)
			t.end()
			i--
			continue
		}
		if p.evaluate(i, t) {
			i--
		}
	}
}

// Evaluate runs the crossing check for one traveller. It is a no-op for a
// traveller this portal does not track, so evaluating twice in a frame
// teleports at most once.
func (p *Portal) Evaluate(t *Traveller) bool {
	if !p.Active() {
		return false
	}
	i := p.indexOf(t)
	if i < 0 {
		return false
	}
	return p.evaluate(i, t)
}

func (p *Portal) evaluate(i int, t *Traveller) bool {
	if t.ProtectCamera {
		p.ProtectFromClipping(t.camera(p))
	}

	side := p.Side(t.Body.Transform.Position)
	if sideSign(side) == sideSign(t.previousSide) {
		t.previousSide = side
		return false
	}

	p.removeAt(i)
	t.end()

	tp := newTeleport(t, p, p.partner)
	p.logger.Debug("traveller crossed",
		zap.String("body", t.Body.Name),
		zap.String("to", p.partner.Name),
		zap.Bool("deferred", t.Deferred))

	if p.Dispatcher != nil {
		p.Dispatcher.Dispatch(tp)
	} else {
		tp.Apply()
	}
	return true
}

func (p *Portal) indexOf(t *Traveller) int {
	for i, tracked := range p.travellers {
		if tracked == t {
			return i
		}
	}
	return -1
}

func (p *Portal) removeAt(i int) {
	last := len(p.travellers) - 1
	copy(p.travellers[i:], p.travellers[i+1:])
	p.travellers[last] = nil
	p.travellers = p.travellers[:last]
}

func (p *Portal) dropTravellers() {
	for _, t := range p.travellers {
		t.end()
	}
	p.travellers = p.travellers[:0]
}
