package portal

import (
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/render"
	"github.com/go-gl/mathgl/mgl64"
)

// Traveller is a body that can pass through portals
type Traveller struct {
	Body *actor.Body

	// ProtectCamera keeps the near plane from cutting the surface while the
	// traveller straddles a portal
	ProtectCamera bool
	// Camera is the camera to protect; nil falls back to the portal Viewer
	Camera *render.Camera
	// Deferred postpones the teleport to the start of the next physics step
	Deferred bool

	// OnTeleport runs after the pose and velocity are remapped, before the
	// destination portal reacts to the arrival
	OnTeleport func(t Teleport)

	portal              *Portal
	sourceWorldToLocal  mgl64.Mat4
	partnerLocalToWorld mgl64.Mat4
	previousSide        float64
}

func NewTraveller(body *actor.Body) *Traveller {
	return &Traveller{Body: body}
}

// Travelling reports whether a portal currently tracks the traveller
func (t *Traveller) Travelling() bool {
	return t.portal != nil
}

// Portal is the portal tracking the traveller, or nil
func (t *Traveller) Portal() *Portal {
	return t.portal
}

// PreviousSide is the side value recorded at the last evaluation
func (t *Traveller) PreviousSide() float64 {
	return t.previousSide
}

// RelativeTransformAtPartner is where the body would stand at the partner
// portal, using the portal poses captured when tracking began.
// It reports false when the traveller is not being tracked.
func (t *Traveller) RelativeTransformAtPartner() (actor.Transform, bool) {
	if t.portal == nil {
		return actor.Transform{}, false
	}
	m := t.partnerLocalToWorld.Mul4(t.sourceWorldToLocal).Mul4(t.Body.Transform.LocalToWorld())
	return actor.TransformFromMatrix(m), true
}

func (t *Traveller) begin(p *Portal, side float64) {
	t.portal = p
	t.sourceWorldToLocal = p.Transform.WorldToLocal()
	t.partnerLocalToWorld = p.partner.Transform.LocalToWorld()
	t.previousSide = side
}

func (t *Traveller) end() {
	t.portal = nil
}

func (t *Traveller) camera(p *Portal) *render.Camera {
	if t.Camera != nil {
		return t.Camera
	}
	return p.Viewer
}

// Teleport is a detected crossing, ready to be applied
type Teleport struct {
	Traveller *Traveller
	From      *Portal
	To        *Portal

	// Pose is the body pose at To
	Pose actor.Transform
	// Remap is To.LocalToWorld * From.WorldToLocal, applied to the velocity
	Remap mgl64.Mat4
}

func newTeleport(t *Traveller, from, to *Portal) Teleport {
	remap := to.Transform.LocalToWorld().Mul4(from.Transform.WorldToLocal())
	pose := actor.TransformFromMatrix(remap.Mul4(t.Body.Transform.LocalToWorld()))
	pose.Scale = t.Body.Transform.Scale

	return Teleport{
		Traveller: t,
		From:      from,
		To:        to,
		Pose:      pose,
		Remap:     remap,
	}
}

// Apply moves the body to the destination and remaps its velocity.
// It reports false when the body was removed before the teleport ran.
func (tp Teleport) Apply() bool {
	t := tp.Traveller
	if t == nil || t.Body.Removed() {
		return false
	}

	t.Body.SetPose(tp.Pose.Position, tp.Pose.Rotation)
	t.Body.ApplyVelocityRemap(tp.Remap)

	if t.OnTeleport != nil {
		t.OnTeleport(tp)
	}
	tp.To.Arrive(t)

	return true
}

// Arrive is the destination side of a teleport: the camera of a protected
// traveller is guarded against the destination surface right away.
func (p *Portal) Arrive(t *Traveller) {
	if t.ProtectCamera {
		p.ProtectFromClipping(t.camera(p))
	}
}
