package portal

import (
	"github.com/akmonengine/warp/render"
	"github.com/go-gl/mathgl/mgl64"
)

// ProtectFromClipping thickens the surface toward the far side of the portal,
// as seen from camera, so the near plane never cuts through it while the
// camera straddles the portal plane.
// The offset is applied along the portal's local Z.
func (p *Portal) ProtectFromClipping(camera *render.Camera) {
	if camera == nil {
		return
	}
	depth := camera.NearPlaneCornerDistance()

	toPortal := p.Transform.Position.Sub(camera.Transform.Position)
	offset := -depth * 0.5
	if p.Transform.Forward().Dot(toPortal) > 0 {
		offset = depth * 0.5
	}

	p.Surface.LocalScale = mgl64.Vec3{p.surfaceScale.X(), p.surfaceScale.Y(), depth}
	p.Surface.LocalPosition = mgl64.Vec3{0, 0, offset}
}

// ResetSurface restores the thin, centred surface
func (p *Portal) ResetSurface() {
	p.Surface.LocalScale = p.surfaceScale
	p.Surface.LocalPosition = mgl64.Vec3{}
}
