package portal

import (
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/render"
	"github.com/pkg/errors"
)

// CameraPose places a virtual camera at destination so that it keeps the
// viewer's pose relative to source.
// Position and orientation are both mapped through
// destination.LocalToWorld * source.WorldToLocal.
func CameraPose(viewer, source, destination actor.Transform) actor.Transform {
	m := destination.LocalToWorld().Mul4(source.WorldToLocal())

	position := actor.MulPoint(m, viewer.Position)
	forward := actor.MulVector(m, viewer.Forward())
	up := actor.MulVector(m, viewer.Up())

	return actor.NewPose(position, actor.LookRotation(forward, up))
}

// Render draws the view through this portal's partner into the portal's
// target. It is skipped when the portal is inactive or when the partner
// surface, which displays the result, is outside the viewer frustum.
// The portal's own surface is hidden for the duration of the render.
func (p *Portal) Render(viewer *render.Camera) error {
	if !p.Active() || p.Camera == nil || viewer == nil || p.service == nil {
		return nil
	}
	if !p.service.Visible(p.partner.SurfaceBounds(), viewer) {
		return nil
	}

	p.Surface.Hidden = true
	defer func() { p.Surface.Hidden = false }()

	p.Camera.Transform = CameraPose(viewer.Transform, p.partner.Transform, p.Transform)
	p.Camera.FieldOfView = viewer.FieldOfView
	p.Camera.Aspect = viewer.Aspect
	p.Camera.Near = viewer.Near
	p.Camera.Far = viewer.Far

	if err := p.service.Render(p.Camera, p.target); err != nil {
		return errors.Wrapf(err, "portal %q: render", p.Name)
	}
	return nil
}
