package mover

import (
	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// slide moves the body by v*dt, sliding along whatever it hits, and returns
// the velocity with the blocked components removed.
func (m *Mover) slide(body *actor.Body, capsule *actor.Capsule, v mgl64.Vec3, dt float64) mgl64.Vec3 {
	delta := v.Mul(dt)

	for range m.Config.Iterations {
		if NearlyZero(delta, m.Config.NearlyZero) {
			break
		}

		distance := delta.Len()
		direction := delta.Mul(1 / distance)

		volume := capsule.Volume(body.Transform)
		hit, blocked := m.physics.SweepCapsule(volume, direction, distance, m.Config.CollisionMask, body)

		move := delta
		if blocked {
			move = direction.Mul(mgl64.Clamp(hit.Distance, 0, distance))
		}
		body.Translate(move)
		delta = delta.Sub(move)

		if !blocked {
			continue
		}

		v = v.Sub(hit.Normal.Mul(hit.Normal.Dot(v)))
		if NearlyZero(delta, m.Config.NearlyZero) {
			break
		}
		delta = delta.Sub(hit.Normal.Mul(hit.Normal.Dot(delta)))
	}

	return v
}

// depenetrate pushes the body out of every body it still overlaps
func (m *Mover) depenetrate(body *actor.Body, capsule *actor.Capsule) {
	for range m.Config.DepenetrationPasses {
		overlaps := m.physics.OverlapCapsule(capsule.Volume(body.Transform), m.Config.CollisionMask, body)

		moved := false
		for _, other := range overlaps {
			if other == body {
				continue
			}
			direction, distance, ok := m.physics.ComputePenetration(body, other)
			if !ok || distance <= 0 {
				continue
			}
			body.Translate(direction.Mul(distance))
			moved = true
		}

		if !moved {
			return
		}
	}
}

// upright rotates the body toward a level pose keeping its heading, and
// snaps once it is close enough.
func (m *Mover) upright(body *actor.Body, dt float64) {
	rotation := body.Transform.Rotation
	target := level(body.Transform)
	if actor.SameOrientation(rotation, target, 1e-12) {
		return
	}
	if body.Transform.Up().Y() > 0.999 {
		body.SetRotation(target)
		return
	}
	if rotation.Dot(target) < 0 {
		target = target.Scale(-1)
	}

	t := mgl64.Clamp(m.Config.UprightSpeed*dt, 0, 1)
	next := mgl64.QuatSlerp(rotation, target, t).Normalize()
	if next.Rotate(actor.WorldUp).Y() > 0.999 {
		next = target
	}
	body.SetRotation(next)
}

// level is the upright rotation sharing the transform's heading
func level(t actor.Transform) mgl64.Quat {
	forward := t.Forward()
	heading := mgl64.Vec3{forward.X(), 0, forward.Z()}
	if heading.LenSqr() < 1e-12 {
		// looking straight up or down: the heading is where the up axis leans
		up := t.Up()
		heading = mgl64.Vec3{up.X(), 0, up.Z()}
		if forward.Y() > 0 {
			heading = heading.Mul(-1)
		}
	}
	return actor.LookRotation(heading, actor.WorldUp)
}
