package render

import (
	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Plane is the half-space Normal·p + D >= 0
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// Distance is the signed distance from the plane, positive inside
func (p Plane) Distance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six clip planes: left, right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts normalized planes from a view-projection matrix
// (Gribb/Hartmann). mgl64 matrices are column-major, Row gives the matrix rows.
func FrustumFromMatrix(vp mgl64.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)

	var f Frustum
	f.Planes[0] = newPlane(r3.Add(r0))
	f.Planes[1] = newPlane(r3.Sub(r0))
	f.Planes[2] = newPlane(r3.Add(r1))
	f.Planes[3] = newPlane(r3.Sub(r1))
	f.Planes[4] = newPlane(r3.Add(r2))
	f.Planes[5] = newPlane(r3.Sub(r2))
	return f
}

func newPlane(v mgl64.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W() / l}
}

// IntersectsAABB tests the box corner furthest along each plane normal.
// Conservative: boxes near frustum corners may pass.
func (f Frustum) IntersectsAABB(box actor.AABB) bool {
	for _, p := range f.Planes {
		positive := box.Min
		for i := range 3 {
			if p.Normal[i] >= 0 {
				positive[i] = box.Max[i]
			}
		}
		if p.Distance(positive) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether point lies inside all six planes
func (f Frustum) ContainsPoint(point mgl64.Vec3) bool {
	for _, p := range f.Planes {
		if p.Distance(point) < 0 {
			return false
		}
	}
	return true
}
