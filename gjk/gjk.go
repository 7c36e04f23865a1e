// Package gjk implements the Gilbert-Johnson-Keerthi algorithm on support-mapped
// convex shapes.
//
// Two queries are offered:
//   - GJK: boolean intersection, leaving a tetrahedron around the origin that EPA
//     can expand into a penetration depth;
//   - Distance: separation vector between two disjoint shapes, used by swept
//     queries to find the time and normal of first contact.
//
// Both work on the Minkowski difference A - B, which contains the origin exactly
// when the shapes overlap. Shapes only need a world-space support function.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
//   - Ericson: "Real-Time Collision Detection" (2005), closest point on triangle
package gjk

import (
	"sync"

	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// maxIterations bounds the intersection loop
const maxIterations = 32

// Simplex holds 1-4 points of the Minkowski difference, newest last.
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) push(p mgl64.Vec3) {
	s.Points[s.Count] = p
	s.Count++
}

func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport returns the furthest point of A - B along direction:
// support(A, d) - support(B, -d).
func MinkowskiSupport(a, b actor.Convex, direction mgl64.Vec3) mgl64.Vec3 {
	return a.SupportWorld(direction).Sub(b.SupportWorld(direction.Mul(-1)))
}

// GJK reports whether a and b overlap.
//
// On a hit the simplex is a tetrahedron enclosing the origin (or a smaller,
// degenerate simplex when the shapes only touch), ready for EPA.
func GJK(a, b actor.Convex, simplex *Simplex) bool {
	// Seed toward B, usually saves an iteration over an arbitrary axis
	direction := b.Center().Sub(a.Center())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.set(MinkowskiSupport(a, b, direction))
	direction = simplex.Points[0].Mul(-1)

	if direction.LenSqr() < 1e-16 {
		return true
	}

	for range maxIterations {
		p := MinkowskiSupport(a, b, direction)

		// The new point did not pass the origin: a separating axis exists
		if p.Dot(direction) <= 0 {
			return false
		}

		simplex.push(p)

		if refine(simplex, &direction) {
			return true
		}
	}

	return false
}

// refine keeps the simplex feature closest to the origin and points the search
// direction at the origin. Only a tetrahedron can report containment.
func refine(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
	}
	return false
}

// line handles the segment AB, A being the newest point.
func line(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		simplex.set(a)
		*direction = ao
		return false
	}

	// Origin behind A: only A matters
	if ab.Dot(ao) <= 0 {
		simplex.set(a)
		*direction = ao
		return false
	}

	perp := ab.Cross(ao).Cross(ab)
	if perp.LenSqr() < 1e-8 {
		// origin lies on the segment
		return true
	}

	*direction = perp
	return false
}

// triangle handles ABC, A being the newest point.
func triangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	abc := ab.Cross(ac)

	// Collinear points, fall back to the newest edge
	if abc.LenSqr() < 1e-10 {
		simplex.set(b, a)
		return line(simplex, direction)
	}

	if ab.Cross(abc).Dot(ao) > 0 {
		simplex.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	if abc.Cross(ac).Dot(ao) > 0 {
		simplex.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if abc.Dot(ao) > 0 {
		*direction = abc
	} else {
		// below the face: flip the winding so the next tetrahedron stays consistent
		simplex.set(a, c, b)
		*direction = abc.Mul(-1)
	}

	return false
}

// tetrahedron handles ABCD, A being the newest point.
func tetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[3]
	b := simplex.Points[2]
	c := simplex.Points[1]
	d := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	// Face normals, oriented away from the opposite vertex
	abc := outward(ab.Cross(ac), ad)
	acd := outward(ac.Cross(ad), ab)
	adb := outward(ad.Cross(ab), ac)

	if abc.LenSqr() < 1e-10 || acd.LenSqr() < 1e-10 || adb.LenSqr() < 1e-10 {
		simplex.set(c, b, a)
		return triangle(simplex, direction)
	}

	switch {
	case abc.Dot(ao) > 0:
		simplex.set(c, b, a)
		return triangle(simplex, direction)
	case acd.Dot(ao) > 0:
		simplex.set(d, c, a)
		return triangle(simplex, direction)
	case adb.Dot(ao) > 0:
		simplex.set(b, d, a)
		return triangle(simplex, direction)
	}

	return true
}

func outward(normal, toOpposite mgl64.Vec3) mgl64.Vec3 {
	if normal.Dot(toOpposite) > 0 {
		return normal.Mul(-1)
	}
	return normal
}
