package epa

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangle of the polytope with its outward unit normal and its
// distance to the origin along that normal.
type Face struct {
	Points   [3]mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// newFaceOutward builds the face p0 p1 p2 with a normal pointing away from
// the reference point inside the polytope.
func newFaceOutward(p0, p1, p2, inside mgl64.Vec3) Face {
	face := Face{Points: [3]mgl64.Vec3{p0, p1, p2}}

	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	normalLength := normal.Len()
	if normalLength < 1e-12 {
		// zero area, keep it last in line
		face.Normal = mgl64.Vec3{0, 1, 0}
		face.Distance = EPAMinFaceDistance
		return face
	}
	normal = normal.Mul(1.0 / normalLength)

	if normal.Dot(inside.Sub(p0)) > 0 {
		normal = normal.Mul(-1)
	}

	distance := p0.Dot(normal)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}

	face.Normal = snapNormalToAxis(normal)
	face.Distance = distance

	return face
}

// compareVec3 orders vectors lexicographically (x, then y, then z)
func compareVec3(a, b mgl64.Vec3) int {
	for i := range 3 {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}
