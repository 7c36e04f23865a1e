// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA runs after GJK reports an overlap. Starting from GJK's final tetrahedron it
// grows a polytope inside the Minkowski difference A - B until the face closest to
// the origin stops moving. That face gives the minimum translation vector:
// the direction and distance that separate the two shapes.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"math"

	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMaxIterations limits polytope expansion. Rounded shapes (capsules,
	// spheres) converge slowly, so on exhaustion the best face so far is returned.
	EPAMaxIterations = 64

	// EPAConvergenceTolerance is the largest gap allowed between the closest
	// face and the support point found along its normal.
	EPAConvergenceTolerance = 1e-4

	// EPAMinFaceDistance is the minimum face distance before we skip it.
	// Faces very close to or behind the origin are likely degenerate.
	EPAMinFaceDistance = 1e-6

	// NormalSnapThreshold is used to clamp nearly-zero normal components to exactly zero.
	NormalSnapThreshold = 1e-8

	// DegeneratePenetrationEstimate is the fallback depth when GJK stopped short
	// of a tetrahedron (shapes barely touching).
	DegeneratePenetrationEstimate = 0.01

	polytopeInitialCapacity = 16
)

// Penetration is the minimum translation between two overlapping shapes.
// Normal points from A toward B in the A - B convention: moving A by
// -Normal*Depth (or B by +Normal*Depth) separates them.
type Penetration struct {
	Normal mgl64.Vec3
	Depth  float64
}

// EPA computes the penetration between two shapes GJK found overlapping.
//
// Algorithm overview:
//  1. Build a closed polytope from the GJK tetrahedron
//  2. Find the face closest to the origin
//  3. Query the support point along its normal
//  4. Converged if the support point is no further than the face: done
//  5. Otherwise add the point, rebuild the horizon and repeat
func EPA(a, b actor.Convex, simplex *gjk.Simplex) (Penetration, error) {
	if simplex.Count < 4 {
		return handleDegenerateSimplex(a, b, simplex), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()

	if err := builder.BuildInitialFaces(simplex); err != nil {
		return Penetration{}, err
	}

	best := Penetration{Normal: mgl64.Vec3{0, 1, 0}, Depth: math.Inf(1)}

	for range EPAMaxIterations {
		if len(builder.faces) == 0 {
			break
		}

		closestIndex := builder.FindClosestFaceIndex()
		closestFace := builder.faces[closestIndex]

		if closestFace.Distance < EPAMinFaceDistance {
			builder.removeFace(closestIndex)
			continue
		}

		best = Penetration{Normal: closestFace.Normal, Depth: closestFace.Distance}

		support := gjk.MinkowskiSupport(a, b, closestFace.Normal)
		if support.Dot(closestFace.Normal)-closestFace.Distance < EPAConvergenceTolerance {
			return best, nil
		}

		builder.AddPointAndRebuildFaces(support, closestIndex)
	}

	if math.IsInf(best.Depth, 1) {
		return handleDegenerateSimplex(a, b, simplex), nil
	}

	return best, nil
}

// handleDegenerateSimplex estimates a penetration when GJK ended with fewer than
// four points, which only happens for grazing contact.
func handleDegenerateSimplex(a, b actor.Convex, simplex *gjk.Simplex) Penetration {
	if simplex.Count >= 2 {
		p0 := simplex.Points[0]
		p1 := simplex.Points[1]

		closest := p0
		if p1.LenSqr() < p0.LenSqr() {
			closest = p1
		}

		if depth := closest.Len(); depth > NormalSnapThreshold {
			return Penetration{Normal: closest.Mul(1 / depth), Depth: depth}
		}
	}

	// Estimate the normal from the reference points
	normal := b.Center().Sub(a.Center())
	normalLen := normal.Len()

	if normalLen < NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Mul(1.0 / normalLen)
	}

	return Penetration{Normal: normal, Depth: DegeneratePenetrationEstimate}
}

// snapNormalToAxis clamps nearly-zero components of a normal vector to exactly zero.
//
// Axis-aligned contacts (capsule against a wall) then produce exact normals
// instead of carrying 1e-17 noise into the slide projection.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	clamped := normal
	for i := range 3 {
		if math.Abs(clamped[i]) < NormalSnapThreshold {
			clamped[i] = 0
		}
	}

	length := clamped.Len()
	if length < 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}

	return clamped.Mul(1.0 / length)
}
