package warp

import (
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/epa"
	"github.com/akmonengine/warp/gjk"
	"github.com/akmonengine/warp/mover"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Skin is the gap sweeps keep from surfaces, and the margin added when
	// pushing bodies apart. It stays below the mover ground epsilon so a
	// resting capsule still reads as grounded.
	Skin = 5e-5

	advanceIterations = 32
	advanceTolerance  = Skin * 0.01
)

// candidates lists the solid bodies whose AABB overlaps aabb: static bodies
// through the grid, kinematic ones by a direct scan since they move within a step.
func (w *World) candidates(aabb actor.AABB, mask actor.Layer, ignore *actor.Body) []*actor.Body {
	w.queryIndices = w.SpatialGrid.Query(aabb, w.queryIndices[:0])

	var found []*actor.Body
	accept := func(b *actor.Body) {
		if b == ignore || b.Removed() || b.IsTrigger || !b.Layer.Matches(mask) {
			return
		}
		if b.AABB().Overlaps(aabb) {
			found = append(found, b)
		}
	}

	for _, i := range w.queryIndices {
		accept(w.statics[i])
	}
	for _, b := range w.kinematics {
		accept(b)
	}
	return found
}

// SweepCapsule finds the first body hit by c translated along dir.
// Bodies the capsule already overlaps are ignored, depenetration handles them.
// The returned distance stops Skin short of the surface.
func (w *World) SweepCapsule(c actor.CapsuleVolume, dir mgl64.Vec3, maxDist float64, mask actor.Layer, ignore *actor.Body) (mover.Hit, bool) {
	if maxDist <= 0 || dir.LenSqr() < 1e-16 {
		return mover.Hit{}, false
	}
	dir = dir.Normalize()

	swept := c.AABB().Union(c.Translate(dir.Mul(maxDist)).AABB()).Expand(Skin)

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	best := mover.Hit{Distance: maxDist}
	hit := false
	for _, body := range w.candidates(swept, mask, ignore) {
		simplex.Reset()
		if gjk.GJK(c, body, simplex) {
			continue
		}

		distance, normal, ok := advance(c, body, dir, maxDist)
		if ok && (!hit || distance < best.Distance) {
			best = mover.Hit{Distance: distance, Normal: normal, Body: body}
			hit = true
		}
	}

	return best, hit
}

// advance runs conservative advancement of c along dir toward body.
// Every step moves the capsule up to the separating plane given by the
// closest points, so it never tunnels through the body.
func advance(c actor.CapsuleVolume, body *actor.Body, dir mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	t := 0.0
	var normal mgl64.Vec3

	for range advanceIterations {
		separation, ok := gjk.Distance(c.Translate(dir.Mul(t)), body)
		if !ok {
			// touching: report contact at the current distance
			return t, normal, normal != (mgl64.Vec3{})
		}

		distance := separation.Len()
		normal = separation.Mul(1 / distance)

		closing := -dir.Dot(normal)
		if closing <= 1e-9 {
			return 0, mgl64.Vec3{}, false
		}

		gap := distance - Skin
		if gap <= advanceTolerance {
			return t, normal, true
		}

		t += gap / closing
		if t > maxDist {
			return 0, mgl64.Vec3{}, false
		}
	}

	return t, normal, true
}

// OverlapCapsule lists the solid bodies intersecting c
func (w *World) OverlapCapsule(c actor.CapsuleVolume, mask actor.Layer, ignore *actor.Body) []*actor.Body {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	var overlaps []*actor.Body
	for _, body := range w.candidates(c.AABB(), mask, ignore) {
		simplex.Reset()
		if gjk.GJK(c, body, simplex) {
			overlaps = append(overlaps, body)
		}
	}
	return overlaps
}

// ComputePenetration returns the translation of a, direction times
// distance, that separates it from b with a Skin margin
func (w *World) ComputePenetration(a, b *actor.Body) (mgl64.Vec3, float64, bool) {
	if a.Shape == nil || b.Shape == nil {
		return mgl64.Vec3{}, 0, false
	}

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	if !gjk.GJK(a, b, simplex) {
		return mgl64.Vec3{}, 0, false
	}

	penetration, err := epa.EPA(a, b, simplex)
	if err != nil || penetration.Normal.LenSqr() < 1e-16 {
		return mgl64.Vec3{}, 0, false
	}

	return penetration.Normal.Mul(-1), penetration.Depth + Skin, true
}

// Raycast reports whether the segment origin + dir*[0, maxDist] touches a
// solid body
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask actor.Layer, ignore *actor.Body) bool {
	if maxDist <= 0 || dir.LenSqr() < 1e-16 {
		return false
	}
	ray := actor.Segment{From: origin, To: origin.Add(dir.Normalize().Mul(maxDist))}

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	for _, body := range w.candidates(ray.AABB(), mask, ignore) {
		simplex.Reset()
		if gjk.GJK(ray, body, simplex) {
			return true
		}
	}
	return false
}
