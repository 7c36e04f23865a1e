package gjk

import (
	"math"

	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	maxDistanceIterations = 64

	// relativeTolerance stops the loop once |v|² - v·w is this small relative to |v|²
	relativeTolerance = 1e-12

	// touchingSqr is the squared separation treated as contact
	touchingSqr = 1e-20
)

// Distance returns the separation vector between two convex shapes: the vector
// from the closest point of b to the closest point of a. ok is false when the
// shapes overlap or touch, in which case the vector is zero.
func Distance(a, b actor.Convex) (separation mgl64.Vec3, ok bool) {
	var simplex Simplex

	// The difference of the reference points lies inside A - B for every shape we use
	v := a.Center().Sub(b.Center())

	for range maxDistanceIterations {
		vv := v.Dot(v)
		if vv < touchingSqr {
			return mgl64.Vec3{}, false
		}

		w := MinkowskiSupport(a, b, v.Mul(-1))

		if vv-v.Dot(w) <= relativeTolerance*vv || simplex.contains(w) {
			return v, true
		}

		simplex.push(w)
		v = closest(&simplex)

		if simplex.Count == 4 {
			// the origin is enclosed
			return mgl64.Vec3{}, false
		}
	}

	return v, v.LenSqr() >= touchingSqr
}

func (s *Simplex) contains(p mgl64.Vec3) bool {
	for i := range s.Count {
		if s.Points[i].Sub(p).LenSqr() < 1e-24 {
			return true
		}
	}
	return false
}

// closest returns the point of the simplex hull nearest the origin and reduces
// the simplex to the smallest feature holding that point.
func closest(s *Simplex) mgl64.Vec3 {
	switch s.Count {
	case 1:
		return s.Points[0]
	case 2:
		return closestOnSegment(s, s.Points[0], s.Points[1])
	case 3:
		return closestOnTriangle(s, s.Points[0], s.Points[1], s.Points[2])
	default:
		return closestOnTetrahedron(s)
	}
}

func closestOnSegment(s *Simplex, a, b mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-20 {
		s.set(a)
		return a
	}

	t := -a.Dot(ab) / denom
	switch {
	case t <= 0:
		s.set(a)
		return a
	case t >= 1:
		s.set(b)
		return b
	}

	s.set(a, b)
	return a.Add(ab.Mul(t))
}

// closestOnTriangle walks the Voronoi regions of ABC against the origin.
func closestOnTriangle(s *Simplex, a, b, c mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)

	ap := a.Mul(-1)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		s.set(a)
		return a
	}

	bp := b.Mul(-1)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		s.set(b)
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		s.set(a, b)
		return a.Add(ab.Mul(d1 / (d1 - d3)))
	}

	cp := c.Mul(-1)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		s.set(c)
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		s.set(a, c)
		return a.Add(ac.Mul(d2 / (d2 - d6)))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && d4-d3 >= 0 && d5-d6 >= 0 {
		s.set(b, c)
		return b.Add(c.Sub(b).Mul((d4 - d3) / ((d4 - d3) + (d5 - d6))))
	}

	sum := va + vb + vc
	if math.Abs(sum) < 1e-20 {
		// flat triangle: the answer lies on one of its edges
		return closestOnEdges(s, a, b, c)
	}

	s.set(a, b, c)
	return a.Add(ab.Mul(vb / sum)).Add(ac.Mul(vc / sum))
}

func closestOnEdges(s *Simplex, a, b, c mgl64.Vec3) mgl64.Vec3 {
	best := mgl64.Vec3{}
	bestDist := math.Inf(1)
	var bestSimplex Simplex

	for _, edge := range [3][2]mgl64.Vec3{{a, b}, {b, c}, {c, a}} {
		var candidate Simplex
		p := closestOnSegment(&candidate, edge[0], edge[1])
		if d := p.LenSqr(); d < bestDist {
			best, bestDist, bestSimplex = p, d, candidate
		}
	}

	*s = bestSimplex
	return best
}

func closestOnTetrahedron(s *Simplex) mgl64.Vec3 {
	a, b, c, d := s.Points[0], s.Points[1], s.Points[2], s.Points[3]

	faces := [4][4]mgl64.Vec3{
		{a, b, c, d},
		{a, c, d, b},
		{a, d, b, c},
		{b, d, c, a},
	}

	best := mgl64.Vec3{}
	bestDist := math.Inf(1)
	var bestSimplex Simplex
	outside := false

	for _, f := range faces {
		if !originOutsideFace(f[0], f[1], f[2], f[3]) {
			continue
		}
		outside = true

		var candidate Simplex
		p := closestOnTriangle(&candidate, f[0], f[1], f[2])
		if dist := p.LenSqr(); dist < bestDist {
			best, bestDist, bestSimplex = p, dist, candidate
		}
	}

	if !outside {
		// origin inside, keep all four points
		return mgl64.Vec3{}
	}

	*s = bestSimplex
	return best
}

// originOutsideFace reports whether the origin and the opposite vertex lie on
// different sides of the plane through p, q, r. Coplanar tetrahedra count every
// face as a candidate.
func originOutsideFace(p, q, r, opposite mgl64.Vec3) bool {
	n := q.Sub(p).Cross(r.Sub(p))
	signOrigin := p.Mul(-1).Dot(n)
	signOpposite := opposite.Sub(p).Dot(n)

	if signOpposite*signOpposite < 1e-24 {
		return true
	}
	return signOrigin*signOpposite < 0
}
