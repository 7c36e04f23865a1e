package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypeCapsule
)

// ShapeInterface is the interface that all collision shapes must implement.
// Shapes are described in the body's local space, scale already baked in.
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform) AABB
	// Support returns the furthest local point along a local direction
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// Convex is anything GJK and EPA can query: a world-space support mapping
// plus a reference point used to seed the search direction.
type Convex interface {
	SupportWorld(direction mgl64.Vec3) mgl64.Vec3
	Center() mgl64.Vec3
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

func (b *Box) ComputeAABB(transform Transform) AABB {
	// The 8 corners in local space
	corners := [8]mgl64.Vec3{
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
	}

	rotation := transform.rotation()
	worldCorner := rotation.Rotate(corners[0]).Add(transform.Position)
	min := worldCorner
	max := worldCorner

	for i := 1; i < 8; i++ {
		worldCorner = rotation.Rotate(corners[i]).Add(transform.Position)

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	return AABB{Min: min, Max: max}
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) AABB {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	return AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return safeNormalize(direction).Mul(s.Radius)
}

// Capsule is a cylinder capped by two hemispheres, aligned with local +Y.
// Height is measured tip to tip and is never less than 2*Radius.
// Center offsets the capsule from the body origin.
type Capsule struct {
	Radius float64
	Height float64
	Center mgl64.Vec3
}

func (c *Capsule) Type() ShapeType {
	return ShapeTypeCapsule
}

// halfSegment is the distance from the capsule center to either sphere center
func (c *Capsule) halfSegment() float64 {
	return math.Max(c.Height*0.5-c.Radius, 0)
}

// Segment returns the local centers of the top and bottom hemispheres
func (c *Capsule) Segment() (top, bottom mgl64.Vec3) {
	h := c.halfSegment()
	return c.Center.Add(mgl64.Vec3{0, h, 0}), c.Center.Sub(mgl64.Vec3{0, h, 0})
}

func (c *Capsule) ComputeAABB(transform Transform) AABB {
	return c.Volume(transform).AABB()
}

func (c *Capsule) Support(direction mgl64.Vec3) mgl64.Vec3 {
	top, bottom := c.Segment()
	tip := top
	if direction.Y() < 0 {
		tip = bottom
	}
	return tip.Add(safeNormalize(direction).Mul(c.Radius))
}

// Volume returns the capsule placed in world space by transform
func (c *Capsule) Volume(transform Transform) CapsuleVolume {
	top, bottom := c.Segment()
	rotation := transform.rotation()
	return CapsuleVolume{
		P1:     transform.Position.Add(rotation.Rotate(top)),
		P2:     transform.Position.Add(rotation.Rotate(bottom)),
		Radius: c.Radius,
	}
}

// CapsuleVolume is a world-space capsule: the segment P1-P2 inflated by Radius.
// It is the query shape for sweeps and overlaps.
type CapsuleVolume struct {
	P1     mgl64.Vec3
	P2     mgl64.Vec3
	Radius float64
}

func (c CapsuleVolume) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	tip := c.P1
	if direction.Dot(c.P2.Sub(c.P1)) > 0 {
		tip = c.P2
	}
	return tip.Add(safeNormalize(direction).Mul(c.Radius))
}

func (c CapsuleVolume) Center() mgl64.Vec3 {
	return c.P1.Add(c.P2).Mul(0.5)
}

// Translate returns the capsule moved by offset
func (c CapsuleVolume) Translate(offset mgl64.Vec3) CapsuleVolume {
	return CapsuleVolume{P1: c.P1.Add(offset), P2: c.P2.Add(offset), Radius: c.Radius}
}

func (c CapsuleVolume) AABB() AABB {
	r := mgl64.Vec3{c.Radius, c.Radius, c.Radius}
	bounds := AABB{Min: c.P1, Max: c.P1}.Union(AABB{Min: c.P2, Max: c.P2})
	return AABB{Min: bounds.Min.Sub(r), Max: bounds.Max.Add(r)}
}

// Segment is a world-space line segment, used as a ray for boolean raycasts
type Segment struct {
	From mgl64.Vec3
	To   mgl64.Vec3
}

func (s Segment) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.Dot(s.To.Sub(s.From)) > 0 {
		return s.To
	}
	return s.From
}

func (s Segment) Center() mgl64.Vec3 {
	return s.From.Add(s.To).Mul(0.5)
}

func (s Segment) AABB() AABB {
	return AABB{Min: s.From, Max: s.From}.Union(AABB{Min: s.To, Max: s.To})
}

// safeNormalize returns the zero vector instead of NaN for degenerate input
func safeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-12 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
