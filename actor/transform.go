package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// WorldUp is the +Y axis shared by gravity, grounding and upright correction
	WorldUp = mgl64.Vec3{0, 1, 0}

	localForward = mgl64.Vec3{0, 0, 1}
	localUp      = mgl64.Vec3{0, 1, 0}
	localRight   = mgl64.Vec3{1, 0, 0}
)

// Transform represents a pose in 3D space.
// Every oriented object looks down its local +Z, with local +Y as up.
// A zero Scale is read as a unit scale, so literals without Scale stay valid.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// NewPose creates a unit-scale transform at the given position and rotation
func NewPose(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: mgl64.Vec3{1, 1, 1}}
}

func (t Transform) scale() mgl64.Vec3 {
	if t.Scale == (mgl64.Vec3{}) {
		return mgl64.Vec3{1, 1, 1}
	}
	return t.Scale
}

func (t Transform) rotation() mgl64.Quat {
	if t.Rotation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

// LocalToWorld returns T * R * S
func (t Transform) LocalToWorld() mgl64.Mat4 {
	s := t.scale()
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.rotation().Mat4()).
		Mul4(mgl64.Scale3D(s.X(), s.Y(), s.Z()))
}

// WorldToLocal returns the inverse of LocalToWorld, built from the inverted
// components rather than a general matrix inverse.
func (t Transform) WorldToLocal() mgl64.Mat4 {
	s := t.scale()
	p := t.Position
	return mgl64.Scale3D(1/s.X(), 1/s.Y(), 1/s.Z()).
		Mul4(t.rotation().Conjugate().Mat4()).
		Mul4(mgl64.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// Forward is the local +Z axis in world space
func (t Transform) Forward() mgl64.Vec3 {
	return t.rotation().Rotate(localForward)
}

// Up is the local +Y axis in world space
func (t Transform) Up() mgl64.Vec3 {
	return t.rotation().Rotate(localUp)
}

// Right is the local +X axis in world space
func (t Transform) Right() mgl64.Vec3 {
	return t.rotation().Rotate(localRight)
}

// TransformPoint maps a local point to world space
func (t Transform) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return MulPoint(t.LocalToWorld(), p)
}

// InverseTransformPoint maps a world point to local space
func (t Transform) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return MulPoint(t.WorldToLocal(), p)
}

// MulPoint applies m to p, translation included
func MulPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// MulVector applies m to v, ignoring translation
func MulVector(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// TransformFromMatrix decomposes a T*R*S matrix.
// Position comes from column 3, scale from the basis column lengths and the
// rotation from the normalised 3x3 part.
func TransformFromMatrix(m mgl64.Mat4) Transform {
	x := m.Col(0).Vec3()
	y := m.Col(1).Vec3()
	z := m.Col(2).Vec3()

	scale := mgl64.Vec3{x.Len(), y.Len(), z.Len()}
	for i := range 3 {
		if scale[i] < 1e-12 {
			return Transform{Position: m.Col(3).Vec3(), Rotation: mgl64.QuatIdent(), Scale: scale}
		}
	}

	basis := mgl64.Mat3FromCols(x.Mul(1/scale[0]), y.Mul(1/scale[1]), z.Mul(1/scale[2]))

	return Transform{
		Position: m.Col(3).Vec3(),
		Rotation: mgl64.Mat4ToQuat(basis.Mat4()).Normalize(),
		Scale:    scale,
	}
}

// LookRotation returns the rotation whose local +Z points along forward and
// whose local +Y is as close as possible to up.
// A degenerate forward returns identity; an up parallel to forward falls back
// to a perpendicular axis.
func LookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	if forward.LenSqr() < 1e-16 {
		return mgl64.QuatIdent()
	}
	z := forward.Normalize()

	x := up.Cross(z)
	if x.LenSqr() < 1e-16 {
		// up is parallel to forward, pick any axis orthogonal to z
		fallback := mgl64.Vec3{1, 0, 0}
		if math.Abs(z.X()) > 0.9 {
			fallback = mgl64.Vec3{0, 0, 1}
		}
		x = fallback.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}

// SameOrientation reports whether two quaternions describe the same rotation,
// treating q and -q as equal.
func SameOrientation(a, b mgl64.Quat, epsilon float64) bool {
	return math.Abs(a.Dot(b)) > 1-epsilon
}
