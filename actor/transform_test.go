package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func vecNear(a, b mgl64.Vec3, tolerance float64) bool {
	return a.Sub(b).Len() <= tolerance
}

func matNear(a, b mgl64.Mat4, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}

func TestTransformRoundTrip(t *testing.T) {
	transform := Transform{
		Position: mgl64.Vec3{1, -2, 3},
		Rotation: mgl64.QuatRotate(0.8, mgl64.Vec3{1, 1, 0}.Normalize()),
		Scale:    mgl64.Vec3{2, 0.5, 3},
	}

	points := []mgl64.Vec3{
		{0, 0, 0},
		{1, 2, 3},
		{-4, 0.5, 7},
	}

	for _, p := range points {
		world := transform.TransformPoint(p)
		back := transform.InverseTransformPoint(world)
		if !vecNear(p, back, eps) {
			t.Errorf("round trip of %v gave %v", p, back)
		}
	}

	identity := transform.LocalToWorld().Mul4(transform.WorldToLocal())
	if !matNear(identity, mgl64.Ident4(), eps) {
		t.Errorf("LocalToWorld * WorldToLocal = %v, want identity", identity)
	}
}

func TestZeroValueTransformIsIdentity(t *testing.T) {
	var transform Transform

	if got := transform.TransformPoint(mgl64.Vec3{1, 2, 3}); !vecNear(got, mgl64.Vec3{1, 2, 3}, eps) {
		t.Errorf("zero transform moved the point to %v", got)
	}
	if got := transform.Forward(); !vecNear(got, mgl64.Vec3{0, 0, 1}, eps) {
		t.Errorf("Forward = %v, want +Z", got)
	}
}

func TestAxes(t *testing.T) {
	transform := NewPose(mgl64.Vec3{}, mgl64.QuatRotate(math.Pi/2, WorldUp))

	tests := []struct {
		name     string
		got      mgl64.Vec3
		expected mgl64.Vec3
	}{
		{"forward", transform.Forward(), mgl64.Vec3{1, 0, 0}},
		{"right", transform.Right(), mgl64.Vec3{0, 0, -1}},
		{"up", transform.Up(), mgl64.Vec3{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecNear(tt.got, tt.expected, eps) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestMulVectorIgnoresTranslation(t *testing.T) {
	m := mgl64.Translate3D(5, 5, 5)
	if got := MulVector(m, mgl64.Vec3{1, 0, 0}); !vecNear(got, mgl64.Vec3{1, 0, 0}, eps) {
		t.Errorf("MulVector = %v, want (1, 0, 0)", got)
	}
	if got := MulPoint(m, mgl64.Vec3{1, 0, 0}); !vecNear(got, mgl64.Vec3{6, 5, 5}, eps) {
		t.Errorf("MulPoint = %v, want (6, 5, 5)", got)
	}
}

func TestTransformFromMatrix(t *testing.T) {
	tests := []struct {
		name      string
		transform Transform
	}{
		{"identity", NewTransform()},
		{"translated", NewPose(mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent())},
		{"half turn", NewPose(mgl64.Vec3{10, 0, 0}, mgl64.QuatRotate(math.Pi, WorldUp))},
		{"scaled and tilted", Transform{
			Position: mgl64.Vec3{-1, 0, 4},
			Rotation: mgl64.QuatRotate(1.1, mgl64.Vec3{0, 0, 1}),
			Scale:    mgl64.Vec3{2, 3, 4},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransformFromMatrix(tt.transform.LocalToWorld())

			if !vecNear(got.Position, tt.transform.Position, eps) {
				t.Errorf("Position = %v, want %v", got.Position, tt.transform.Position)
			}
			if !vecNear(got.Scale, tt.transform.scale(), 1e-9) {
				t.Errorf("Scale = %v, want %v", got.Scale, tt.transform.scale())
			}
			if !SameOrientation(got.Rotation, tt.transform.rotation(), 1e-9) {
				t.Errorf("Rotation = %v, want %v", got.Rotation, tt.transform.rotation())
			}
		})
	}
}

func TestLookRotation(t *testing.T) {
	tests := []struct {
		name    string
		forward mgl64.Vec3
		up      mgl64.Vec3
	}{
		{"along +Z", mgl64.Vec3{0, 0, 1}, WorldUp},
		{"along -Z", mgl64.Vec3{0, 0, -1}, WorldUp},
		{"along +X", mgl64.Vec3{3, 0, 0}, WorldUp},
		{"diagonal", mgl64.Vec3{1, 1, 1}, WorldUp},
		{"up parallel to forward", mgl64.Vec3{0, 1, 0}, WorldUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := LookRotation(tt.forward, tt.up)
			pose := NewPose(mgl64.Vec3{}, q)

			if !vecNear(pose.Forward(), tt.forward.Normalize(), 1e-9) {
				t.Errorf("Forward = %v, want %v", pose.Forward(), tt.forward.Normalize())
			}
			if pose.Up().Dot(pose.Forward()) > 1e-9 {
				t.Errorf("Up %v not orthogonal to forward", pose.Up())
			}
			if tt.forward.Cross(tt.up).LenSqr() > 1e-12 && pose.Up().Dot(tt.up) <= 0 {
				t.Errorf("Up %v leans away from %v", pose.Up(), tt.up)
			}
		})
	}

	if q := LookRotation(mgl64.Vec3{}, WorldUp); q != mgl64.QuatIdent() {
		t.Errorf("degenerate forward gave %v, want identity", q)
	}
}

func TestSameOrientation(t *testing.T) {
	q := mgl64.QuatRotate(0.5, WorldUp)
	negated := mgl64.Quat{W: -q.W, V: q.V.Mul(-1)}

	if !SameOrientation(q, negated, 1e-12) {
		t.Error("q and -q should describe the same rotation")
	}
	if SameOrientation(q, mgl64.QuatIdent(), 1e-6) {
		t.Error("different rotations reported equal")
	}
}
