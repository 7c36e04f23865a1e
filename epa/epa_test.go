package epa

import (
	"math"
	"testing"

	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

func vec3ApproxEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) <= tolerance &&
		math.Abs(a.Y()-b.Y()) <= tolerance &&
		math.Abs(a.Z()-b.Z()) <= tolerance
}

func newBox(position, halfExtents mgl64.Vec3) *actor.Body {
	return actor.NewBody(actor.NewPose(position, mgl64.QuatIdent()), &actor.Box{HalfExtents: halfExtents}, actor.BodyTypeStatic)
}

func newSphere(position mgl64.Vec3, radius float64) *actor.Body {
	return actor.NewBody(actor.NewPose(position, mgl64.QuatIdent()), &actor.Sphere{Radius: radius}, actor.BodyTypeStatic)
}

func penetrate(t *testing.T, a, b actor.Convex) Penetration {
	t.Helper()
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	if !gjk.GJK(a, b, simplex) {
		t.Fatal("GJK found no overlap")
	}
	penetration, err := EPA(a, b, simplex)
	if err != nil {
		t.Fatalf("EPA: %v", err)
	}
	return penetration
}

func TestEPABoxes(t *testing.T) {
	tests := []struct {
		name   string
		b      *actor.Body
		normal mgl64.Vec3
		depth  float64
	}{
		{"shallow on X", newBox(mgl64.Vec3{1.5, 0.2, 0.1}, mgl64.Vec3{1, 1, 1}), mgl64.Vec3{1, 0, 0}, 0.5},
		{"shallow on -Y", newBox(mgl64.Vec3{0.1, -1.8, 0.3}, mgl64.Vec3{1, 1, 1}), mgl64.Vec3{0, -1, 0}, 0.2},
		{"thin plate on Z", newBox(mgl64.Vec3{0.3, 0.2, 1.05}, mgl64.Vec3{3, 3, 0.1}), mgl64.Vec3{0, 0, 1}, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
			penetration := penetrate(t, a, tt.b)

			if math.Abs(penetration.Depth-tt.depth) > 1e-4 {
				t.Errorf("Depth = %v, want %v", penetration.Depth, tt.depth)
			}
			if !vec3ApproxEqual(penetration.Normal, tt.normal, 1e-4) {
				t.Errorf("Normal = %v, want %v", penetration.Normal, tt.normal)
			}
		})
	}
}

func TestEPASpheres(t *testing.T) {
	a := newSphere(mgl64.Vec3{}, 1)
	b := newSphere(mgl64.Vec3{1.5, 0, 0}, 1)

	penetration := penetrate(t, a, b)

	if math.Abs(penetration.Depth-0.5) > 1e-2 {
		t.Errorf("Depth = %v, want ~0.5", penetration.Depth)
	}
	if penetration.Normal.Dot(mgl64.Vec3{1, 0, 0}) < 0.99 {
		t.Errorf("Normal = %v, want ~(1, 0, 0)", penetration.Normal)
	}
}

func TestEPASeparatesShapes(t *testing.T) {
	a := newBox(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})
	b := newBox(mgl64.Vec3{1.2, 0.4, -0.3}, mgl64.Vec3{0.5, 0.5, 0.5})

	penetration := penetrate(t, a, b)
	a.Translate(penetration.Normal.Mul(-(penetration.Depth + 1e-3)))

	simplex := &gjk.Simplex{}
	if gjk.GJK(a, b, simplex) {
		t.Errorf("Shapes still overlap after moving by the penetration %v", penetration)
	}
}

// TestSnapNormalToAxis tests the normal snapping function for numerical stability
func TestSnapNormalToAxis(t *testing.T) {
	tests := []struct {
		name     string
		input    mgl64.Vec3
		expected mgl64.Vec3
	}{
		{
			name:     "small_x_component",
			input:    mgl64.Vec3{1e-9, 1.0, 0.0},
			expected: mgl64.Vec3{0.0, 1.0, 0.0},
		},
		{
			name:     "small_z_component",
			input:    mgl64.Vec3{0.0, -1.0, 1e-9},
			expected: mgl64.Vec3{0.0, -1.0, 0.0},
		},
		{
			name:     "diagonal_normal",
			input:    mgl64.Vec3{1.0, 1.0, 1.0}.Normalize(),
			expected: mgl64.Vec3{1.0, 1.0, 1.0}.Normalize(),
		},
		{
			name:     "near_zero_vector",
			input:    mgl64.Vec3{1e-9, 1e-9, 1e-9},
			expected: mgl64.Vec3{0.0, 1.0, 0.0}, // fallback
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := snapNormalToAxis(tt.input)

			if !vec3ApproxEqual(result, tt.expected, 1e-12) {
				t.Errorf("snapNormalToAxis(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if math.Abs(result.Len()-1) > 1e-12 {
				t.Errorf("result %v is not unit length", result)
			}
		})
	}
}
