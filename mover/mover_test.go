package mover

import (
	"math"
	"testing"

	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePhysics is an empty world with an optional wall, the plane x = wallX
// facing -X, and scripted answers for the other queries.
type fakePhysics struct {
	wall  bool
	wallX float64

	grounded bool
	rayLen   float64
	sweeps   int

	overlaps    [][]*actor.Body
	penetration mgl64.Vec3
	depth       float64
}

func (f *fakePhysics) SweepCapsule(c actor.CapsuleVolume, dir mgl64.Vec3, maxDist float64, mask actor.Layer, ignore *actor.Body) (Hit, bool) {
	f.sweeps++
	if !f.wall || dir.X() <= 0 {
		return Hit{}, false
	}
	front := math.Max(c.P1.X(), c.P2.X()) + c.Radius
	distance := (f.wallX - front) / dir.X()
	if distance > maxDist {
		return Hit{}, false
	}
	return Hit{Distance: math.Max(distance, 0), Normal: mgl64.Vec3{-1, 0, 0}}, true
}

func (f *fakePhysics) OverlapCapsule(c actor.CapsuleVolume, mask actor.Layer, ignore *actor.Body) []*actor.Body {
	if len(f.overlaps) == 0 {
		return nil
	}
	next := f.overlaps[0]
	f.overlaps = f.overlaps[1:]
	return next
}

func (f *fakePhysics) ComputePenetration(a, b *actor.Body) (mgl64.Vec3, float64, bool) {
	return f.penetration, f.depth, f.depth > 0
}

func (f *fakePhysics) Raycast(origin, dir mgl64.Vec3, maxDist float64, mask actor.Layer, ignore *actor.Body) bool {
	f.rayLen = maxDist
	return f.grounded
}

func newCapsuleBody() *actor.Body {
	return actor.NewBody(actor.NewTransform(), &actor.Capsule{Radius: 0.5, Height: 2}, actor.BodyTypeKinematic)
}

func TestIntegrateConvergesToTerminalVelocity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 10
	cfg.Friction = 4
	cfg.Acceleration = 20

	forward := mgl64.Vec3{0, 0, 1}
	right := mgl64.Vec3{1, 0, 0}

	var v mgl64.Vec3
	for range 5000 {
		v = Integrate(cfg, v, forward, right, Input{Forward: 1}, false, 0.01)
	}

	assert.InDelta(t, -cfg.Gravity/cfg.Friction, v.Y(), 1e-6)
	assert.InDelta(t, cfg.Acceleration/cfg.Friction, v.Z(), 1e-6)
	assert.InDelta(t, 0, v.X(), 1e-9)
}

func TestIntegrateNoInputNoNaN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0

	v := Integrate(cfg, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}, Input{}, false, 0.02)
	assert.Equal(t, mgl64.Vec3{}, v)
}

func TestIntegrateDiagonalInputIsNormalised(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	cfg.Friction = 0

	v := Integrate(cfg, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}, Input{Forward: 1, Right: 1}, false, 1)
	assert.InDelta(t, cfg.Acceleration, v.Len(), 1e-9)
}

func TestIntegrateJumpOnlyWhenGrounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0

	airborne := Integrate(cfg, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}, Input{Jump: true}, false, 0.02)
	assert.Zero(t, airborne.Y())

	grounded := Integrate(cfg, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}, Input{Jump: true}, true, 0.02)
	assert.InDelta(t, cfg.JumpImpulse, grounded.Y(), 1e-12)
}

func TestStepConvergesWithoutObstacles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Friction = 5
	cfg.Gravity = 9.81
	m := New(cfg, &fakePhysics{})
	body := newCapsuleBody()

	for range 3000 {
		m.Step(body, Input{}, 0.01)
	}

	assert.InDelta(t, -cfg.Gravity/cfg.Friction, body.Velocity().Y(), 1e-6)
	assert.Less(t, body.Transform.Position.Y(), 0.0)
}

func TestStepZeroDeltaSkipsSweep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	physics := &fakePhysics{}
	m := New(cfg, physics)

	m.Step(newCapsuleBody(), Input{}, 0.02)
	assert.Zero(t, physics.sweeps)
}

func TestStepSlidesAlongWall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	cfg.Friction = 0
	physics := &fakePhysics{wall: true, wallX: 1}
	m := New(cfg, physics)

	body := newCapsuleBody()
	body.SetVelocity(mgl64.Vec3{10, 0, 10})

	for range 20 {
		m.Step(body, Input{}, 0.02)
	}

	assert.InDelta(t, 0, body.Velocity().X(), 1e-9, "velocity into the wall is removed")
	assert.InDelta(t, 10, body.Velocity().Z(), 1e-9, "tangential velocity is kept")
	assert.LessOrEqual(t, body.Transform.Position.X(), 0.5+1e-9, "capsule stays out of the wall")
	assert.InDelta(t, 0.5, body.Transform.Position.X(), 1e-9)
	assert.Greater(t, body.Transform.Position.Z(), 3.0)
}

func TestStepGroundRayLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	physics := &fakePhysics{grounded: true}
	m := New(cfg, physics)

	body := newCapsuleBody()
	m.Step(body, Input{Jump: true}, 0.02)

	assert.Equal(t, 1+cfg.GroundEpsilon, physics.rayLen)
	assert.Greater(t, body.Velocity().Y(), 0.0)
}

func TestStepDepenetrates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	other := newCapsuleBody()
	physics := &fakePhysics{
		overlaps:    [][]*actor.Body{{other}},
		penetration: mgl64.Vec3{1, 0, 0},
		depth:       0.25,
	}
	m := New(cfg, physics)

	body := newCapsuleBody()
	m.Step(body, Input{}, 0.02)

	assert.InDelta(t, 0.25, body.Transform.Position.X(), 1e-12)
	assert.Empty(t, physics.overlaps, "second pass finds nothing and stops")
}

func TestStepLevelsTiltedBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 0
	m := New(cfg, &fakePhysics{})

	body := newCapsuleBody()
	tilt := mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0}).Mul(mgl64.QuatRotate(mgl64.DegToRad(60), mgl64.Vec3{0, 0, 1}))
	body.SetRotation(tilt)

	for range 200 {
		m.Step(body, Input{}, 0.02)
	}

	require.Greater(t, body.Transform.Up().Y(), 0.999)
	assert.InDelta(t, 1, body.Transform.Up().Y(), 1e-9, "snapped level")
	forward := body.Transform.Forward()
	assert.InDelta(t, 1, forward.X(), 1e-6, "heading kept")
}

func TestStepIgnoresNonCapsuleAndRemoved(t *testing.T) {
	cfg := DefaultConfig()
	physics := &fakePhysics{}
	m := New(cfg, physics)

	box := actor.NewBody(actor.NewTransform(), &actor.Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, actor.BodyTypeKinematic)
	m.Step(box, Input{Forward: 1}, 0.02)
	assert.Equal(t, mgl64.Vec3{}, box.Velocity())

	removed := newCapsuleBody()
	removed.Remove()
	m.Step(removed, Input{Forward: 1}, 0.02)
	assert.Equal(t, mgl64.Vec3{}, removed.Velocity())
	assert.Zero(t, physics.sweeps)
}

func TestNearlyZero(t *testing.T) {
	assert.True(t, NearlyZero(mgl64.Vec3{1e-9, -1e-9, 0}, 1e-8))
	assert.False(t, NearlyZero(mgl64.Vec3{0, 2e-8, 0}, 1e-8))
}
