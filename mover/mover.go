// Package mover moves a kinematic capsule through a static world: velocity
// integration with acceleration, friction, gravity and jumps, then an
// iterative sweep-and-slide against the world followed by overlap
// depenetration.
package mover

import (
	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Config holds the movement tunables
type Config struct {
	Acceleration float64
	Friction     float64
	JumpImpulse  float64
	Gravity      float64
	// Iterations bounds the sweep-and-slide passes per step
	Iterations int

	// Upright levels the body back toward world up
	Upright      bool
	UprightSpeed float64

	GroundEpsilon float64
	// NearlyZero is the per-component threshold under which a delta stops the slide
	NearlyZero float64
	// CollisionMask filters the sweep, the overlap pass and the ground ray
	CollisionMask       actor.Layer
	DepenetrationPasses int
}

func DefaultConfig() Config {
	return Config{
		Acceleration:        50,
		Friction:            8,
		JumpImpulse:         6,
		Gravity:             20,
		Iterations:          3,
		Upright:             true,
		UprightSpeed:        10,
		GroundEpsilon:       1e-4,
		NearlyZero:          1e-8,
		CollisionMask:       actor.DefaultLayers,
		DepenetrationPasses: 2,
	}
}

// Input is one physics step worth of player intent.
// Forward and Right are axes in [-1, 1].
type Input struct {
	Forward float64
	Right   float64
	Jump    bool
}

// Hit is the first blocking contact of a sweep
type Hit struct {
	// Distance travelled along the sweep direction before contact
	Distance float64
	// Normal points away from the hit surface, toward the swept capsule
	Normal mgl64.Vec3
	Body   *actor.Body
}

// Physics is the collision world the mover queries. Triggers never take part.
type Physics interface {
	// SweepCapsule casts c along the unit direction dir up to maxDist
	SweepCapsule(c actor.CapsuleVolume, dir mgl64.Vec3, maxDist float64, mask actor.Layer, ignore *actor.Body) (Hit, bool)
	// OverlapCapsule lists the bodies intersecting c
	OverlapCapsule(c actor.CapsuleVolume, mask actor.Layer, ignore *actor.Body) []*actor.Body
	// ComputePenetration returns the translation dir*dist that separates a from b
	ComputePenetration(a, b *actor.Body) (dir mgl64.Vec3, dist float64, ok bool)
	// Raycast reports whether anything lies within maxDist of origin along dir
	Raycast(origin, dir mgl64.Vec3, maxDist float64, mask actor.Layer, ignore *actor.Body) bool
}

// Mover drives capsule bodies. It keeps no per-body state, the velocity
// lives on the body.
type Mover struct {
	Config  Config
	physics Physics
}

func New(cfg Config, physics Physics) *Mover {
	return &Mover{Config: cfg, physics: physics}
}

// Step advances body by dt. Bodies without a capsule shape are left alone.
func (m *Mover) Step(body *actor.Body, in Input, dt float64) {
	if body.Removed() || dt <= 0 {
		return
	}
	capsule := body.Capsule()
	if capsule == nil {
		return
	}

	grounded := false
	if in.Jump {
		grounded = m.Grounded(body)
	}
	v := Integrate(m.Config, body.Velocity(), body.Transform.Forward(), body.Transform.Right(), in, grounded, dt)

	v = m.slide(body, capsule, v, dt)
	body.SetVelocity(v)

	m.depenetrate(body, capsule)

	if m.Config.Upright {
		m.upright(body, dt)
	}
}

// Integrate applies acceleration with friction, gravity and the jump impulse.
// forward and right are the body axes the input is expressed in.
func Integrate(cfg Config, v, forward, right mgl64.Vec3, in Input, grounded bool, dt float64) mgl64.Vec3 {
	var accel mgl64.Vec3
	wish := forward.Mul(in.Forward).Add(right.Mul(in.Right))
	if l := wish.Len(); l > 1e-12 {
		accel = wish.Mul(cfg.Acceleration / l)
	}

	v = v.Add(accel.Sub(v.Mul(cfg.Friction)).Mul(dt))
	v = v.Sub(actor.WorldUp.Mul(cfg.Gravity * dt))

	if in.Jump && grounded {
		v = v.Add(actor.WorldUp.Mul(cfg.JumpImpulse))
	}
	return v
}

// Grounded casts a ray from the capsule center straight down, half the
// capsule height plus GroundEpsilon long.
func (m *Mover) Grounded(body *actor.Body) bool {
	capsule := body.Capsule()
	if capsule == nil {
		return false
	}
	length := capsule.Height*0.5 + m.Config.GroundEpsilon
	return m.physics.Raycast(body.Center(), actor.WorldUp.Mul(-1), length, m.Config.CollisionMask, body)
}

// NearlyZero reports whether every component of v is within epsilon of zero
func NearlyZero(v mgl64.Vec3, epsilon float64) bool {
	return mgl64.Abs(v.X()) <= epsilon && mgl64.Abs(v.Y()) <= epsilon && mgl64.Abs(v.Z()) <= epsilon
}
