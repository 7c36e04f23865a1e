package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// BodyType represents how a body participates in the simulation
type BodyType int

const (
	// BodyTypeStatic bodies never move (walls, floors, portal frames)
	BodyTypeStatic BodyType = iota

	// BodyTypeKinematic bodies are moved explicitly by a mover or a teleport,
	// never by contact response
	BodyTypeKinematic
)

// Layer is a collision layer bit set
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerIgnoreRaycast
	LayerPlayer
)

const (
	// AllLayers matches every layer
	AllLayers Layer = ^Layer(0)
	// DefaultLayers matches everything except LayerIgnoreRaycast
	DefaultLayers = AllLayers &^ LayerIgnoreRaycast
)

// Matches reports whether the layer is part of mask
func (l Layer) Matches(mask Layer) bool {
	return l&mask != 0
}

// Body is a physical entity in the world.
// Velocity only changes through SetVelocity (movement phase) and
// ApplyVelocityRemap (teleport phase).
type Body struct {
	ID   uuid.UUID
	Name string
	// Id is free user data, typically the owning game object
	Id any

	Transform Transform
	velocity  mgl64.Vec3

	BodyType  BodyType
	Layer     Layer
	IsTrigger bool

	// Collision shape
	Shape ShapeInterface

	aabb    AABB
	removed bool
}

// NewBody creates a body with the given shape and computes its AABB
func NewBody(transform Transform, shape ShapeInterface, bodyType BodyType) *Body {
	if transform.Rotation == (mgl64.Quat{}) {
		transform.Rotation = mgl64.QuatIdent()
	}

	b := &Body{
		ID:        uuid.New(),
		Transform: transform,
		Shape:     shape,
		BodyType:  bodyType,
		Layer:     LayerDefault,
	}
	b.RefreshAABB()

	return b
}

// NewTrigger creates a static trigger volume
func NewTrigger(transform Transform, shape ShapeInterface) *Body {
	b := NewBody(transform, shape, BodyTypeStatic)
	b.IsTrigger = true
	return b
}

func (b *Body) Velocity() mgl64.Vec3 {
	return b.velocity
}

func (b *Body) SetVelocity(v mgl64.Vec3) {
	b.velocity = v
}

// ApplyVelocityRemap transforms the velocity by m as a direction,
// translation ignored
func (b *Body) ApplyVelocityRemap(m mgl64.Mat4) {
	b.velocity = MulVector(m, b.velocity)
}

// SetPose moves the body to an exact position and rotation
func (b *Body) SetPose(position mgl64.Vec3, rotation mgl64.Quat) {
	b.Transform.Position = position
	b.Transform.Rotation = rotation
	b.RefreshAABB()
}

// Translate moves the body by offset
func (b *Body) Translate(offset mgl64.Vec3) {
	b.Transform.Position = b.Transform.Position.Add(offset)
	b.RefreshAABB()
}

// SetRotation replaces the body orientation
func (b *Body) SetRotation(rotation mgl64.Quat) {
	b.Transform.Rotation = rotation
	b.RefreshAABB()
}

func (b *Body) RefreshAABB() {
	if b.Shape == nil {
		b.aabb = AABB{Min: b.Transform.Position, Max: b.Transform.Position}
		return
	}
	b.aabb = b.Shape.ComputeAABB(b.Transform)
}

func (b *Body) AABB() AABB {
	return b.aabb
}

// Remove flags the body as destroyed; holders drop it lazily
func (b *Body) Remove() {
	b.removed = true
}

func (b *Body) Removed() bool {
	return b == nil || b.removed
}

// Capsule returns the body shape as a capsule, or nil
func (b *Body) Capsule() *Capsule {
	c, _ := b.Shape.(*Capsule)
	return c
}

// SupportWorld returns the furthest world point of the shape along direction
func (b *Body) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	rotation := b.Transform.rotation()

	// 1. Direction into local space (inverse rotation)
	localDirection := rotation.Conjugate().Rotate(direction)

	// 2. Local support
	localSupport := b.Shape.Support(localDirection)

	// 3. Back to world space (rotation + translation)
	return b.Transform.Position.Add(rotation.Rotate(localSupport))
}

func (b *Body) Center() mgl64.Vec3 {
	if c := b.Capsule(); c != nil {
		return b.Transform.TransformPoint(c.Center)
	}
	return b.Transform.Position
}
