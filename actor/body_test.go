package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewBodyDefaults(t *testing.T) {
	body := NewBody(Transform{Position: mgl64.Vec3{1, 2, 3}}, &Sphere{Radius: 1}, BodyTypeKinematic)

	if body.Transform.Rotation != mgl64.QuatIdent() {
		t.Errorf("Rotation = %v, want identity", body.Transform.Rotation)
	}
	if body.Layer != LayerDefault {
		t.Errorf("Layer = %v, want LayerDefault", body.Layer)
	}
	expected := AABB{Min: mgl64.Vec3{0, 1, 2}, Max: mgl64.Vec3{2, 3, 4}}
	if body.AABB() != expected {
		t.Errorf("AABB = %v, want %v", body.AABB(), expected)
	}
	if body.ID == NewBody(NewTransform(), &Sphere{Radius: 1}, BodyTypeStatic).ID {
		t.Error("Two bodies share an ID")
	}
}

func TestNewTrigger(t *testing.T) {
	trigger := NewTrigger(NewTransform(), &Box{HalfExtents: mgl64.Vec3{1, 1, 1}})

	if !trigger.IsTrigger || trigger.BodyType != BodyTypeStatic {
		t.Errorf("Trigger = static %v, trigger %v", trigger.BodyType == BodyTypeStatic, trigger.IsTrigger)
	}
}

func TestBodyMovesRefreshAABB(t *testing.T) {
	body := NewBody(NewTransform(), &Box{HalfExtents: mgl64.Vec3{1, 0.5, 0.5}}, BodyTypeKinematic)

	body.Translate(mgl64.Vec3{2, 0, 0})
	if got := body.AABB().Center(); !vecNear(got, mgl64.Vec3{2, 0, 0}, eps) {
		t.Errorf("AABB center after Translate = %v", got)
	}

	body.SetRotation(mgl64.QuatRotate(math.Pi/2, WorldUp))
	aabb := body.AABB()
	if !vecNear(aabb.Max.Sub(aabb.Min), mgl64.Vec3{1, 1, 2}, eps) {
		t.Errorf("AABB size after rotation = %v, want (1, 1, 2)", aabb.Max.Sub(aabb.Min))
	}

	body.SetPose(mgl64.Vec3{0, 5, 0}, mgl64.QuatIdent())
	if got := body.AABB().Center(); !vecNear(got, mgl64.Vec3{0, 5, 0}, eps) {
		t.Errorf("AABB center after SetPose = %v", got)
	}
}

func TestApplyVelocityRemap(t *testing.T) {
	body := NewBody(NewTransform(), &Sphere{Radius: 1}, BodyTypeKinematic)
	body.SetVelocity(mgl64.Vec3{0, 0, 5})

	remap := mgl64.Translate3D(10, 0, 0).Mul4(mgl64.HomogRotate3DY(math.Pi))
	body.ApplyVelocityRemap(remap)

	if !vecNear(body.Velocity(), mgl64.Vec3{0, 0, -5}, eps) {
		t.Errorf("Velocity = %v, want (0, 0, -5)", body.Velocity())
	}
}

func TestRemoved(t *testing.T) {
	var missing *Body
	if !missing.Removed() {
		t.Error("nil body should read as removed")
	}

	body := NewBody(NewTransform(), &Sphere{Radius: 1}, BodyTypeKinematic)
	if body.Removed() {
		t.Error("fresh body reads as removed")
	}
	body.Remove()
	if !body.Removed() {
		t.Error("Remove did not flag the body")
	}
}

func TestLayerMatches(t *testing.T) {
	tests := []struct {
		name     string
		layer    Layer
		mask     Layer
		expected bool
	}{
		{"default in default mask", LayerDefault, DefaultLayers, true},
		{"player in default mask", LayerPlayer, DefaultLayers, true},
		{"ignore raycast excluded", LayerIgnoreRaycast, DefaultLayers, false},
		{"every layer", LayerIgnoreRaycast, AllLayers, true},
		{"empty mask", LayerDefault, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.layer.Matches(tt.mask); got != tt.expected {
				t.Errorf("Matches = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSupportWorld(t *testing.T) {
	body := NewBody(NewPose(mgl64.Vec3{1, 0, 0}, mgl64.QuatRotate(math.Pi/2, WorldUp)), &Box{HalfExtents: mgl64.Vec3{2, 1, 0.5}}, BodyTypeStatic)

	// the long local X axis now lies along world -Z
	got := body.SupportWorld(mgl64.Vec3{0, 0, -1})
	if math.Abs(got.Z()+2) > eps {
		t.Errorf("SupportWorld(-Z).Z = %v, want -2", got.Z())
	}
}

func TestCapsuleCenter(t *testing.T) {
	body := NewBody(NewPose(mgl64.Vec3{0, 0, 3}, mgl64.QuatIdent()), &Capsule{Radius: 0.5, Height: 2, Center: mgl64.Vec3{0, 1, 0}}, BodyTypeKinematic)

	if !vecNear(body.Center(), mgl64.Vec3{0, 1, 3}, eps) {
		t.Errorf("Center = %v, want (0, 1, 3)", body.Center())
	}
	if body.Capsule() == nil {
		t.Error("Capsule() = nil for a capsule body")
	}

	box := NewBody(NewTransform(), &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, BodyTypeStatic)
	if box.Capsule() != nil {
		t.Error("Capsule() should be nil for a box")
	}
}
