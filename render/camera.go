package render

import (
	"math"

	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a perspective camera looking down its local +Z.
// FieldOfView is vertical, in degrees.
type Camera struct {
	Transform   actor.Transform
	FieldOfView float64
	Aspect      float64
	Near        float64
	Far         float64
}

// NewCamera returns a camera with the usual first-person defaults
func NewCamera(aspect float64) *Camera {
	return &Camera{
		Transform:   actor.NewTransform(),
		FieldOfView: 60,
		Aspect:      aspect,
		Near:        0.01,
		Far:         1000,
	}
}

// ViewMatrix maps world space to an OpenGL-style view space (looking down -Z).
// The camera looks down its local +Z, hence the half turn about Y.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	pose := c.Transform
	pose.Scale = mgl64.Vec3{1, 1, 1}
	return mgl64.HomogRotate3DY(math.Pi).Mul4(pose.WorldToLocal())
}

func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FieldOfView), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// NearPlaneHalfExtents returns half the width and height of the near clip rectangle
func (c *Camera) NearPlaneHalfExtents() (halfWidth, halfHeight float64) {
	halfHeight = math.Tan(mgl64.DegToRad(c.FieldOfView)*0.5) * c.Near
	halfWidth = halfHeight * c.Aspect
	return halfWidth, halfHeight
}

// NearPlaneCornerDistance is the distance from the camera to a corner of the
// near clip rectangle.
func (c *Camera) NearPlaneCornerDistance() float64 {
	halfWidth, halfHeight := c.NearPlaneHalfExtents()
	return mgl64.Vec3{halfWidth, halfHeight, c.Near}.Len()
}
