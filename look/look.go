// Package look turns mouse motion into first-person yaw and pitch.
package look

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Config holds the mouse-look tunables. Angles are in degrees.
type Config struct {
	Sensitivity float64
	MinTilt     float64
	MaxTilt     float64
	LockMouse   bool
}

func DefaultConfig() Config {
	return Config{
		Sensitivity: 1,
		MinTilt:     -90,
		MaxTilt:     90,
		LockMouse:   true,
	}
}

// Controller accumulates mouse deltas into a yaw in [0, 360) and a pitch
// clamped to [MinTilt, MaxTilt]. Positive pitch looks up.
type Controller struct {
	Config Config
	yaw    float64
	pitch  float64
}

func NewController(cfg Config) *Controller {
	return &Controller{Config: cfg}
}

// Yaw in degrees, [0, 360)
func (c *Controller) Yaw() float64 {
	return c.yaw
}

// Pitch in degrees
func (c *Controller) Pitch() float64 {
	return c.pitch
}

// Update folds one frame of mouse motion into the view angles
func (c *Controller) Update(dx, dy, dt float64) {
	scale := dt * c.Config.Sensitivity
	c.yaw = wrap(c.yaw + dx*scale)
	c.pitch = mgl64.Clamp(c.pitch+dy*scale, c.Config.MinTilt, c.Config.MaxTilt)
}

// CameraRotation is yaw about world up, then pitch about the local right axis
func (c *Controller) CameraRotation() mgl64.Quat {
	return c.BodyRotation().Mul(mgl64.QuatRotate(mgl64.DegToRad(-c.pitch), mgl64.Vec3{1, 0, 0}))
}

// BodyRotation carries the yaw only, so the body stays upright
func (c *Controller) BodyRotation() mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(c.yaw), mgl64.Vec3{0, 1, 0})
}

// SyncYaw re-derives the yaw from a body forward vector, typically after a
// teleport turned the body. A vertical forward leaves the yaw unchanged.
func (c *Controller) SyncYaw(forward mgl64.Vec3) {
	if forward.X()*forward.X()+forward.Z()*forward.Z() < 1e-12 {
		return
	}
	c.yaw = wrap(mgl64.RadToDeg(math.Atan2(forward.X(), forward.Z())))
}

func wrap(degrees float64) float64 {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	if degrees >= 360 {
		degrees = 0
	}
	return degrees
}
