// Package render defines the camera model and the rendering service the
// portal core talks to. The service is opaque: it allocates off-screen targets,
// renders a camera into a target and answers visibility queries.
package render

import (
	"github.com/akmonengine/warp/actor"
)

// Target is an off-screen image a camera renders into and a surface displays
type Target interface {
	Size() (width, height int)
	Release()
}

// Service is the rendering backend
type Service interface {
	// Resolution is the display size portal targets are allocated at
	Resolution() (width, height int)
	Allocate(width, height int) (Target, error)
	Render(camera *Camera, target Target) error
	// Visible is the frustum test of a world-space box against a camera
	Visible(bounds actor.AABB, camera *Camera) bool
}
