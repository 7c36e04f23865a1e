package portal

import (
	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Edge names one border of the portal surface
type Edge int

const (
	EdgeRight  Edge = iota // +X
	EdgeLeft               // -X
	EdgeTop                // +Y
	EdgeBottom             // -Y
)

var edgeDirections = [4][2]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func (e Edge) String() string {
	switch e {
	case EdgeRight:
		return "+X"
	case EdgeLeft:
		return "-X"
	case EdgeTop:
		return "+Y"
	case EdgeBottom:
		return "-Y"
	}
	return "?"
}

// EdgeColliders are four thin static boxes framing the surface, so bodies
// cannot slip around the portal border.
type EdgeColliders [4]*actor.Body

// NewEdgeColliders builds the frame for a surface of the given scale
func NewEdgeColliders(transform actor.Transform, scale mgl64.Vec3, thickness float64) EdgeColliders {
	var edges EdgeColliders
	for i := range edges {
		edges[i] = actor.NewBody(transform, &actor.Box{}, actor.BodyTypeStatic)
	}
	edges.Place(transform, scale, thickness)
	return edges
}

// Place lays the frame out around the surface
func (e EdgeColliders) Place(transform actor.Transform, scale mgl64.Vec3, thickness float64) {
	for i, body := range e {
		if body == nil {
			continue
		}
		dx, dy := edgeDirections[i][0], edgeDirections[i][1]

		center := mgl64.Vec3{dx * scale.X() * 0.5, dy * scale.Y() * 0.5, 0}
		size := mgl64.Vec3{scale.X(), scale.Y(), thickness}
		if dx != 0 {
			size[0] = thickness
		}
		if dy != 0 {
			size[1] = thickness
		}

		body.Shape = &actor.Box{HalfExtents: size.Mul(0.5)}
		body.SetPose(transform.TransformPoint(center), transform.Rotation)
	}
}

// Valid reports whether all four edges exist
func (e EdgeColliders) Valid() bool {
	for _, body := range e {
		if body == nil {
			return false
		}
	}
	return true
}
