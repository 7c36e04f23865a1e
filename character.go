package warp

import (
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/mover"
	"github.com/akmonengine/warp/portal"
	"github.com/go-gl/mathgl/mgl64"
)

// Character is a capsule body moved by the mover and able to travel through portals
type Character struct {
	Body      *actor.Body
	Traveller *portal.Traveller
	// Input is the intent used by the next physics steps
	Input mover.Input
	// EyeOffset places the viewer camera, in body space. It defaults to the
	// center of the top hemisphere.
	EyeOffset mgl64.Vec3
}

// AddCharacter adds a kinematic capsule on the player layer
func (w *World) AddCharacter(name string, transform actor.Transform, capsule *actor.Capsule) *Character {
	body := actor.NewBody(transform, capsule, actor.BodyTypeKinematic)
	body.Name = name
	body.Layer = actor.LayerPlayer
	w.AddBody(body)

	traveller := portal.NewTraveller(body)
	traveller.Deferred = w.config.Traveller.DeferredTeleport
	w.travellers[body] = traveller

	c := &Character{
		Body:      body,
		Traveller: traveller,
		EyeOffset: capsule.Center.Add(mgl64.Vec3{0, capsule.Height*0.5 - capsule.Radius, 0}),
	}
	body.Id = c
	w.characters = append(w.characters, c)

	return c
}

// Characters lists the characters in insertion order
func (w *World) Characters() []*Character {
	return w.characters
}

// SetViewer attaches the main camera and the mouse look to a character
func (w *World) SetViewer(c *Character) {
	if w.viewer != nil {
		w.viewer.Traveller.ProtectCamera = false
		w.viewer.Traveller.Camera = nil
		w.viewer.Traveller.OnTeleport = nil
	}
	w.viewer = c
	if c == nil {
		return
	}

	c.Traveller.ProtectCamera = w.config.Traveller.ProtectCamera
	c.Traveller.Camera = w.Viewer
	c.Traveller.OnTeleport = func(portal.Teleport) {
		// keep looking where the body now faces
		w.Look.SyncYaw(c.Body.Transform.Forward())
		w.syncViewer()
	}

	w.Look.SyncYaw(c.Body.Transform.Forward())
	w.syncViewer()
}

// ViewerCharacter is the character carrying the main camera, or nil
func (w *World) ViewerCharacter() *Character {
	return w.viewer
}

// syncViewer moves the main camera to the viewer's eyes
func (w *World) syncViewer() {
	if w.viewer == nil {
		return
	}
	body := w.viewer.Body
	w.Viewer.Transform.Position = body.Transform.TransformPoint(w.viewer.EyeOffset)
	w.Viewer.Transform.Rotation = w.Look.CameraRotation()
}
