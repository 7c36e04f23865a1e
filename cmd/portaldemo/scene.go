package main

import (
	"github.com/akmonengine/warp"
	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

type wall struct {
	name     string
	position mgl64.Vec3
	half     mgl64.Vec3
}

// two rooms side by side, joined only by the portal pair
var walls = []wall{
	{"floor", mgl64.Vec3{5, -0.5, 5}, mgl64.Vec3{12, 0.5, 12}},
	{"divider", mgl64.Vec3{5, 1.5, 5}, mgl64.Vec3{0.25, 1.5, 12}},
	{"north", mgl64.Vec3{5, 1.5, 17}, mgl64.Vec3{12, 1.5, 0.25}},
	{"south", mgl64.Vec3{5, 1.5, -7}, mgl64.Vec3{12, 1.5, 0.25}},
	{"west", mgl64.Vec3{-7, 1.5, 5}, mgl64.Vec3{0.25, 1.5, 12}},
	{"east", mgl64.Vec3{17, 1.5, 5}, mgl64.Vec3{0.25, 1.5, 12}},
}

func buildScene(world *warp.World) error {
	for _, w := range walls {
		body := actor.NewBody(actor.NewPose(w.position, mgl64.QuatIdent()), &actor.Box{HalfExtents: w.half}, actor.BodyTypeStatic)
		body.Name = w.name
		world.AddBody(body)
	}

	a := actor.NewPose(mgl64.Vec3{0, 1.4, 5}, mgl64.QuatIdent())
	b := actor.NewPose(mgl64.Vec3{10, 1.4, 5}, mgl64.QuatRotate(mgl64.DegToRad(180), actor.WorldUp))
	if _, _, err := world.AddPortalPair("A", a, "B", b); err != nil {
		return errors.Wrap(err, "portal pair")
	}

	player := world.AddCharacter("player", actor.NewPose(mgl64.Vec3{0, 0.01, 0}, mgl64.QuatIdent()), &actor.Capsule{
		Radius: 0.5,
		Height: 2,
		Center: mgl64.Vec3{0, 1, 0},
	})
	world.SetViewer(player)

	return nil
}
