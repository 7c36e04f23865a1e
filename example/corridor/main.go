package main

import (
	"fmt"
	"os"

	"github.com/akmonengine/warp"
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/config"
	"github.com/akmonengine/warp/input"
	"github.com/akmonengine/warp/internal/logging"
	"github.com/akmonengine/warp/render"
	"github.com/go-gl/mathgl/mgl64"
)

// A character walks down a corridor, steps through portal A and comes out of
// portal B, ten meters to the side and facing the other way.
// Everything runs headless: portal renders are only recorded.

const (
	frameDt = 1.0 / 60.0
	frames  = 180
)

func SetupScene(cfg config.Config, service render.Service) (*warp.World, *warp.Character, error) {
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	world, err := warp.NewWorld(cfg, logger, service)
	if err != nil {
		return nil, nil, err
	}

	// Floor, top face at y=0
	floor := actor.NewBody(actor.Transform{
		Position: mgl64.Vec3{5, -0.5, 5},
	}, &actor.Box{HalfExtents: mgl64.Vec3{20, 0.5, 20}}, actor.BodyTypeStatic)
	floor.Name = "floor"
	world.AddBody(floor)

	// Portal A faces +Z, portal B faces -Z.
	// Both are sunk below the floor so the bottom frame edge stays buried.
	a := actor.NewPose(mgl64.Vec3{0, 1.4, 5}, mgl64.QuatIdent())
	b := actor.NewPose(mgl64.Vec3{10, 1.4, 5}, mgl64.QuatRotate(mgl64.DegToRad(180), actor.WorldUp))
	if _, _, err := world.AddPortalPair("A", a, "B", b); err != nil {
		return nil, nil, err
	}

	player := world.AddCharacter("player", actor.NewPose(mgl64.Vec3{0, 0.01, 0}, mgl64.QuatIdent()), &actor.Capsule{
		Radius: 0.5,
		Height: 2,
		Center: mgl64.Vec3{0, 1, 0},
	})
	world.SetViewer(player)

	return world, player, nil
}

func main() {
	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.LoadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	service := render.NewHeadless(1280, 720)
	world, player, err := SetupScene(cfg, service)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer world.Shutdown()

	world.Events.Subscribe(warp.TELEPORT, func(event warp.Event) {
		e := event.(warp.TeleportEvent)
		fmt.Printf("teleport %s: %s -> %s at %v, velocity %v\n",
			e.Body.Name, e.From.Name, e.To.Name, e.Body.Transform.Position, e.Body.Velocity())
	})

	script := input.NewScript()
	script.Press(input.KeyForward)

	for frame := 0; frame < frames; frame++ {
		world.Advance(frameDt, script)

		if frame%30 == 0 {
			fmt.Printf("frame %3d: position %v, yaw %.1f\n",
				frame, player.Body.Transform.Position, world.Look.Yaw())
		}
	}

	fmt.Printf("done: position %v, %d portal renders, %d live targets\n",
		player.Body.Transform.Position, len(service.Renders), service.LiveTargets())
}
