package main

import (
	"fmt"
	"image/color"

	"github.com/akmonengine/warp"
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/config"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

const mapScale = 20

type Game struct {
	world    *warp.World
	input    *keyboard
	watcher  *config.Watcher
	logger   *zap.Logger
	width    int
	height   int
	locked   bool
	teleport string
}

func NewGame(world *warp.World, watcher *config.Watcher, logger *zap.Logger, width, height int) *Game {
	g := &Game{
		world:   world,
		input:   &keyboard{},
		watcher: watcher,
		logger:  logger,
		width:   width,
		height:  height,
	}
	world.Events.Subscribe(warp.TELEPORT, func(event warp.Event) {
		e := event.(warp.TeleportEvent)
		g.teleport = fmt.Sprintf("%s: %s -> %s", e.Body.Name, e.From.Name, e.To.Name)
	})
	g.setLocked(world.Config().Look.LockMouse)
	return g
}

func (g *Game) setLocked(locked bool) {
	g.locked = locked
	if locked {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	g.input.Reset()
}

func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	select {
	case cfg := <-g.watcher.Configs:
		if err := g.world.ApplyConfig(cfg); err != nil {
			g.logger.Error("reload rejected", zap.Error(err))
			return
		}
		if cfg.Look.LockMouse != g.locked {
			g.setLocked(cfg.Look.LockMouse)
		}
	case err := <-g.watcher.Errors:
		g.logger.Warn("reload failed", zap.Error(err))
	default:
	}
}

func (g *Game) Update() error {
	g.reload()

	if g.input.UnlockPressed() && g.locked {
		g.setLocked(false)
	}
	if !g.locked && g.world.Config().Look.LockMouse && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.setLocked(true)
	}

	g.input.Poll()
	g.world.Advance(1/float64(ebiten.TPS()), g.input)
	return nil
}

// focus is the point the map is centred on: the viewer, or the origin
func (g *Game) focus() mgl64.Vec3 {
	if viewer := g.world.ViewerCharacter(); viewer != nil {
		return viewer.Body.Transform.Position
	}
	return mgl64.Vec3{}
}

// toScreen maps the XZ plane around the focus, +Z pointing up the screen
func (g *Game) toScreen(p mgl64.Vec3) (float32, float32) {
	focus := g.focus()
	return float32(g.width)/2 + float32((p.X()-focus.X())*mapScale),
		float32(g.height)/2 - float32((p.Z()-focus.Z())*mapScale)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 12, B: 16, A: 255})

	for _, body := range g.world.Bodies {
		if body.IsTrigger || body.Removed() || body.BodyType == actor.BodyTypeKinematic {
			continue
		}
		drawFootprint(screen, body, g.toScreen, bodyColor(body))
	}

	for _, p := range g.world.Portals {
		g.drawPortal(screen, p.Name, p.SurfaceTransform().Position, p.SurfaceTransform().Right(), p.Transform.Forward(), p.Active())
	}

	viewer := g.world.ViewerCharacter()
	for _, c := range g.world.Characters() {
		clr := color.RGBA{R: 200, G: 200, B: 200, A: 255}
		if c == viewer {
			clr = color.RGBA{R: 255, G: 200, B: 60, A: 255}
		}
		g.drawCharacter(screen, c.Body.Transform, c.Body.Capsule(), clr, 2)

		// mid-crossing, the body also shows up beyond the partner portal
		if clone, ok := c.Traveller.RelativeTransformAtPartner(); ok {
			g.drawCharacter(screen, clone, c.Body.Capsule(), color.RGBA{R: 60, G: 140, B: 255, A: 160}, 1)
		}
	}

	g.drawViews(screen)

	if viewer != nil {
		p := viewer.Body.Transform.Position
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("pos %.2f %.2f %.2f  yaw %.0f  pitch %.0f",
			p.X(), p.Y(), p.Z(), g.world.Look.Yaw(), g.world.Look.Pitch()), 8, 8)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("tps %.0f  last teleport %s", ebiten.ActualTPS(), g.teleport), 8, 24)
	if !g.locked {
		ebitenutil.DebugPrintAt(screen, "click to capture the mouse", 8, g.height-20)
	}
}

func (g *Game) drawCharacter(screen *ebiten.Image, pose actor.Transform, capsule *actor.Capsule, clr color.Color, width float32) {
	if capsule == nil {
		return
	}
	x, y := g.toScreen(pose.Position)
	vector.StrokeCircle(screen, x, y, float32(capsule.Radius*mapScale), width, clr, true)
	hx, hy := g.toScreen(pose.Position.Add(pose.Forward()))
	vector.StrokeLine(screen, x, y, hx, hy, width, clr, true)
}

func (g *Game) drawPortal(screen *ebiten.Image, name string, center, right, forward mgl64.Vec3, active bool) {
	clr := color.RGBA{R: 120, G: 120, B: 120, A: 255}
	if active {
		clr = color.RGBA{R: 60, G: 140, B: 255, A: 255}
	}
	x0, y0 := g.toScreen(center.Sub(right))
	x1, y1 := g.toScreen(center.Add(right))
	vector.StrokeLine(screen, x0, y0, x1, y1, 3, clr, true)

	cx, cy := g.toScreen(center)
	fx, fy := g.toScreen(center.Add(forward.Mul(0.5)))
	vector.StrokeLine(screen, cx, cy, fx, fy, 1, clr, true)
	ebitenutil.DebugPrintAt(screen, name, int(fx), int(fy))
}

// drawViews shows each portal's render target in the top right corner
func (g *Game) drawViews(screen *ebiten.Image) {
	offsetY := 8.0
	for _, p := range g.world.Portals {
		t, ok := p.Target().(*screenTarget)
		if !ok || t == nil {
			continue
		}
		w, h := t.Size()
		x := float64(g.width - w - 8)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x, offsetY)
		screen.DrawImage(t.image, op)
		vector.StrokeRect(screen, float32(x), float32(offsetY), float32(w), float32(h), 1, color.White, false)
		ebitenutil.DebugPrintAt(screen, "view from "+p.Name, int(x)+4, int(offsetY)+4)

		offsetY += float64(h) + 8
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
