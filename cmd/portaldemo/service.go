package main

import (
	"image/color"

	"github.com/akmonengine/warp"
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/render"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/pkg/errors"
)

// pixelsPerMeter is the zoom of the portal views
const pixelsPerMeter = 24

// screenService renders portal views into ebiten images. A view is a plan of
// the scene centred on the camera, its forward pointing up the image.
type screenService struct {
	width, height int
	world         *warp.World
}

type screenTarget struct {
	image *ebiten.Image
}

func (t *screenTarget) Size() (int, int) {
	b := t.image.Bounds()
	return b.Dx(), b.Dy()
}

func (t *screenTarget) Release() {
	t.image.Deallocate()
}

func (s *screenService) Resolution() (int, int) {
	return s.width / 4, s.height / 4
}

func (s *screenService) Allocate(width, height int) (render.Target, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid target size %dx%d", width, height)
	}
	return &screenTarget{image: ebiten.NewImage(width, height)}, nil
}

func (s *screenService) Visible(bounds actor.AABB, camera *render.Camera) bool {
	return render.FrustumFromMatrix(camera.ViewProjection()).IntersectsAABB(bounds)
}

func (s *screenService) Render(camera *render.Camera, target render.Target) error {
	t, ok := target.(*screenTarget)
	if !ok {
		return errors.New("target not allocated by the screen service")
	}
	if s.world == nil {
		return nil
	}

	img := t.image
	img.Fill(color.RGBA{R: 20, G: 24, B: 32, A: 255})
	w, h := t.Size()
	cx, cy := float32(w)/2, float32(h)/2

	// camera space: +X right, +Z ahead
	project := func(p mgl64.Vec3) (float32, float32) {
		local := camera.Transform.InverseTransformPoint(p)
		return cx - float32(local.X()*pixelsPerMeter), cy - float32(local.Z()*pixelsPerMeter)
	}

	for _, body := range s.world.Bodies {
		if body.IsTrigger || body.Removed() {
			continue
		}
		drawFootprint(img, body, project, bodyColor(body))
	}

	vector.StrokeCircle(img, cx, cy, 3, 1, color.White, true)
	return nil
}

func bodyColor(body *actor.Body) color.Color {
	if body.BodyType == actor.BodyTypeKinematic {
		return color.RGBA{R: 90, G: 200, B: 255, A: 255}
	}
	return color.RGBA{R: 180, G: 180, B: 180, A: 255}
}

// drawFootprint outlines the horizontal section of a body's bounds
func drawFootprint(dst *ebiten.Image, body *actor.Body, project func(mgl64.Vec3) (float32, float32), clr color.Color) {
	aabb := body.AABB()
	y := aabb.Center().Y()
	corners := [4]mgl64.Vec3{
		{aabb.Min.X(), y, aabb.Min.Z()},
		{aabb.Max.X(), y, aabb.Min.Z()},
		{aabb.Max.X(), y, aabb.Max.Z()},
		{aabb.Min.X(), y, aabb.Max.Z()},
	}
	for i := range corners {
		x0, y0 := project(corners[i])
		x1, y1 := project(corners[(i+1)%4])
		vector.StrokeLine(dst, x0, y0, x1, y1, 1, clr, true)
	}
}

var _ render.Service = (*screenService)(nil)
