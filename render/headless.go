package render

import (
	"github.com/akmonengine/warp/actor"
	"github.com/pkg/errors"
)

// Headless is a Service without a GPU. It performs real frustum culling and
// records every render call, which is what tests and servers need.
type Headless struct {
	Width, Height int

	// Renders lists the camera poses rendered, in call order
	Renders []actor.Transform
	live    int
}

func NewHeadless(width, height int) *Headless {
	return &Headless{Width: width, Height: height}
}

type headlessTarget struct {
	owner         *Headless
	width, height int
	released      bool
}

func (t *headlessTarget) Size() (int, int) {
	return t.width, t.height
}

func (t *headlessTarget) Release() {
	if t.released {
		return
	}
	t.released = true
	t.owner.live--
}

func (h *Headless) Resolution() (int, int) {
	return h.Width, h.Height
}

func (h *Headless) Allocate(width, height int) (Target, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid target size %dx%d", width, height)
	}
	h.live++
	return &headlessTarget{owner: h, width: width, height: height}, nil
}

func (h *Headless) Render(camera *Camera, target Target) error {
	t, ok := target.(*headlessTarget)
	if !ok || t.owner != h {
		return errors.New("target not allocated by this service")
	}
	if t.released {
		return errors.New("render into released target")
	}
	h.Renders = append(h.Renders, camera.Transform)
	return nil
}

func (h *Headless) Visible(bounds actor.AABB, camera *Camera) bool {
	return FrustumFromMatrix(camera.ViewProjection()).IntersectsAABB(bounds)
}

// LiveTargets is the number of allocated, unreleased targets
func (h *Headless) LiveTargets() int {
	return h.live
}
