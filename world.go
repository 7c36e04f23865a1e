// Package warp is a portal traversal runtime: a static collision world with
// capsule characters, and linked portal pairs that render each other's view and
// teleport the bodies crossing them.
package warp

import (
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/config"
	"github.com/akmonengine/warp/gjk"
	"github.com/akmonengine/warp/input"
	"github.com/akmonengine/warp/look"
	"github.com/akmonengine/warp/mover"
	"github.com/akmonengine/warp/portal"
	"github.com/akmonengine/warp/render"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DEFAULT_WORKERS = 1

// maxStepsPerAdvance bounds the catch-up after a long frame
const maxStepsPerAdvance = 8

type World struct {
	// List of all bodies in the world
	Bodies      []*actor.Body
	SpatialGrid *SpatialGrid
	Workers     int
	// FixedStep is the physics step used by Advance, in seconds
	FixedStep float64

	Events  Events
	Mover   *mover.Mover
	Look    *look.Controller
	Viewer  *render.Camera
	Portals []*portal.Portal

	config     config.Config
	characters []*Character
	viewer     *Character
	travellers map[*actor.Body]*portal.Traveller
	deferred   []portal.Teleport

	// broad phase snapshot, rebuilt every step
	statics      []*actor.Body
	kinematics   []*actor.Body
	queryIndices []int

	accumulator float64
	service     render.Service
	logger      *zap.Logger
}

// NewWorld validates cfg and builds an empty world. service may be nil for a
// pure simulation: portals then never render.
func NewWorld(cfg config.Config, logger *zap.Logger, service render.Service) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &World{
		SpatialGrid: NewSpatialGrid(cfg.Simulation.CellSize, cfg.Simulation.Cells),
		Workers:     cfg.Simulation.Workers,
		FixedStep:   cfg.Simulation.FixedStep,
		Events:      NewEvents(),
		Look:        look.NewController(cfg.LookConfig()),
		Viewer:      render.NewCamera(aspect(service)),
		config:      cfg,
		travellers:  make(map[*actor.Body]*portal.Traveller),
		service:     service,
		logger:      logger,
	}
	w.Mover = mover.New(cfg.MoverConfig(), w)

	w.Events.Subscribe(TRIGGER_ENTER, w.onTriggerEnter)
	w.Events.Subscribe(TRIGGER_EXIT, w.onTriggerExit)

	return w, nil
}

func aspect(service render.Service) float64 {
	if service != nil {
		if width, height := service.Resolution(); width > 0 && height > 0 {
			return float64(width) / float64(height)
		}
	}
	return 16.0 / 9.0
}

// AddBody adds a body to the world
func (w *World) AddBody(body *actor.Body) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a body from the world. The body is flagged removed so
// portals and queued teleports still holding it let go of it.
func (w *World) RemoveBody(body *actor.Body) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	body.Remove()
	w.Events.forget(body)
	delete(w.travellers, body)

	for i, c := range w.characters {
		if c.Body == body {
			w.characters = append(w.characters[:i], w.characters[i+1:]...)
			break
		}
	}
	if w.viewer != nil && w.viewer.Body == body {
		w.viewer = nil
	}
}

// AddPortal builds a portal with its own camera, adds its trigger volume and
// edge colliders to the world
func (w *World) AddPortal(cfg portal.Config) (*portal.Portal, error) {
	camera := render.NewCamera(w.Viewer.Aspect)
	p, err := portal.New(cfg, camera, w.service, w.logger)
	if err != nil {
		return nil, err
	}
	p.Viewer = w.Viewer
	p.Dispatcher = w

	w.AddBody(p.Trigger)
	if p.EdgesEnabled() {
		for _, edge := range p.Edges {
			w.AddBody(edge)
		}
	}
	w.Portals = append(w.Portals, p)

	return p, nil
}

// AddPortalPair builds two portals from the configured portal settings and links them
func (w *World) AddPortalPair(nameA string, a actor.Transform, nameB string, b actor.Transform) (*portal.Portal, *portal.Portal, error) {
	pa, err := w.AddPortal(w.config.PortalConfig(nameA, a))
	if err != nil {
		return nil, nil, err
	}
	pb, err := w.AddPortal(w.config.PortalConfig(nameB, b))
	if err != nil {
		return nil, nil, err
	}
	w.Link(pa, pb)
	return pa, pb, nil
}

func (w *World) Link(a, b *portal.Portal) {
	portal.Link(a, b)
	w.logger.Info("portals linked", zap.String("a", a.Name), zap.String("b", b.Name))
}

func (w *World) Unlink(p *portal.Portal) {
	p.Unlink()
	w.logger.Info("portal unlinked", zap.String("portal", p.Name))
}

// Dispatch applies a teleport, or queues it for the next step when the
// traveller asks for deferred teleports
func (w *World) Dispatch(t portal.Teleport) {
	if t.Traveller.Deferred {
		w.deferred = append(w.deferred, t)
		return
	}
	w.teleport(t)
}

func (w *World) teleport(t portal.Teleport) {
	if !t.Apply() {
		return
	}
	w.logger.Debug("teleported",
		zap.Stringer("body", t.Traveller.Body.ID),
		zap.Stringer("from", t.From.ID),
		zap.Stringer("to", t.To.ID))
	w.Events.emit(TeleportEvent{Body: t.Traveller.Body, From: t.From, To: t.To})
}

// Step runs one physics step: queued teleports, movement, trigger overlaps
// and portal crossings, in that order
func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)

	// Phase 1: teleports deferred by the previous step
	queued := w.deferred
	w.deferred = nil
	for _, t := range queued {
		w.teleport(t)
	}

	// Phase 2: broad phase snapshot
	w.rebuildBroadPhase()

	// Phase 3: movement
	for _, c := range w.characters {
		w.Mover.Step(c.Body, c.Input, dt)
	}
	w.syncViewer()

	// Phase 4: trigger volumes
	w.detectTriggers()
	w.Events.processTriggerEvents()
	w.Events.dispatch()

	// Phase 5: portal crossings
	for _, p := range w.Portals {
		p.CheckCrossings()
	}
	w.Events.dispatch()
}

func (w *World) rebuildBroadPhase() {
	task(w.Workers, w.Bodies, func(body *actor.Body) {
		body.RefreshAABB()
	})

	w.SpatialGrid.Clear()
	w.statics = w.statics[:0]
	w.kinematics = w.kinematics[:0]

	for _, body := range w.Bodies {
		if body.Removed() {
			continue
		}
		if body.BodyType == actor.BodyTypeStatic {
			w.SpatialGrid.Insert(len(w.statics), body.AABB())
			w.statics = append(w.statics, body)
		} else {
			w.kinematics = append(w.kinematics, body)
		}
	}
}

// detectTriggers records every kinematic body overlapping a static trigger
func (w *World) detectTriggers() {
	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)

	for _, body := range w.kinematics {
		if body.Removed() || body.IsTrigger || body.Shape == nil {
			continue
		}
		aabb := body.AABB()
		w.queryIndices = w.SpatialGrid.Query(aabb, w.queryIndices[:0])

		for _, i := range w.queryIndices {
			trigger := w.statics[i]
			if !trigger.IsTrigger || trigger.Removed() || !trigger.AABB().Overlaps(aabb) {
				continue
			}
			simplex.Reset()
			if gjk.GJK(body, trigger, simplex) {
				w.Events.recordOverlap(trigger, body)
			}
		}
	}
}

// portalTraveller resolves the portal and traveller behind a trigger pair
func (w *World) portalTraveller(trigger, body *actor.Body) (*portal.Portal, *portal.Traveller, bool) {
	p, ok := trigger.Id.(*portal.Portal)
	if !ok || p.Trigger != trigger {
		return nil, nil, false
	}
	t, ok := w.travellers[body]
	return p, t, ok
}

func (w *World) onTriggerEnter(event Event) {
	e := event.(TriggerEnterEvent)
	if p, t, ok := w.portalTraveller(e.Trigger, e.Body); ok {
		p.OnTriggerEnter(t)
	}
}

func (w *World) onTriggerExit(event Event) {
	e := event.(TriggerExitEvent)
	if p, t, ok := w.portalTraveller(e.Trigger, e.Body); ok {
		p.OnTriggerExit(t)
	}
}

// Advance runs the frame: fixed physics steps for the elapsed time, then
// mouse look, viewer camera sync and portal rendering. It returns the number
// of physics steps taken.
func (w *World) Advance(frameDt float64, src input.Source) int {
	if w.viewer != nil {
		forward, right, jump := input.Axes(src)
		w.viewer.Input = mover.Input{Forward: forward, Right: right, Jump: jump}
	}

	w.accumulator += frameDt
	steps := 0
	for w.accumulator >= w.FixedStep {
		if steps == maxStepsPerAdvance {
			w.logger.Warn("simulation falling behind, dropping time", zap.Float64("dropped", w.accumulator))
			w.accumulator = 0
			break
		}
		w.Step(w.FixedStep)
		w.accumulator -= w.FixedStep
		steps++
	}

	if w.viewer != nil && src != nil {
		dx, dy := src.MouseDelta()
		w.Look.Update(dx, dy, frameDt)
		w.viewer.Body.SetRotation(w.Look.BodyRotation())
	}
	w.syncViewer()
	w.Render()

	return steps
}

// Render draws every portal view. A failing portal is logged and skipped.
func (w *World) Render() {
	for _, p := range w.Portals {
		if err := p.Render(w.Viewer); err != nil {
			w.logger.Error("portal render failed", zap.String("portal", p.Name), zap.Error(err))
		}
	}
}

// ApplyConfig swaps in new tunables without rebuilding the scene
func (w *World) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "apply config")
	}

	w.Mover.Config = cfg.MoverConfig()
	w.Look.Config = cfg.LookConfig()
	w.FixedStep = cfg.Simulation.FixedStep
	w.Workers = cfg.Simulation.Workers
	if cfg.Simulation.CellSize != w.config.Simulation.CellSize || cfg.Simulation.Cells != w.config.Simulation.Cells {
		w.SpatialGrid = NewSpatialGrid(cfg.Simulation.CellSize, cfg.Simulation.Cells)
		w.rebuildBroadPhase()
	}
	for _, t := range w.travellers {
		t.Deferred = cfg.Traveller.DeferredTeleport
	}
	if w.viewer != nil {
		w.viewer.Traveller.ProtectCamera = cfg.Traveller.ProtectCamera
	}
	for _, p := range w.Portals {
		added, removed, err := p.Reconfigure(cfg.PortalConfig(p.Name, p.Transform))
		if err != nil {
			w.logger.Error("portal kept its settings", zap.String("portal", p.Name), zap.Error(err))
			continue
		}
		for _, body := range removed {
			w.RemoveBody(body)
		}
		for _, body := range added {
			w.AddBody(body)
		}
	}
	w.config = cfg

	w.logger.Info("config applied")
	return nil
}

// Config is the configuration currently in effect
func (w *World) Config() config.Config {
	return w.config
}

// PendingTeleports is the number of teleports waiting for the next step
func (w *World) PendingTeleports() int {
	return len(w.deferred)
}

// Shutdown releases the portal render targets and flushes the logger
func (w *World) Shutdown() {
	for _, p := range w.Portals {
		p.Shutdown()
	}
	w.deferred = nil
	_ = w.logger.Sync()
}

var _ mover.Physics = (*World)(nil)
var _ portal.Dispatcher = (*World)(nil)
