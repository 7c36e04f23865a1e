// Package portal implements linked portal pairs: the virtual camera that makes a
// portal surface look like a window onto its partner, and the crossing tracker
// that teleports travellers when they pass through the portal plane.
package portal

import (
	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/render"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrNoPartner is returned by operations that need a linked portal
var ErrNoPartner = errors.New("portal has no partner")

// Config describes a portal at construction time
type Config struct {
	Name      string
	Transform actor.Transform
	// SurfaceScale is the size of the visual quad; it also sizes the trigger volume
	SurfaceScale  mgl64.Vec3
	EdgeColliders bool
	EdgeThickness float64
}

// DefaultConfig mirrors the stock portal prefab: a 3x3 quad, 1cm deep
func DefaultConfig() Config {
	return Config{
		Transform:     actor.NewTransform(),
		SurfaceScale:  mgl64.Vec3{3, 3, 0.01},
		EdgeColliders: true,
		EdgeThickness: 0.01,
	}
}

// Surface is the visual quad of a portal, in the portal's local space.
// It displays the partner's render target.
type Surface struct {
	LocalPosition mgl64.Vec3
	LocalScale    mgl64.Vec3
	Texture       render.Target
	Hidden        bool
}

// Dispatcher receives teleports detected by a portal. Without one the
// teleport is applied on the spot.
type Dispatcher interface {
	Dispatch(t Teleport)
}

// Portal is one side of a linked pair
type Portal struct {
	ID        uuid.UUID
	Name      string
	Transform actor.Transform

	// Camera renders what the partner's surface shows
	Camera  *render.Camera
	Surface Surface
	// Viewer is the main camera, protected from clipping when no traveller camera is set
	Viewer *render.Camera

	Trigger *actor.Body
	Edges   EdgeColliders

	Dispatcher Dispatcher

	surfaceScale  mgl64.Vec3
	edgeThickness float64
	edgesEnabled  bool

	partner    *Portal
	target     render.Target
	service    render.Service
	travellers []*Traveller
	enabled    bool
	logger     *zap.Logger
}

// New builds a portal. A nil camera is a setup mistake, not a failure: the
// portal is returned disabled and the problem is logged once.
func New(cfg Config, camera *render.Camera, service render.Service, logger *zap.Logger) (*Portal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SurfaceScale.X() <= 0 || cfg.SurfaceScale.Y() <= 0 || cfg.SurfaceScale.Z() <= 0 {
		return nil, errors.Errorf("portal %q: surface scale must be positive, got %v", cfg.Name, cfg.SurfaceScale)
	}
	if cfg.EdgeColliders && cfg.EdgeThickness <= 0 {
		return nil, errors.Errorf("portal %q: edge thickness must be positive, got %v", cfg.Name, cfg.EdgeThickness)
	}
	if cfg.Transform.Rotation == (mgl64.Quat{}) {
		cfg.Transform.Rotation = mgl64.QuatIdent()
	}

	p := &Portal{
		ID:            uuid.New(),
		Name:          cfg.Name,
		Transform:     cfg.Transform,
		Camera:        camera,
		surfaceScale:  cfg.SurfaceScale,
		edgeThickness: cfg.EdgeThickness,
		edgesEnabled:  cfg.EdgeColliders,
		service:       service,
		logger:        logger.With(zap.String("portal", cfg.Name)),
	}
	p.Surface = Surface{LocalScale: cfg.SurfaceScale}

	p.Trigger = actor.NewTrigger(p.Transform, &actor.Box{HalfExtents: cfg.SurfaceScale.Mul(0.5)})
	p.Trigger.Name = cfg.Name + "/trigger"
	p.Trigger.Id = p

	if cfg.EdgeColliders {
		p.Edges = NewEdgeColliders(p.Transform, cfg.SurfaceScale, cfg.EdgeThickness)
		for i, e := range p.Edges {
			e.Name = cfg.Name + "/edge" + Edge(i).String()
			e.Id = p
		}
	}

	if camera == nil {
		p.logger.Warn("portal has no camera attached, disabling it")
		return p, nil
	}

	if service != nil {
		width, height := service.Resolution()
		target, err := service.Allocate(width, height)
		if err != nil {
			return nil, errors.Wrapf(err, "portal %q: allocate render target", cfg.Name)
		}
		p.target = target
	}
	p.enabled = true

	return p, nil
}

// Link pairs two portals both ways, breaking any previous links.
// Each portal's target is bound to the other's surface.
func Link(a, b *Portal) {
	if a == nil || b == nil || a == b {
		return
	}
	a.Unlink()
	b.Unlink()

	a.partner = b
	b.partner = a
	b.Surface.Texture = a.target
	a.Surface.Texture = b.target

	a.logger.Debug("portals linked", zap.String("partner", b.Name))
}

// Unlink breaks the pair. Travellers in flight are dropped.
func (p *Portal) Unlink() {
	if p.partner == nil {
		return
	}
	other := p.partner
	p.partner = nil
	p.Surface.Texture = nil
	p.dropTravellers()

	if other.partner == p {
		other.partner = nil
		other.Surface.Texture = nil
		other.dropTravellers()
	}
}

func (p *Portal) Partner() *Portal {
	return p.partner
}

func (p *Portal) Enabled() bool {
	return p.enabled
}

// Active reports whether the portal renders and teleports: enabled and linked
func (p *Portal) Active() bool {
	return p.enabled && p.partner != nil
}

// Target is the portal's own render target, shown on the partner surface
func (p *Portal) Target() render.Target {
	return p.target
}

func (p *Portal) EdgesEnabled() bool {
	return p.edgesEnabled
}

// SetTransform moves the portal with its trigger volume and edge colliders
func (p *Portal) SetTransform(t actor.Transform) {
	p.Transform = t
	p.Trigger.SetPose(t.Position, t.Rotation)
	if p.edgesEnabled {
		p.Edges.Place(t, p.surfaceScale, p.edgeThickness)
	}
}

// Reconfigure applies new surface settings to a live portal. The trigger and
// the frame are resized in place. Edge bodies created or dropped by toggling
// the frame are returned so the caller can add them to or remove them from
// its world.
func (p *Portal) Reconfigure(cfg Config) (added, removed []*actor.Body, err error) {
	if cfg.SurfaceScale.X() <= 0 || cfg.SurfaceScale.Y() <= 0 || cfg.SurfaceScale.Z() <= 0 {
		return nil, nil, errors.Errorf("portal %q: surface scale must be positive, got %v", p.Name, cfg.SurfaceScale)
	}
	if cfg.EdgeColliders && cfg.EdgeThickness <= 0 {
		return nil, nil, errors.Errorf("portal %q: edge thickness must be positive, got %v", p.Name, cfg.EdgeThickness)
	}

	p.surfaceScale = cfg.SurfaceScale
	p.edgeThickness = cfg.EdgeThickness
	p.ResetSurface()
	p.Trigger.Shape = &actor.Box{HalfExtents: cfg.SurfaceScale.Mul(0.5)}
	p.Trigger.RefreshAABB()

	switch {
	case cfg.EdgeColliders && !p.edgesEnabled:
		p.Edges = NewEdgeColliders(p.Transform, p.surfaceScale, p.edgeThickness)
		for i, e := range p.Edges {
			e.Name = p.Name + "/edge" + Edge(i).String()
			e.Id = p
		}
		edges := p.Edges
		added = edges[:]
	case !cfg.EdgeColliders && p.edgesEnabled:
		edges := p.Edges
		removed = edges[:]
		p.Edges = EdgeColliders{}
	case cfg.EdgeColliders:
		p.Edges.Place(p.Transform, p.surfaceScale, p.edgeThickness)
	}
	p.edgesEnabled = cfg.EdgeColliders

	p.logger.Debug("portal reconfigured", zap.Bool("edges", p.edgesEnabled))
	return added, removed, nil
}

// SurfaceTransform is the world pose of the visual quad
func (p *Portal) SurfaceTransform() actor.Transform {
	return actor.Transform{
		Position: p.Transform.TransformPoint(p.Surface.LocalPosition),
		Rotation: p.Transform.Rotation,
		Scale:    p.Surface.LocalScale,
	}
}

// SurfaceBounds is the world AABB of the visual quad
func (p *Portal) SurfaceBounds() actor.AABB {
	quad := actor.Box{HalfExtents: p.Surface.LocalScale.Mul(0.5)}
	return quad.ComputeAABB(p.SurfaceTransform())
}

// ViewThrough maps a viewer pose into the space beyond the portal, the pose
// the partner's camera takes when rendering this portal's surface.
func (p *Portal) ViewThrough(viewer actor.Transform) (actor.Transform, error) {
	if p.partner == nil {
		return actor.Transform{}, errors.Wrapf(ErrNoPartner, "portal %q", p.Name)
	}
	return CameraPose(viewer, p.Transform, p.partner.Transform), nil
}

// Shutdown unlinks the portal and releases its render target
func (p *Portal) Shutdown() {
	p.Unlink()
	if p.target != nil {
		p.target.Release()
		p.target = nil
	}
	p.enabled = false
}
