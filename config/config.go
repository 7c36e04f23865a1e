// Package config loads the YAML tunables of the simulation.
package config

import (
	"io"
	"os"

	"github.com/akmonengine/warp/actor"
	"github.com/akmonengine/warp/internal/logging"
	"github.com/akmonengine/warp/look"
	"github.com/akmonengine/warp/mover"
	"github.com/akmonengine/warp/portal"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Movement   Movement   `yaml:"movement"`
	Look       Look       `yaml:"look"`
	Portal     Portal     `yaml:"portal"`
	Traveller  Traveller  `yaml:"traveller"`
	Simulation Simulation `yaml:"simulation"`
	Log        Log        `yaml:"log"`
}

type Movement struct {
	Acceleration float64 `yaml:"acceleration"`
	Friction     float64 `yaml:"friction"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	Gravity      float64 `yaml:"gravity"`
	Iterations   int     `yaml:"iterations"`
	Upright      bool    `yaml:"upright"`
	UprightSpeed float64 `yaml:"upright_speed"`
}

type Look struct {
	Sensitivity float64 `yaml:"sensitivity"`
	MinTilt     float64 `yaml:"min_tilt"`
	MaxTilt     float64 `yaml:"max_tilt"`
	LockMouse   bool    `yaml:"lock_mouse"`
}

type Portal struct {
	SurfaceScale  [3]float64 `yaml:"surface_scale"`
	EdgeColliders bool       `yaml:"edge_colliders"`
	EdgeThickness float64    `yaml:"edge_thickness"`
}

type Traveller struct {
	ProtectCamera    bool `yaml:"protect_camera"`
	DeferredTeleport bool `yaml:"deferred_teleport"`
}

type Simulation struct {
	// FixedStep is the physics step in seconds
	FixedStep float64 `yaml:"fixed_step"`
	Workers   int     `yaml:"workers"`
	CellSize  float64 `yaml:"cell_size"`
	Cells     int     `yaml:"cells"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Default returns the stock tunables
func Default() Config {
	m := mover.DefaultConfig()
	l := look.DefaultConfig()
	p := portal.DefaultConfig()

	return Config{
		Movement: Movement{
			Acceleration: m.Acceleration,
			Friction:     m.Friction,
			JumpImpulse:  m.JumpImpulse,
			Gravity:      m.Gravity,
			Iterations:   m.Iterations,
			Upright:      m.Upright,
			UprightSpeed: m.UprightSpeed,
		},
		Look: Look{
			Sensitivity: l.Sensitivity,
			MinTilt:     l.MinTilt,
			MaxTilt:     l.MaxTilt,
			LockMouse:   l.LockMouse,
		},
		Portal: Portal{
			SurfaceScale:  [3]float64(p.SurfaceScale),
			EdgeColliders: p.EdgeColliders,
			EdgeThickness: p.EdgeThickness,
		},
		Traveller: Traveller{
			ProtectCamera: true,
		},
		Simulation: Simulation{
			FixedStep: 1.0 / 60.0,
			Workers:   4,
			CellSize:  4,
			Cells:     64,
		},
		Log: Log{Level: "info"},
	}
}

// Load decodes YAML over the defaults and validates the result.
// Keys absent from the document keep their default value.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load %s", path)
	}
	return c, nil
}

// Validate checks every tunable; failures wrap ErrInvalid
func (c Config) Validate() error {
	m := c.Movement
	switch {
	case m.Acceleration < 0:
		return invalid("movement.acceleration must be >= 0, got %v", m.Acceleration)
	case m.Friction < 0:
		return invalid("movement.friction must be >= 0, got %v", m.Friction)
	case m.JumpImpulse < 0:
		return invalid("movement.jump_impulse must be >= 0, got %v", m.JumpImpulse)
	case m.Gravity < 0:
		return invalid("movement.gravity must be >= 0, got %v", m.Gravity)
	case m.Iterations < 1:
		return invalid("movement.iterations must be >= 1, got %d", m.Iterations)
	case m.UprightSpeed < 0:
		return invalid("movement.upright_speed must be >= 0, got %v", m.UprightSpeed)
	}

	l := c.Look
	switch {
	case l.Sensitivity < 0:
		return invalid("look.sensitivity must be >= 0, got %v", l.Sensitivity)
	case l.MinTilt < -90 || l.MaxTilt > 90:
		return invalid("look tilt must stay within [-90, 90], got [%v, %v]", l.MinTilt, l.MaxTilt)
	case l.MinTilt > l.MaxTilt:
		return invalid("look.min_tilt %v is above look.max_tilt %v", l.MinTilt, l.MaxTilt)
	}

	p := c.Portal
	for _, s := range p.SurfaceScale {
		if s <= 0 {
			return invalid("portal.surface_scale must be positive, got %v", p.SurfaceScale)
		}
	}
	if p.EdgeColliders && p.EdgeThickness <= 0 {
		return invalid("portal.edge_thickness must be > 0, got %v", p.EdgeThickness)
	}

	s := c.Simulation
	switch {
	case s.FixedStep <= 0:
		return invalid("simulation.fixed_step must be > 0, got %v", s.FixedStep)
	case s.Workers < 1:
		return invalid("simulation.workers must be >= 1, got %d", s.Workers)
	case s.CellSize <= 0:
		return invalid("simulation.cell_size must be > 0, got %v", s.CellSize)
	case s.Cells < 1:
		return invalid("simulation.cells must be >= 1, got %d", s.Cells)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}

	return nil
}

func invalid(format string, args ...any) error {
	return errors.Wrapf(ErrInvalid, format, args...)
}

// MoverConfig maps the movement section onto the mover tunables
func (c Config) MoverConfig() mover.Config {
	m := mover.DefaultConfig()
	m.Acceleration = c.Movement.Acceleration
	m.Friction = c.Movement.Friction
	m.JumpImpulse = c.Movement.JumpImpulse
	m.Gravity = c.Movement.Gravity
	m.Iterations = c.Movement.Iterations
	m.Upright = c.Movement.Upright
	m.UprightSpeed = c.Movement.UprightSpeed
	return m
}

func (c Config) LookConfig() look.Config {
	return look.Config{
		Sensitivity: c.Look.Sensitivity,
		MinTilt:     c.Look.MinTilt,
		MaxTilt:     c.Look.MaxTilt,
		LockMouse:   c.Look.LockMouse,
	}
}

// PortalConfig builds the construction config of one portal
func (c Config) PortalConfig(name string, transform actor.Transform) portal.Config {
	return portal.Config{
		Name:          name,
		Transform:     transform,
		SurfaceScale:  mgl64.Vec3(c.Portal.SurfaceScale),
		EdgeColliders: c.Portal.EdgeColliders,
		EdgeThickness: c.Portal.EdgeThickness,
	}
}
