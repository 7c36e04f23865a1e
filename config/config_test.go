package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akmonengine/warp/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 3, c.Movement.Iterations)
	assert.Equal(t, -90.0, c.Look.MinTilt)
	assert.Equal(t, 90.0, c.Look.MaxTilt)
	assert.Equal(t, [3]float64{3, 3, 0.01}, c.Portal.SurfaceScale)
	assert.Equal(t, 0.01, c.Portal.EdgeThickness)
}

func TestLoadOverridesDefaults(t *testing.T) {
	doc := `
movement:
  friction: 2.5
  iterations: 5
look:
  min_tilt: -60
portal:
  surface_scale: [2, 4, 0.02]
traveller:
  deferred_teleport: true
log:
  level: debug
`
	c, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 2.5, c.Movement.Friction)
	assert.Equal(t, 5, c.Movement.Iterations)
	assert.Equal(t, Default().Movement.Gravity, c.Movement.Gravity, "absent keys keep defaults")
	assert.Equal(t, -60.0, c.Look.MinTilt)
	assert.Equal(t, [3]float64{2, 4, 0.02}, c.Portal.SurfaceScale)
	assert.True(t, c.Traveller.DeferredTeleport)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadEmptyDocument(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("movement:\n  sped: 3\n"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(strings.NewReader("movement:\n  iterations: 0\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero iterations", func(c *Config) { c.Movement.Iterations = 0 }},
		{"negative friction", func(c *Config) { c.Movement.Friction = -1 }},
		{"tilt inverted", func(c *Config) { c.Look.MinTilt, c.Look.MaxTilt = 10, -10 }},
		{"tilt out of range", func(c *Config) { c.Look.MaxTilt = 120 }},
		{"flat surface", func(c *Config) { c.Portal.SurfaceScale[2] = 0 }},
		{"edge thickness", func(c *Config) { c.Portal.EdgeThickness = 0 }},
		{"fixed step", func(c *Config) { c.Simulation.FixedStep = 0 }},
		{"workers", func(c *Config) { c.Simulation.Workers = 0 }},
		{"cell size", func(c *Config) { c.Simulation.CellSize = -4 }},
		{"log level", func(c *Config) { c.Log.Level = "chatty" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestConversions(t *testing.T) {
	c := Default()
	c.Movement.Friction = 3
	c.Look.Sensitivity = 2
	c.Portal.SurfaceScale = [3]float64{2, 5, 0.1}

	m := c.MoverConfig()
	assert.Equal(t, 3.0, m.Friction)
	assert.Equal(t, 3, m.Iterations)
	assert.Equal(t, actor.DefaultLayers, m.CollisionMask)

	assert.Equal(t, 2.0, c.LookConfig().Sensitivity)

	transform := actor.NewPose(mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent())
	p := c.PortalConfig("blue", transform)
	assert.Equal(t, "blue", p.Name)
	assert.Equal(t, mgl64.Vec3{2, 5, 0.1}, p.SurfaceScale)
	assert.Equal(t, transform, p.Transform)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("movement:\n  gravity: 12\n"), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 12.0, c.Movement.Gravity)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("movement:\n  gravity: 12\n"), 0o644))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("movement:\n  gravity: 7\n"), 0o644))

	select {
	case c := <-w.Configs:
		assert.Equal(t, 7.0, c.Movement.Gravity)
	case err := <-w.Errors:
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}
