package look

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestUpdateWrapsYaw(t *testing.T) {
	tests := []struct {
		name string
		dx   float64
		want float64
	}{
		{"positive", 30, 30},
		{"negative wraps", -30, 330},
		{"full turn", 360, 0},
		{"beyond a turn", 400, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(DefaultConfig())
			c.Update(tt.dx, 0, 1)
			assert.InDelta(t, tt.want, c.Yaw(), 1e-9)
			assert.GreaterOrEqual(t, c.Yaw(), 0.0)
			assert.Less(t, c.Yaw(), 360.0)
		})
	}
}

func TestUpdateClampsPitch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinTilt = -45
	cfg.MaxTilt = 60
	c := NewController(cfg)

	c.Update(0, 1000, 1)
	assert.Equal(t, 60.0, c.Pitch())

	c.Update(0, -1000, 1)
	assert.Equal(t, -45.0, c.Pitch())
}

func TestUpdateScalesBySensitivityAndDt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sensitivity = 2
	c := NewController(cfg)

	c.Update(10, 5, 0.5)
	assert.InDelta(t, 10, c.Yaw(), 1e-9)
	assert.InDelta(t, 5, c.Pitch(), 1e-9)
}

func TestRotations(t *testing.T) {
	c := NewController(DefaultConfig())
	c.Update(90, 30, 1)

	bodyForward := c.BodyRotation().Rotate(mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, 1, bodyForward.X(), 1e-9)
	assert.InDelta(t, 0, bodyForward.Y(), 1e-9)

	camForward := c.CameraRotation().Rotate(mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, math.Sin(mgl64.DegToRad(30)), camForward.Y(), 1e-9, "positive pitch looks up")
	assert.Greater(t, camForward.X(), 0.0)
}

func TestSyncYaw(t *testing.T) {
	c := NewController(DefaultConfig())
	c.Update(10, 0, 1)

	c.SyncYaw(mgl64.Vec3{0, 0, -1})
	assert.InDelta(t, 180, c.Yaw(), 1e-9)

	c.SyncYaw(mgl64.Vec3{-1, 0, 0})
	assert.InDelta(t, 270, c.Yaw(), 1e-9)

	c.SyncYaw(mgl64.Vec3{0, 1, 0})
	assert.InDelta(t, 270, c.Yaw(), 1e-9, "vertical forward keeps yaw")
}
