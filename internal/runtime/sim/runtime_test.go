package sim

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/armino/internal/core/placement"
	"github.com/zeusync/armino/internal/core/surface"
	"github.com/zeusync/armino/internal/session"
)

func TestRaycastPicksHighestSurface(t *testing.T) {
	reg := surface.NewRegistry()
	reg.Upsert("floor", mgl64.Vec3{}, mgl64.Vec2{2, 2}, mgl64.Ident4())
	reg.Upsert("table", mgl64.Vec3{}, mgl64.Vec2{0.5, 0.5}, mgl64.Translate3D(0, 0.7, 0))

	rt := NewRuntime(reg, Camera{MetersPerPoint: 0.01})
	require.NoError(t, rt.Run(context.Background(), session.TrackingConfig{PlaneDetection: session.PlaneDetectionHorizontal}))

	hit, ok := rt.Raycast(placement.ScreenPoint{X: 10, Y: 10})
	require.True(t, ok)
	assert.InDelta(t, 0.7, hit.Y(), 1e-12)
	assert.InDelta(t, 0.1, hit.X(), 1e-12)
	assert.InDelta(t, 0.1, hit.Z(), 1e-12)

	hit, ok = rt.Raycast(placement.ScreenPoint{X: 50, Y: -50})
	require.True(t, ok)
	assert.Zero(t, hit.Y())

	_, ok = rt.Raycast(placement.ScreenPoint{X: 500, Y: 0})
	assert.False(t, ok)
}

func TestRaycastMissesWhilePaused(t *testing.T) {
	reg := surface.NewRegistry()
	reg.Upsert("floor", mgl64.Vec3{}, mgl64.Vec2{2, 2}, mgl64.Ident4())
	rt := NewRuntime(reg, DefaultCamera())

	_, ok := rt.Raycast(placement.ScreenPoint{})
	assert.False(t, ok)

	require.NoError(t, rt.Run(context.Background(), session.TrackingConfig{}))
	_, ok = rt.Raycast(placement.ScreenPoint{})
	assert.True(t, ok)

	require.NoError(t, rt.Pause())
	_, ok = rt.Raycast(placement.ScreenPoint{})
	assert.False(t, ok)
	assert.Equal(t, 1, rt.Runs())
}

func TestRunHonoursCancelledContext(t *testing.T) {
	rt := NewRuntime(surface.NewRegistry(), DefaultCamera())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, rt.Run(ctx, session.TrackingConfig{}), context.Canceled)
}
