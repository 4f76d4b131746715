// Package sim stands in for a device tracking runtime. It looks straight down
// on the tracked surfaces through an orthographic camera, which is enough to
// drive a session from scripts and tests.
package sim

import (
	"context"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/armino/internal/core/placement"
	"github.com/zeusync/armino/internal/core/surface"
	"github.com/zeusync/armino/internal/session"
)

var _ session.Runtime = (*Runtime)(nil)

// Camera maps screen points to world X/Z: screen (0,0) sits over Origin and
// each screen unit covers MetersPerPoint.
type Camera struct {
	Origin         mgl64.Vec2 `yaml:"origin" json:"origin"`
	MetersPerPoint float64    `yaml:"meters_per_point" json:"meters_per_point"`
}

func DefaultCamera() Camera {
	return Camera{MetersPerPoint: 0.001}
}

type Runtime struct {
	registry *surface.Registry
	camera   Camera

	mu      sync.RWMutex
	running bool
	config  session.TrackingConfig
	runs    int
}

func NewRuntime(registry *surface.Registry, camera Camera) *Runtime {
	if camera.MetersPerPoint <= 0 {
		camera.MetersPerPoint = DefaultCamera().MetersPerPoint
	}
	return &Runtime{registry: registry, camera: camera}
}

func (r *Runtime) Run(ctx context.Context, cfg session.TrackingConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = true
	r.config = cfg
	r.runs++
	return nil
}

func (r *Runtime) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	return nil
}

// SetCamera swaps the projection, e.g. for a replay script with its own framing.
func (r *Runtime) SetCamera(camera Camera) {
	if camera.MetersPerPoint <= 0 {
		camera.MetersPerPoint = DefaultCamera().MetersPerPoint
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.camera = camera
}

// Runs reports how many times tracking was (re)started.
func (r *Runtime) Runs() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runs
}

func (r *Runtime) Config() session.TrackingConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config
}

// Raycast hits the highest tracked surface under the point. Nothing is hit
// while tracking is paused.
func (r *Runtime) Raycast(point placement.ScreenPoint) (mgl64.Vec3, bool) {
	r.mu.RLock()
	running, camera := r.running, r.camera
	r.mu.RUnlock()
	if !running {
		return mgl64.Vec3{}, false
	}

	x := camera.Origin.X() + point.X*camera.MetersPerPoint
	z := camera.Origin.Y() + point.Y*camera.MetersPerPoint

	var (
		hit   mgl64.Vec3
		found bool
	)
	for _, ts := range r.registry.Snapshot() {
		if !ts.Contains(x, z) {
			continue
		}
		y := ts.WorldCenter().Y()
		if !found || y > hit.Y() {
			hit, found = mgl64.Vec3{x, y, z}, true
		}
	}
	return hit, found
}
