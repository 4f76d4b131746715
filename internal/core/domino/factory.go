package domino

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/zeusync/armino/internal/core/systems/physics"
)

// Spec holds the fixed physical description of every domino a Factory builds.
type Spec struct {
	Size     physics.Box
	Mass     float64
	Friction float64
	// Lift raises the piece above the hit point so it settles under gravity.
	Lift float64
}

func DefaultSpec() Spec {
	return Spec{
		Size:     physics.Box{Width: 0.007, Height: 0.06, Length: 0.03},
		Mass:     2.0,
		Friction: 0.8,
		Lift:     0.03,
	}
}

// Domino is one placed piece. Everything but the engine-driven pose is fixed
// at creation.
type Domino struct {
	ID          string
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Yaw         float64
	Size        physics.Box
	Color       Color
	Mass        float64
	Friction    float64
}

// Node builds the scene descriptor: dynamic body, shape inferred from the box,
// zero initial velocity.
func (d *Domino) Node() physics.Node {
	return physics.Node{
		ID:       d.ID,
		Geometry: d.Size,
		Material: physics.Material{Diffuse: d.Color.RGBA, ColorWriteMask: physics.ColorMaskAll},
		Body: physics.Body{
			Type:     physics.BodyDynamic,
			Mass:     d.Mass,
			Friction: d.Friction,
		},
		Pose: physics.Pose{Position: d.Position, Orientation: d.Orientation},
	}
}

// Right is the piece's lateral axis at placement time.
func (d *Domino) Right() mgl64.Vec3 {
	return physics.WorldRight(d.Orientation)
}

type Factory struct {
	spec Spec
	pick func(n int) int
}

type Option func(*Factory)

// WithPicker replaces the palette index source, mainly for deterministic tests.
// pick must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(f *Factory) {
		if pick != nil {
			f.pick = pick
		}
	}
}

func NewFactory(spec Spec, opts ...Option) *Factory {
	f := &Factory{spec: spec, pick: rand.IntN}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds the domino for a placement from previous to current. The
// piece's thin local X axis points along the direction of travel, so its broad
// face stands across the drag path.
func (f *Factory) Create(previous, current mgl64.Vec3) *Domino {
	yaw := Yaw(previous, current)
	return &Domino{
		ID:          uuid.NewString(),
		Position:    current.Add(mgl64.Vec3{0, f.spec.Lift, 0}),
		Orientation: physics.YawRotation(yaw),
		Yaw:         yaw,
		Size:        f.spec.Size,
		Color:       palette[f.pick(PaletteSize)],
		Mass:        f.spec.Mass,
		Friction:    f.spec.Friction,
	}
}

// Yaw is the rotation about +Y, in radians, that turns local +X onto the
// travel direction previous -> current.
func Yaw(previous, current mgl64.Vec3) float64 {
	return -physics.Bearing(previous, current)
}
