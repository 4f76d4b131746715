package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTimeStep is the fixed simulation step used for toppling chains.
const DefaultTimeStep = 1.0 / 200

// DefaultGravity is the ambient acceleration applied to dynamic bodies.
var DefaultGravity = mgl64.Vec3{0, -9.8, 0}

var (
	ErrUnknownNode   = errors.New("unknown scene node")
	ErrDuplicateNode = errors.New("scene node already exists")
	ErrNotDynamic    = errors.New("impulse target is not a dynamic body")
)

// Engine is the scene and rigid-body solver the domino core drives. The solver
// owns contact resolution; callers only insert, remove and push bodies.
type Engine interface {
	SetTimeStep(step float64)
	AddNode(node Node) error
	// UpdateNode replaces pose, geometry and body shape of an existing node.
	UpdateNode(node Node) error
	RemoveNode(id string) error
	// ApplyImpulse adds a one-shot impulse at the body's center of mass.
	ApplyImpulse(id string, impulse mgl64.Vec3) error
	// Pose reports the current solver-driven pose of a node.
	Pose(id string) (Pose, bool)
}
