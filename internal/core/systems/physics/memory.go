package physics

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

var _ Engine = (*MemoryEngine)(nil)

// ImpulseRecord is one ApplyImpulse call as seen by the MemoryEngine.
type ImpulseRecord struct {
	NodeID  string
	Impulse mgl64.Vec3
}

type memoryBody struct {
	node     Node
	velocity mgl64.Vec3
}

// MemoryEngine is a small reference solver: it integrates dynamic bodies under
// gravity and rests them on static bodies beneath their footprint. It does not
// resolve body-to-body contacts; a real solver is expected to do that.
type MemoryEngine struct {
	mu       sync.RWMutex
	bodies   map[string]*memoryBody
	order    []string
	impulses []ImpulseRecord
	timeStep float64
	gravity  mgl64.Vec3
}

func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{
		bodies:   make(map[string]*memoryBody),
		timeStep: DefaultTimeStep,
		gravity:  DefaultGravity,
	}
}

func (e *MemoryEngine) SetTimeStep(step float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if step > 0 {
		e.timeStep = step
	}
}

func (e *MemoryEngine) TimeStep() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.timeStep
}

func (e *MemoryEngine) AddNode(node Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.bodies[node.ID]; exists {
		return fmt.Errorf("add %s: %w", node.ID, ErrDuplicateNode)
	}
	if node.Pose.Orientation == (mgl64.Quat{}) {
		node.Pose.Orientation = mgl64.QuatIdent()
	}
	e.bodies[node.ID] = &memoryBody{node: node, velocity: node.Body.Velocity}
	e.order = append(e.order, node.ID)
	return nil
}

func (e *MemoryEngine) UpdateNode(node Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.bodies[node.ID]
	if !ok {
		return fmt.Errorf("update %s: %w", node.ID, ErrUnknownNode)
	}
	if node.Pose.Orientation == (mgl64.Quat{}) {
		node.Pose.Orientation = mgl64.QuatIdent()
	}
	b.node = node
	return nil
}

func (e *MemoryEngine) RemoveNode(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.bodies[id]; !ok {
		return fmt.Errorf("remove %s: %w", id, ErrUnknownNode)
	}
	delete(e.bodies, id)
	for i, existing := range e.order {
		if existing == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

func (e *MemoryEngine) ApplyImpulse(id string, impulse mgl64.Vec3) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.bodies[id]
	if !ok {
		return fmt.Errorf("impulse %s: %w", id, ErrUnknownNode)
	}
	if b.node.Body.Type != BodyDynamic {
		return fmt.Errorf("impulse %s: %w", id, ErrNotDynamic)
	}
	mass := b.node.Body.Mass
	if mass <= 0 {
		mass = 1
	}
	b.velocity = b.velocity.Add(impulse.Mul(1 / mass))
	e.impulses = append(e.impulses, ImpulseRecord{NodeID: id, Impulse: impulse})
	return nil
}

func (e *MemoryEngine) Pose(id string) (Pose, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bodies[id]
	if !ok {
		return Pose{}, false
	}
	return b.node.Pose, true
}

// Velocity reports the current linear velocity of a node.
func (e *MemoryEngine) Velocity(id string) (mgl64.Vec3, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bodies[id]
	if !ok {
		return mgl64.Vec3{}, false
	}
	return b.velocity, true
}

// Node returns the stored descriptor for id.
func (e *MemoryEngine) Node(id string) (Node, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.bodies[id]
	if !ok {
		return Node{}, false
	}
	return b.node, true
}

// NodeIDs lists nodes in insertion order.
func (e *MemoryEngine) NodeIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]string(nil), e.order...)
}

func (e *MemoryEngine) Impulses() []ImpulseRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]ImpulseRecord(nil), e.impulses...)
}

// Step advances every dynamic body by one fixed time step.
func (e *MemoryEngine) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()

	dt := e.timeStep
	for _, id := range e.order {
		b := e.bodies[id]
		if b.node.Body.Type != BodyDynamic {
			continue
		}
		b.velocity = b.velocity.Add(e.gravity.Mul(dt))
		next := b.node.Pose.Position.Add(b.velocity.Mul(dt))

		half := b.node.CollisionShape().Height / 2
		if floor, ok := e.floorBeneathLocked(next); ok && next.Y()-half <= floor {
			next[1] = floor + half
			b.velocity[1] = 0
			damping := 1 - b.node.Body.Friction*dt
			if damping < 0 {
				damping = 0
			}
			b.velocity[0] *= damping
			b.velocity[2] *= damping
		}
		b.node.Pose.Position = next
	}
}

// floorBeneathLocked finds the highest static top surface whose footprint
// contains p. Static footprints are treated as axis aligned.
func (e *MemoryEngine) floorBeneathLocked(p mgl64.Vec3) (float64, bool) {
	var (
		top   float64
		found bool
	)
	for _, id := range e.order {
		b := e.bodies[id]
		if b.node.Body.Type != BodyStatic {
			continue
		}
		center := b.node.Pose.Position
		half := b.node.CollisionShape().HalfExtents()
		if p.X() < center.X()-half.X() || p.X() > center.X()+half.X() ||
			p.Z() < center.Z()-half.Z() || p.Z() > center.Z()+half.Z() {
			continue
		}
		surfaceTop := center.Y() + half.Y()
		if !found || surfaceTop > top {
			top, found = surfaceTop, true
		}
	}
	return top, found
}
