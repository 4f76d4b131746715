package chain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/armino/internal/core/domino"
	"github.com/zeusync/armino/internal/core/systems/physics"
)

// DefaultImpulse is the magnitude of the push given to the chain head.
const DefaultImpulse = 0.7

// State tracks where a chain is in its build/topple lifecycle.
type State uint8

const (
	StateEmpty State = iota
	StateBuilding
	StateReady
	StateToppling
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateToppling:
		return "toppling"
	default:
		return "unknown"
	}
}

// Controller owns the ordered chain and the scene nodes behind it.
type Controller struct {
	mu      sync.RWMutex
	engine  physics.Engine
	impulse float64
	pieces  []*domino.Domino
	state   State
}

func NewController(engine physics.Engine, impulse float64) *Controller {
	if impulse <= 0 {
		impulse = DefaultImpulse
	}
	return &Controller{engine: engine, impulse: impulse}
}

// Append inserts the piece into the scene root and adds it to the end of the chain.
func (c *Controller) Append(d *domino.Domino) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.engine.AddNode(d.Node()); err != nil {
		return fmt.Errorf("insert domino %s: %w", d.ID, err)
	}
	c.pieces = append(c.pieces, d)
	if c.state != StateToppling {
		c.state = StateBuilding
	}
	return nil
}

// EndStroke marks a chain under construction as ready to trigger.
func (c *Controller) EndStroke() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateBuilding {
		c.state = StateReady
	}
}

// Reset removes every piece from the scene and empties the chain. The chain is
// emptied even if some removals fail; their errors are joined.
func (c *Controller) Reset() ([]*domino.Domino, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.pieces
	var errs []error
	for _, d := range removed {
		if err := c.engine.RemoveNode(d.ID); err != nil {
			errs = append(errs, fmt.Errorf("remove domino %s: %w", d.ID, err))
		}
	}
	c.pieces = nil
	c.state = StateEmpty
	return removed, errors.Join(errs...)
}

// Trigger pushes the head along its current lateral axis. It reports false
// without touching the engine when the chain is empty.
func (c *Controller) Trigger() (bool, mgl64.Vec3, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pieces) == 0 {
		return false, mgl64.Vec3{}, nil
	}

	head := c.pieces[0]
	orientation := head.Orientation
	if pose, ok := c.engine.Pose(head.ID); ok {
		orientation = pose.Orientation
	}
	impulse := physics.WorldRight(orientation).Mul(c.impulse)

	if err := c.engine.ApplyImpulse(head.ID, impulse); err != nil {
		return false, mgl64.Vec3{}, fmt.Errorf("push chain head %s: %w", head.ID, err)
	}
	c.state = StateToppling
	return true, impulse, nil
}

func (c *Controller) Head() (*domino.Domino, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.pieces) == 0 {
		return nil, false
	}
	return c.pieces[0], true
}

func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pieces)
}

// Dominoes returns the chain in placement order.
func (c *Controller) Dominoes() []*domino.Domino {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*domino.Domino(nil), c.pieces...)
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
