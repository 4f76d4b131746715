package placement

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/armino/internal/core/systems/physics"
)

// DefaultMinSpacing is the planar gap required between consecutive placements.
const DefaultMinSpacing = 0.03

// ScreenPoint is a pointer location in view coordinates.
type ScreenPoint struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Raycaster resolves a screen point against the tracked surfaces.
type Raycaster interface {
	Raycast(point ScreenPoint) (mgl64.Vec3, bool)
}

// RaycasterFunc adapts a plain function to Raycaster.
type RaycasterFunc func(point ScreenPoint) (mgl64.Vec3, bool)

func (f RaycasterFunc) Raycast(point ScreenPoint) (mgl64.Vec3, bool) { return f(point) }

// Placement is emitted when a drag sample lands far enough from the last one.
type Placement struct {
	Previous mgl64.Vec3
	Current  mgl64.Vec3
}

// Processor turns a stream of drag samples into evenly spaced placements.
// It is not safe for concurrent use; gesture samples arrive serialized.
type Processor struct {
	raycaster  Raycaster
	minSpacing float64

	lastPlaced mgl64.Vec3
	hasLast    bool
}

func NewProcessor(raycaster Raycaster, minSpacing float64) *Processor {
	if minSpacing <= 0 {
		minSpacing = DefaultMinSpacing
	}
	return &Processor{raycaster: raycaster, minSpacing: minSpacing}
}

// OnDragSample consumes one sample. The first hit of a stroke only seeds the
// cursor; later hits closer than the minimum spacing are dropped.
func (p *Processor) OnDragSample(point ScreenPoint) (Placement, bool) {
	hit, ok := p.raycaster.Raycast(point)
	if !ok {
		return Placement{}, false
	}

	if !p.hasLast {
		p.lastPlaced, p.hasLast = hit, true
		return Placement{}, false
	}

	if physics.PlanarDistance(p.lastPlaced, hit) < p.minSpacing {
		return Placement{}, false
	}

	placed := Placement{Previous: p.lastPlaced, Current: hit}
	p.lastPlaced = hit
	return placed, true
}

// Rewind undoes pl when nothing consumed the placement, so spacing keeps
// measuring from the last piece that actually exists. It is a no-op once the
// cursor has moved past pl.
func (p *Processor) Rewind(pl Placement) {
	if p.hasLast && p.lastPlaced == pl.Current {
		p.lastPlaced = pl.Previous
	}
}

// Reset forgets the cursor so the next sample starts a fresh baseline.
func (p *Processor) Reset() {
	p.lastPlaced, p.hasLast = mgl64.Vec3{}, false
}

func (p *Processor) Cursor() (mgl64.Vec3, bool) {
	return p.lastPlaced, p.hasLast
}

func (p *Processor) MinSpacing() float64 {
	return p.minSpacing
}
