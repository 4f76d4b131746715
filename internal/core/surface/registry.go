package surface

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/armino/internal/core/systems/physics"
)

const (
	// DefaultThickness is the height of the flat collision box under a surface.
	DefaultThickness = 0.001
	defaultShards    = 16
)

// TrackedSurface is the collidable stand-in for one horizontal plane anchor.
type TrackedSurface struct {
	ID string
	// Center is relative to the anchor transform.
	Center mgl64.Vec3
	// Extent is the footprint size: X is width, Y holds the Z depth.
	Extent    mgl64.Vec2
	Transform mgl64.Mat4
	Shape     physics.Box
	Material  physics.Material
	Version   uint64
}

// WorldCenter places the surface center in world space.
func (s TrackedSurface) WorldCenter() mgl64.Vec3 {
	return s.Transform.Mul4x1(s.Center.Vec4(1)).Vec3()
}

// Contains reports whether the world X/Z point lies on the axis-aligned footprint.
func (s TrackedSurface) Contains(x, z float64) bool {
	c := s.WorldCenter()
	hw, hd := s.Extent.X()/2, s.Extent.Y()/2
	return x >= c.X()-hw && x <= c.X()+hw && z >= c.Z()-hd && z <= c.Z()+hd
}

// Node describes the surface as an invisible static body for the scene.
func (s TrackedSurface) Node() physics.Node {
	shape := s.Shape
	return physics.Node{
		ID:       NodeID(s.ID),
		Parent:   s.ID,
		Geometry: shape,
		Material: s.Material,
		Body:     physics.Body{Type: physics.BodyStatic, Shape: &shape},
		Pose:     physics.Pose{Position: s.WorldCenter(), Orientation: mgl64.QuatIdent()},
	}
}

// NodeID is the scene node id used for an anchor's collision plane.
func NodeID(anchorID string) string {
	return "surface/" + anchorID
}

type shard struct {
	mx       sync.RWMutex
	surfaces map[string]*TrackedSurface
}

// Registry keeps one TrackedSurface per anchor id. Writers on different
// anchors rarely share a shard lock; readers always get copies.
type Registry struct {
	shards    []*shard
	thickness float64
}

type Option func(*Registry)

func WithShardCount(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.shards = make([]*shard, n)
		}
	}
}

func WithThickness(t float64) Option {
	return func(r *Registry) {
		if t > 0 {
			r.thickness = t
		}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		shards:    make([]*shard, defaultShards),
		thickness: DefaultThickness,
	}
	for _, opt := range opts {
		opt(r)
	}
	for i := range r.shards {
		r.shards[i] = &shard{surfaces: make(map[string]*TrackedSurface)}
	}
	return r
}

func (r *Registry) shardFor(id string) *shard {
	return r.shards[xxhash.Sum64String(id)%uint64(len(r.shards))]
}

// Upsert creates the surface for an unseen anchor or refreshes an existing one
// in place. The collision box is rebuilt from the extent on every call and the
// material never writes color. The returned bool is true on creation.
func (r *Registry) Upsert(id string, center mgl64.Vec3, extent mgl64.Vec2, transform mgl64.Mat4) (TrackedSurface, bool) {
	s := r.shardFor(id)
	s.mx.Lock()
	defer s.mx.Unlock()

	ts, exists := s.surfaces[id]
	if !exists {
		ts = &TrackedSurface{ID: id}
		s.surfaces[id] = ts
	}
	ts.Center = center
	ts.Extent = extent
	ts.Transform = transform
	ts.Shape = physics.Box{Width: extent.X(), Height: r.thickness, Length: extent.Y()}
	ts.Material = physics.Material{ColorWriteMask: physics.ColorMaskNone}
	ts.Version++

	return *ts, !exists
}

func (r *Registry) Lookup(id string) (TrackedSurface, bool) {
	s := r.shardFor(id)
	s.mx.RLock()
	defer s.mx.RUnlock()

	ts, ok := s.surfaces[id]
	if !ok {
		return TrackedSurface{}, false
	}
	return *ts, true
}

// Remove forgets an anchor the tracking runtime retracted or merged.
func (r *Registry) Remove(id string) bool {
	s := r.shardFor(id)
	s.mx.Lock()
	defer s.mx.Unlock()

	if _, ok := s.surfaces[id]; !ok {
		return false
	}
	delete(s.surfaces, id)
	return true
}

func (r *Registry) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mx.RLock()
		n += len(s.surfaces)
		s.mx.RUnlock()
	}
	return n
}

// Snapshot copies every surface, ordered by id.
func (r *Registry) Snapshot() []TrackedSurface {
	out := make([]TrackedSurface, 0, r.Len())
	for _, s := range r.shards {
		s.mx.RLock()
		for _, ts := range s.surfaces {
			out = append(out, *ts)
		}
		s.mx.RUnlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
