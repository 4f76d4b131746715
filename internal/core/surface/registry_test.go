package surface

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/armino/internal/core/systems/physics"
)

func TestUpsertCreatesThenUpdatesInPlace(t *testing.T) {
	r := NewRegistry()

	first, created := r.Upsert("plane-1", mgl64.Vec3{0, 0, 0}, mgl64.Vec2{0.5, 0.4}, mgl64.Ident4())
	require.True(t, created)
	assert.Equal(t, uint64(1), first.Version)

	second, created := r.Upsert("plane-1", mgl64.Vec3{0.1, 0, 0.2}, mgl64.Vec2{1.2, 0.9}, mgl64.Translate3D(0, -1, 0))
	require.False(t, created)
	assert.Equal(t, uint64(2), second.Version)

	assert.Equal(t, 1, r.Len())
	got, ok := r.Lookup("plane-1")
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec2{1.2, 0.9}, got.Extent)
	assert.Equal(t, physics.Box{Width: 1.2, Height: DefaultThickness, Length: 0.9}, got.Shape)
	assert.Equal(t, mgl64.Vec3{0.1, -1, 0.2}, got.WorldCenter())
}

func TestUpsertKeepsSurfaceInvisible(t *testing.T) {
	r := NewRegistry(WithThickness(0.002))
	ts, _ := r.Upsert("p", mgl64.Vec3{}, mgl64.Vec2{1, 1}, mgl64.Ident4())
	assert.Equal(t, physics.ColorMaskNone, ts.Material.ColorWriteMask)
	assert.Equal(t, 0.002, ts.Shape.Height)

	node := ts.Node()
	assert.Equal(t, NodeID("p"), node.ID)
	assert.Equal(t, physics.BodyStatic, node.Body.Type)
	require.NotNil(t, node.Body.Shape)
	assert.Equal(t, ts.Shape, *node.Body.Shape)
}

func TestLookupReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.Upsert("p", mgl64.Vec3{}, mgl64.Vec2{1, 1}, mgl64.Ident4())

	got, _ := r.Lookup("p")
	got.Extent = mgl64.Vec2{9, 9}

	again, _ := r.Lookup("p")
	assert.Equal(t, mgl64.Vec2{1, 1}, again.Extent)
}

func TestRemove(t *testing.T) {
	r := NewRegistry()
	r.Upsert("p", mgl64.Vec3{}, mgl64.Vec2{1, 1}, mgl64.Ident4())

	assert.True(t, r.Remove("p"))
	assert.False(t, r.Remove("p"))
	_, ok := r.Lookup("p")
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestContainsUsesAxisAlignedFootprint(t *testing.T) {
	r := NewRegistry()
	ts, _ := r.Upsert("p", mgl64.Vec3{1, 0, 1}, mgl64.Vec2{2, 1}, mgl64.Ident4())

	assert.True(t, ts.Contains(1, 1))
	assert.True(t, ts.Contains(0, 0.5))
	assert.True(t, ts.Contains(2, 1.5))
	assert.False(t, ts.Contains(2.01, 1))
	assert.False(t, ts.Contains(1, 0.49))
}

func TestSnapshotSortedAndConcurrentUpserts(t *testing.T) {
	r := NewRegistry(WithShardCount(4))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("plane-%02d", i)
			for j := 1; j <= 10; j++ {
				r.Upsert(id, mgl64.Vec3{}, mgl64.Vec2{float64(j), 1}, mgl64.Ident4())
			}
		}(i)
	}
	wg.Wait()

	snap := r.Snapshot()
	require.Len(t, snap, 32)
	for i, ts := range snap {
		assert.Equal(t, fmt.Sprintf("plane-%02d", i), ts.ID)
		assert.Equal(t, uint64(10), ts.Version)
		assert.Equal(t, 10.0, ts.Extent.X())
	}
}
