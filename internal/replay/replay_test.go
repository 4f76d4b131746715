package replay

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/armino/internal/config"
	"github.com/zeusync/armino/internal/core/events/bus"
	"github.com/zeusync/armino/internal/core/observability/log"
	"github.com/zeusync/armino/internal/core/placement"
	"github.com/zeusync/armino/internal/core/surface"
	"github.com/zeusync/armino/internal/core/systems/physics"
	"github.com/zeusync/armino/internal/runtime/sim"
	"github.com/zeusync/armino/internal/session"
)

const tableScript = `
name: table-run
camera:
  origin: [0, 0]
  meters_per_point: 0.001
steps:
  - anchor:
      id: table
      extent: [1.0, 0.6]
      translation: [0, 0.7, 0]
  - line:
      from: {x: -300, y: 0}
      to: {x: 300, y: 0}
      samples: 151
  - end_drag: true
  - tick: 100
  - trigger: true
  - trigger: true
  - tick: 10
`

func newRunner() (*Runner, *physics.MemoryEngine) {
	reg := surface.NewRegistry()
	engine := physics.NewMemoryEngine()
	rt := sim.NewRuntime(reg, sim.DefaultCamera())
	s := session.New(config.Default(), rt, engine, reg, bus.New(), log.NewNop())
	return NewRunner(s, rt, engine, log.NewNop()), engine
}

func TestRunScript(t *testing.T) {
	sc, err := LoadScript(strings.NewReader(tableScript))
	require.NoError(t, err)
	assert.Equal(t, "table-run", sc.Name)

	runner, engine := newRunner()
	sum, err := runner.Run(context.Background(), sc)
	require.NoError(t, err)

	// 0.6 m sampled every 4 mm places a piece every 8th sample
	assert.Equal(t, 151, sum.Samples)
	assert.Equal(t, 18, sum.Placed)
	assert.Equal(t, 18, sum.Length)
	assert.Equal(t, 2, sum.Triggers)
	assert.Equal(t, 110, sum.Ticks)
	assert.Equal(t, "toppling", sum.State)

	pieces := runner.Session().Dominoes()
	pose, ok := engine.Pose(pieces[5].ID)
	require.True(t, ok)
	assert.InDelta(t, 0.7+surface.DefaultThickness/2+0.03, pose.Position.Y(), 1e-6, "pieces settle on the table")

	impulses := engine.Impulses()
	require.Len(t, impulses, 2)
	assert.Equal(t, pieces[0].ID, impulses[0].NodeID)
	assert.Equal(t, pieces[0].ID, impulses[1].NodeID)
}

func TestRunResetAndRemove(t *testing.T) {
	src := `
steps:
  - anchor: {id: floor, extent: [2, 2]}
  - drag: [{x: 0, y: 0}, {x: 40, y: 0}, {x: 80, y: 0}]
  - reset: true
  - drag: [{x: 0, y: 100}]
  - remove_anchor: floor
  - drag: [{x: 0, y: 200}]
  - trigger: true
`
	sc, err := LoadScript(strings.NewReader(src))
	require.NoError(t, err)

	runner, engine := newRunner()
	sum, err := runner.Run(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Placed)
	assert.Equal(t, 1, sum.Resets)
	assert.Zero(t, sum.Triggers)
	assert.Zero(t, sum.Length)
	assert.Equal(t, "empty", sum.State)
	assert.Empty(t, engine.NodeIDs())
}

func TestScriptValidation(t *testing.T) {
	_, err := LoadScript(strings.NewReader("steps:\n  - {trigger: true, reset: true}\n"))
	assert.ErrorIs(t, err, ErrInvalidScript)

	_, err = LoadScript(strings.NewReader("steps:\n  - {}\n"))
	assert.ErrorIs(t, err, ErrInvalidScript)

	_, err = LoadScript(strings.NewReader("steps:\n  - anchor: {extent: [1, 1]}\n"))
	assert.ErrorIs(t, err, ErrInvalidScript)

	_, err = LoadScript(strings.NewReader("steps:\n  - jump: true\n"))
	assert.Error(t, err)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	sc, err := LoadScript(strings.NewReader(tableScript))
	require.NoError(t, err)

	runner, _ := newRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runner.Run(ctx, sc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinePoints(t *testing.T) {
	pts := LineStep{From: placement.ScreenPoint{X: 0, Y: 0}, To: placement.ScreenPoint{X: 10, Y: 20}, Samples: 3}.Points()
	require.Len(t, pts, 3)
	assert.Equal(t, placement.ScreenPoint{X: 5, Y: 10}, pts[1])
	assert.Equal(t, placement.ScreenPoint{X: 10, Y: 20}, pts[2])

	single := LineStep{To: placement.ScreenPoint{X: 1, Y: 1}}.Points()
	assert.Equal(t, []placement.ScreenPoint{{X: 1, Y: 1}}, single)
}

func TestShippedTableScript(t *testing.T) {
	sc, err := LoadScriptFile("../../scripts/table.yaml")
	require.NoError(t, err)

	runner, engine := newRunner()
	sum, err := runner.Run(context.Background(), sc)
	require.NoError(t, err)

	assert.Positive(t, sum.Placed)
	assert.Equal(t, 1, sum.Triggers)
	assert.Equal(t, 1, sum.Resets)
	assert.Zero(t, sum.Length)
	assert.Equal(t, "empty", sum.State)
	assert.Empty(t, runner.Session().Surfaces())
	assert.Empty(t, engine.NodeIDs())
}
