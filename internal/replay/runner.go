package replay

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/armino/internal/core/observability/log"
	"github.com/zeusync/armino/internal/core/systems/physics"
	"github.com/zeusync/armino/internal/runtime/sim"
	"github.com/zeusync/armino/internal/session"
)

// Summary describes what a replay did to the chain.
type Summary struct {
	Steps    int
	Samples  int
	Placed   int
	Triggers int
	Resets   int
	Ticks    int
	Length   int
	State    string
}

// Runner drives a session from a Script, advancing the reference engine on tick steps.
type Runner struct {
	session *session.Session
	runtime *sim.Runtime
	engine  *physics.MemoryEngine
	logger  log.Log
}

func NewRunner(s *session.Session, rt *sim.Runtime, engine *physics.MemoryEngine, logger log.Log) *Runner {
	return &Runner{session: s, runtime: rt, engine: engine, logger: logger}
}

func (r *Runner) Session() *session.Session { return r.session }

// Run starts the session if needed and plays every step. It stops early when
// ctx is done.
func (r *Runner) Run(ctx context.Context, sc *Script) (Summary, error) {
	var sum Summary

	r.runtime.SetCamera(sc.Camera)
	if err := r.session.Start(ctx); err != nil {
		return sum, err
	}

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := r.play(step, &sum); err != nil {
			return sum, fmt.Errorf("step %d: %w", i, err)
		}
		sum.Steps++
	}

	sum.Length = len(r.session.Dominoes())
	sum.State = r.session.State().String()
	r.logger.Info("replay finished",
		log.String("script", sc.Name),
		log.Int("placed", sum.Placed),
		log.Int("length", sum.Length),
		log.String("state", sum.State),
	)
	return sum, nil
}

func (r *Runner) play(step Step, sum *Summary) error {
	switch {
	case step.Anchor != nil:
		a := step.Anchor
		return r.session.OnAnchorUpdated(session.Anchor{
			ID:        a.ID,
			Center:    a.Center,
			Extent:    a.Extent,
			Transform: mgl64.Translate3D(a.Translation.X(), a.Translation.Y(), a.Translation.Z()),
		})
	case step.RemoveAnchor != "":
		return r.session.OnAnchorRemoved(step.RemoveAnchor)
	case len(step.Drag) > 0 || step.Line != nil:
		points := step.Drag
		if step.Line != nil {
			points = step.Line.Points()
		}
		for _, p := range points {
			placed, err := r.session.HandleDragSample(p)
			if err != nil {
				return err
			}
			sum.Samples++
			if placed {
				sum.Placed++
			}
		}
		return nil
	case step.EndDrag:
		r.session.HandleDragEnded()
		return nil
	case step.Trigger:
		applied, err := r.session.HandleTriggerCommand()
		if applied {
			sum.Triggers++
		}
		return err
	case step.Reset:
		sum.Resets++
		return r.session.HandleResetCommand()
	case step.Tick > 0:
		for i := 0; i < step.Tick; i++ {
			r.engine.Step()
		}
		sum.Ticks += step.Tick
		return nil
	}
	return nil
}
