package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/zeusync/armino/internal/config"
	"github.com/zeusync/armino/internal/core/chain"
	"github.com/zeusync/armino/internal/core/domino"
	"github.com/zeusync/armino/internal/core/events/bus"
	"github.com/zeusync/armino/internal/core/observability/log"
	"github.com/zeusync/armino/internal/core/placement"
	"github.com/zeusync/armino/internal/core/surface"
	"github.com/zeusync/armino/internal/core/systems/physics"
)

// PlaneDetection selects which plane orientations the tracker reports.
type PlaneDetection uint8

const (
	PlaneDetectionNone PlaneDetection = iota
	PlaneDetectionHorizontal
)

type TrackingConfig struct {
	PlaneDetection PlaneDetection
}

// Tracker is the camera/pose tracking runtime.
type Tracker interface {
	Run(ctx context.Context, cfg TrackingConfig) error
	Pause() error
}

// Runtime is everything the session needs from the tracking side.
type Runtime interface {
	Tracker
	placement.Raycaster
}

// Anchor is a plane estimate reported by the tracking runtime.
type Anchor struct {
	ID        string
	Center    mgl64.Vec3
	Extent    mgl64.Vec2
	Transform mgl64.Mat4
}

// Session owns one scene's surfaces, stroke cursor and domino chain.
type Session struct {
	id      string
	cfg     *config.Config
	runtime Runtime
	engine  physics.Engine
	events  bus.EventBus
	logger  log.Log

	registry *surface.Registry
	stroke   *placement.Processor
	factory  *domino.Factory
	chain    *chain.Controller

	// mu serializes gesture and command handling.
	mu      sync.Mutex
	started bool
}

type Option func(*Session)

// WithDominoOptions forwards options to the session's domino factory.
func WithDominoOptions(opts ...domino.Option) Option {
	return func(s *Session) {
		s.factory = domino.NewFactory(s.cfg.DominoSpec(), opts...)
	}
}

func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

func New(
	cfg *config.Config,
	runtime Runtime,
	engine physics.Engine,
	registry *surface.Registry,
	events bus.EventBus,
	logger log.Log,
	opts ...Option,
) *Session {
	s := &Session{
		id:       uuid.NewString(),
		cfg:      cfg,
		runtime:  runtime,
		engine:   engine,
		events:   events,
		registry: registry,
		stroke:   placement.NewProcessor(runtime, cfg.Placement.MinSpacing),
		factory:  domino.NewFactory(cfg.DominoSpec()),
		chain:    chain.NewController(engine, cfg.Trigger.Impulse),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.With(log.String("session", s.id))
	return s
}

func (s *Session) ID() string { return s.id }

// Start configures the physics step and starts horizontal plane tracking. It
// runs once; later calls are no-ops while the session is live.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	s.engine.SetTimeStep(s.cfg.Physics.TimeStep)
	if err := s.runtime.Run(ctx, TrackingConfig{PlaneDetection: PlaneDetectionHorizontal}); err != nil {
		return fmt.Errorf("start tracking: %w", err)
	}
	s.started = true
	s.logger.Info("session started", log.Float64("time_step", s.cfg.Physics.TimeStep))
	return nil
}

// Stop pauses tracking. Surfaces and the chain stay in place.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	if err := s.runtime.Pause(); err != nil {
		return fmt.Errorf("pause tracking: %w", err)
	}
	s.started = false
	s.logger.Info("session stopped")
	return nil
}

func (s *Session) OnAnchorAdded(a Anchor) error {
	return s.upsertAnchor(a)
}

// OnAnchorUpdated refreshes a surface; unknown ids are created.
func (s *Session) OnAnchorUpdated(a Anchor) error {
	return s.upsertAnchor(a)
}

func (s *Session) upsertAnchor(a Anchor) error {
	if a.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidAnchor)
	}

	ts, created := s.registry.Upsert(a.ID, a.Center, a.Extent, a.Transform)
	node := ts.Node()
	if created {
		if err := s.engine.AddNode(node); err != nil {
			return fmt.Errorf("insert surface %s: %w", a.ID, err)
		}
	} else if err := s.engine.UpdateNode(node); err != nil {
		if !errors.Is(err, physics.ErrUnknownNode) {
			return fmt.Errorf("update surface %s: %w", a.ID, err)
		}
		if err = s.engine.AddNode(node); err != nil {
			return fmt.Errorf("insert surface %s: %w", a.ID, err)
		}
	}

	s.logger.Debug("surface upserted",
		log.String("anchor", a.ID),
		log.Bool("created", created),
		log.Float64("width", a.Extent.X()),
		log.Float64("depth", a.Extent.Y()),
	)
	s.publish(EventSurfaceUpserted, SurfaceEvent{
		AnchorID: a.ID,
		Created:  created,
		Center:   ts.WorldCenter(),
		Extent:   ts.Extent,
	})
	return nil
}

// OnAnchorRemoved drops a retracted anchor's surface from the registry and scene.
func (s *Session) OnAnchorRemoved(id string) error {
	if !s.registry.Remove(id) {
		return nil
	}
	if err := s.engine.RemoveNode(surface.NodeID(id)); err != nil && !errors.Is(err, physics.ErrUnknownNode) {
		return fmt.Errorf("remove surface %s: %w", id, err)
	}
	s.logger.Debug("surface removed", log.String("anchor", id))
	s.publish(EventSurfaceRemoved, SurfaceEvent{AnchorID: id})
	return nil
}

// HandleDragSample feeds one pointer sample into the stroke. It reports
// whether a domino was placed.
func (s *Session) HandleDragSample(point placement.ScreenPoint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.logger.Debug("drag sample before start", log.Float64("x", point.X), log.Float64("y", point.Y))
		return false, nil
	}

	pl, ok := s.stroke.OnDragSample(point)
	if !ok {
		return false, nil
	}

	d := s.factory.Create(pl.Previous, pl.Current)
	if err := s.chain.Append(d); err != nil {
		s.stroke.Rewind(pl)
		s.logger.Warn("domino insert failed", log.Error(err))
		return false, err
	}

	index := s.chain.Len() - 1
	s.logger.Debug("domino placed",
		log.String("domino", d.ID),
		log.Int("index", index),
		log.Vec3("position", d.Position),
		log.String("color", d.Color.Name),
	)
	s.publish(EventDominoPlaced, PlacedEvent{
		DominoID: d.ID,
		Index:    index,
		Position: d.Position,
		Yaw:      d.Yaw,
		Color:    d.Color.Name,
	})
	return true, nil
}

// HandleDragEnded closes the current stroke. The spacing cursor survives so
// the next stroke continues the same chain.
func (s *Session) HandleDragEnded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chain.EndStroke()
	s.publishState()
}

// HandleResetCommand clears the chain from the scene and restarts the stroke baseline.
func (s *Session) HandleResetCommand() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.chain.Reset()
	s.stroke.Reset()
	if err != nil {
		s.logger.Warn("chain reset incomplete", log.Error(err))
	}
	s.logger.Info("chain reset", log.Int("removed", len(removed)))
	s.publish(EventChainReset, ResetEvent{Removed: len(removed)})
	s.publishState()
	return err
}

// HandleTriggerCommand pushes the chain head once. An empty chain is a no-op.
func (s *Session) HandleTriggerCommand() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	head, ok := s.chain.Head()
	if !ok {
		s.logger.Debug("trigger on empty chain")
		return false, nil
	}

	applied, impulse, err := s.chain.Trigger()
	if err != nil {
		s.logger.Warn("trigger failed", log.Error(err))
		return false, err
	}
	s.logger.Info("chain triggered",
		log.String("head", head.ID),
		log.Vec3("impulse", impulse),
		log.Int("length", s.chain.Len()),
	)
	s.publish(EventChainTriggered, TriggerEvent{HeadID: head.ID, Impulse: impulse})
	s.publishState()
	return applied, nil
}

func (s *Session) State() chain.State { return s.chain.State() }

func (s *Session) Dominoes() []*domino.Domino { return s.chain.Dominoes() }

func (s *Session) Surfaces() []surface.TrackedSurface { return s.registry.Snapshot() }

// Cursor exposes the stroke's last placed position.
func (s *Session) Cursor() (mgl64.Vec3, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stroke.Cursor()
}

func (s *Session) publishState() {
	s.publish(EventChainState, StateEvent{State: s.chain.State().String(), Length: s.chain.Len()})
}

func (s *Session) publish(eventType string, data any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(bus.NewEvent(eventType, "session/"+s.id, data)); err != nil {
		s.logger.Warn("event handler failed", log.String("event", eventType), log.Error(err))
	}
}
