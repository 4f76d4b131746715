package replay

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/armino/internal/core/placement"
	"github.com/zeusync/armino/internal/runtime/sim"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScript = errors.New("invalid replay script")

// Script is a recorded interaction: anchors appearing, drag strokes and commands.
type Script struct {
	Name   string     `yaml:"name"`
	Camera sim.Camera `yaml:"camera"`
	Steps  []Step     `yaml:"steps"`
}

// Step holds exactly one action.
type Step struct {
	Anchor       *AnchorStep             `yaml:"anchor,omitempty"`
	RemoveAnchor string                  `yaml:"remove_anchor,omitempty"`
	Drag         []placement.ScreenPoint `yaml:"drag,omitempty"`
	Line         *LineStep               `yaml:"line,omitempty"`
	EndDrag      bool                    `yaml:"end_drag,omitempty"`
	Trigger      bool                    `yaml:"trigger,omitempty"`
	Reset        bool                    `yaml:"reset,omitempty"`
	Tick         int                     `yaml:"tick,omitempty"`
}

type AnchorStep struct {
	ID          string     `yaml:"id"`
	Center      mgl64.Vec3 `yaml:"center"`
	Extent      mgl64.Vec2 `yaml:"extent"`
	Translation mgl64.Vec3 `yaml:"translation"`
}

// LineStep expands to evenly spaced drag samples from From to To inclusive.
type LineStep struct {
	From    placement.ScreenPoint `yaml:"from"`
	To      placement.ScreenPoint `yaml:"to"`
	Samples int                   `yaml:"samples"`
}

func (l LineStep) Points() []placement.ScreenPoint {
	if l.Samples < 2 {
		return []placement.ScreenPoint{l.To}
	}
	out := make([]placement.ScreenPoint, l.Samples)
	for i := range out {
		t := float64(i) / float64(l.Samples-1)
		out[i] = placement.ScreenPoint{
			X: l.From.X + (l.To.X-l.From.X)*t,
			Y: l.From.Y + (l.To.Y-l.From.Y)*t,
		}
	}
	return out
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.Anchor != nil,
		s.RemoveAnchor != "",
		len(s.Drag) > 0,
		s.Line != nil,
		s.EndDrag,
		s.Trigger,
		s.Reset,
		s.Tick > 0,
	} {
		if set {
			n++
		}
	}
	return n
}

func (sc *Script) Validate() error {
	for i, step := range sc.Steps {
		if n := step.actions(); n != 1 {
			return fmt.Errorf("%w: step %d has %d actions", ErrInvalidScript, i, n)
		}
		if step.Anchor != nil && step.Anchor.ID == "" {
			return fmt.Errorf("%w: step %d anchor without id", ErrInvalidScript, i)
		}
	}
	return nil
}

func LoadScript(r io.Reader) (*Script, error) {
	sc := &Script{Camera: sim.DefaultCamera()}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func LoadScriptFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return LoadScript(f)
}
