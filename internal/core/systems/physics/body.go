package physics

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned box in the node's local frame.
// Width runs along local X, Height along Y, Length along Z.
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Length float64 `json:"length"`
}

func (b Box) HalfExtents() mgl64.Vec3 {
	return mgl64.Vec3{b.Width / 2, b.Height / 2, b.Length / 2}
}

// BodyType says whether the solver moves a body or treats it as fixed scenery.
type BodyType uint8

const (
	BodyStatic BodyType = iota
	BodyDynamic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ColorMask selects which color channels a material writes.
type ColorMask uint8

const (
	ColorMaskNone  ColorMask = 0
	ColorMaskRed   ColorMask = 1 << 0
	ColorMaskGreen ColorMask = 1 << 1
	ColorMaskBlue  ColorMask = 1 << 2
	ColorMaskAlpha ColorMask = 1 << 3
	ColorMaskAll             = ColorMaskRed | ColorMaskGreen | ColorMaskBlue | ColorMaskAlpha
)

type Material struct {
	Diffuse        color.RGBA
	ColorWriteMask ColorMask
}

// Body describes the physics side of a node. A nil Shape asks the engine to
// infer the collision shape from the node geometry.
type Body struct {
	Type     BodyType
	Shape    *Box
	Mass     float64
	Friction float64
	Velocity mgl64.Vec3
}

type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Node is the unit of scene mutation handed to an Engine.
type Node struct {
	ID       string
	Parent   string
	Geometry Box
	Material Material
	Body     Body
	Pose     Pose
}

// CollisionShape resolves the box the solver should collide with.
func (n Node) CollisionShape() Box {
	if n.Body.Shape != nil {
		return *n.Body.Shape
	}
	return n.Geometry
}
