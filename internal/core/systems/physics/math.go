package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes. Y is up, the tracked floor lies in the X/Z plane.
var (
	AxisUp    = mgl64.Vec3{0, 1, 0}
	AxisRight = mgl64.Vec3{1, 0, 0}
)

// PlanarDistance is the distance between a and b projected onto the X/Z plane.
func PlanarDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(a.X()-b.X(), a.Z()-b.Z())
}

// Bearing returns the angle in radians of the X/Z vector from -> to, in (-π, π].
func Bearing(from, to mgl64.Vec3) float64 {
	return math.Atan2(to.Z()-from.Z(), to.X()-from.X())
}

// YawRotation rotates about the world up axis by yaw radians.
func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, AxisUp)
}

// WorldRight is the local +X axis of a body with orientation q, expressed in world space.
func WorldRight(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(AxisRight)
}
