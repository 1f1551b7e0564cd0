package wgpustein

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// World axes. The scene is right handed with +Z up and +Y forward.
var (
	WorldForward = mgl32.Vec3{0, 1, 0}
	WorldRight   = mgl32.Vec3{1, 0, 0}
	WorldUp      = mgl32.Vec3{0, 0, 1}
)

// Transform is a position plus a unit orientation. Code that mutates
// Rotation directly must keep it normalized.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

func DefaultTransform() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

func TransformFromTranslation(translation mgl32.Vec3) Transform {
	return Transform{Translation: translation, Rotation: mgl32.QuatIdent()}
}

func TransformFromRotation(rotation mgl32.Quat) Transform {
	return Transform{Rotation: rotation}
}

func (t Transform) WithTranslation(translation mgl32.Vec3) Transform {
	t.Translation = translation
	return t
}

func (t Transform) WithRotation(rotation mgl32.Quat) Transform {
	t.Rotation = rotation
	return t
}

func (t Transform) LookingAt(position mgl32.Vec3) Transform {
	return t.LookingAlong(position.Sub(t.Translation))
}

// LookingAlong turns the transform so Forward points along dir. When dir is
// parallel to WorldForward the rotation axis falls back to WorldUp.
func (t Transform) LookingAlong(dir mgl32.Vec3) Transform {
	// Normalize in float64 so tiny directions neither underflow nor trip
	// the parallel check. A zero dir keeps the identity rotation.
	x, y, z := float64(dir.X()), float64(dir.Y()), float64(dir.Z())
	if l := math.Sqrt(x*x + y*y + z*z); l > 0 && !math.IsInf(l, 0) {
		dir = mgl32.Vec3{float32(x / l), float32(y / l), float32(z / l)}
	}
	cross := WorldForward.Cross(dir)
	axis := WorldUp
	if l := cross.Len(); l > 1e-6 {
		axis = cross.Mul(1 / l)
	}
	angle := signedAngleBetween(WorldForward, dir, axis)
	return t.WithRotation(mgl32.QuatRotate(angle, axis))
}

func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(WorldForward)
}

// Right is Forward x Up, or WorldRight when forward is too close to Up for
// the cross product to be meaningful.
func (t Transform) Right() mgl32.Vec3 {
	right := t.Forward().Cross(WorldUp)
	if absDiffEq(right, mgl32.Vec3{}, 0.5) {
		return WorldRight
	}
	return right
}

func (t Transform) AsModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.X(), t.Translation.Y(), t.Translation.Z()).Mul4(t.Rotation.Mat4())
}

func (t Transform) AsViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(t.Translation, t.Translation.Add(t.Forward()), WorldUp)
}

func signedAngleBetween(a, b, plane mgl32.Vec3) float32 {
	return float32(math.Atan2(float64(a.Cross(b).Dot(plane)), float64(a.Dot(b))))
}

func absDiffEq(a, b mgl32.Vec3, tolerance float32) bool {
	for i := range a {
		if mgl32.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}
