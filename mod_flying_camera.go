package wgpustein

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type FlyingCameraModule struct{}

func (m FlyingCameraModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(flyingCameraSystem).
			InStage(Update),
	)
}

// FlyingCamera steers the entity's Transform: WASD moves along the view,
// Space and Control move along WorldUp, and mouse motion turns the camera
// while the right button is held.
type FlyingCamera struct {
	Speed       float32 // world units per virtual second
	Sensitivity float32 // degrees per pixel
	Yaw         float32 // degrees about WorldUp
	Pitch       float32 // degrees about the rotated WorldRight
}

// NewFlyingCamera starts with the heading of t so attaching it does not snap
// the view.
func NewFlyingCamera(t Transform) FlyingCamera {
	fwd := t.Forward()
	pitch := math.Asin(float64(mgl32.Clamp(fwd.Z(), -1, 1)))
	yaw := math.Atan2(float64(-fwd.X()), float64(fwd.Y()))
	return FlyingCamera{
		Speed:       2,
		Sensitivity: 0.1,
		Yaw:         mgl32.RadToDeg(float32(yaw)),
		Pitch:       mgl32.RadToDeg(float32(pitch)),
	}
}

func (fly *FlyingCamera) rotation() mgl32.Quat {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(fly.Yaw), WorldUp)
	return yaw.Mul(mgl32.QuatRotate(mgl32.DegToRad(fly.Pitch), WorldRight))
}

func flyingCameraSystem(cmd *Commands, input *Input, virtual *VirtualTime) {
	dt := virtual.DeltaSecs()

	MakeQuery2[Transform, FlyingCamera](cmd).MapRead(func(entityId EntityId, transform *Transform, fly *FlyingCamera) bool {
		if input.Pressed(MouseButtonRight) {
			fly.Yaw -= float32(input.MouseDeltaX) * fly.Sensitivity
			fly.Pitch -= float32(input.MouseDeltaY) * fly.Sensitivity
			fly.Pitch = mgl32.Clamp(fly.Pitch, -89, 89)
		}

		next := transform.WithRotation(fly.rotation())

		var move mgl32.Vec3
		if input.Pressed(KeyW) {
			move = move.Add(next.Forward())
		}
		if input.Pressed(KeyS) {
			move = move.Sub(next.Forward())
		}
		if input.Pressed(KeyD) {
			move = move.Add(next.Right())
		}
		if input.Pressed(KeyA) {
			move = move.Sub(next.Right())
		}
		if input.Pressed(KeySpace) {
			move = move.Add(WorldUp)
		}
		if input.Pressed(KeyControl) {
			move = move.Sub(WorldUp)
		}
		if dt > 0 && move.Len() > 0 {
			next.Translation = next.Translation.Add(move.Normalize().Mul(fly.Speed * dt))
		}

		// Leave idle cameras unmarked.
		if next != *transform {
			if err := SetComponent(cmd.app.ecs, entityId, next); err != nil {
				cmd.Logger().Warnf("flying camera: %v", err)
			}
		}
		return true
	})
}
