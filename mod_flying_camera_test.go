package wgpustein

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlyingCamera_KeepsHeading(t *testing.T) {
	start := Transform{Rotation: mgl32.QuatRotate(mgl32.DegToRad(-22.5), WorldRight)}
	fly := NewFlyingCamera(start)

	assert.InDelta(t, 0, fly.Yaw, 1e-3)
	assert.InDelta(t, -22.5, fly.Pitch, 1e-3)
	assertVec3Near(t, start.Forward(), start.WithRotation(fly.rotation()).Forward())

	turned := DefaultTransform().LookingAlong(mgl32.Vec3{-1, 1, 0})
	assert.InDelta(t, 45, NewFlyingCamera(turned).Yaw, 1e-3)
}

func TestFlyingCamera_MovesAndTurns(t *testing.T) {
	pending := &PendingInputs{}
	app := newTestApp(NewNopLogger(), InputModule{Pending: pending}, FlyingCameraModule{})
	id := app.Ecs().Spawn(DefaultTransform(), NewFlyingCamera(DefaultTransform()))

	app.Update(tickAt(0))
	pending.Push(KeyboardInput{Key: KeyW, State: Pressed})
	app.Update(tickAt(100 * time.Millisecond))

	transform, ok := GetComponent[Transform](app.Ecs(), id)
	require.True(t, ok)
	assertVec3Near(t, mgl32.Vec3{0, 0.2, 0}, transform.Translation)

	pending.Push(KeyboardInput{Key: KeyW, State: Released})
	pending.Push(MouseButtonInput{Button: MouseButtonRight, State: Pressed})
	pending.Push(MouseMotion{DeltaX: 10, DeltaY: -20})
	app.Update(tickAt(200 * time.Millisecond))

	fly, _ := GetComponent[FlyingCamera](app.Ecs(), id)
	assert.InDelta(t, -1, fly.Yaw, 1e-5)
	assert.InDelta(t, 2, fly.Pitch, 1e-5)
	transform, _ = GetComponent[Transform](app.Ecs(), id)
	assertVec3Near(t, mgl32.Vec3{0, 0.2, 0}, transform.Translation)
	assert.Equal(t, fly.rotation(), transform.Rotation)
}

func TestFlyingCamera_IdleLeavesTransformUnchanged(t *testing.T) {
	app := newTestApp(NewNopLogger(), InputModule{}, FlyingCameraModule{})
	app.Ecs().Spawn(DefaultTransform(), NewFlyingCamera(DefaultTransform()))
	app.Update(tickAt(0))

	var cursor ChangeCursor
	MakeQuery1[Transform](app.Commands()).Changed(&cursor).MapRead(func(EntityId, *Transform) bool { return true })

	app.Update(tickAt(16 * time.Millisecond))
	app.Update(tickAt(32 * time.Millisecond))
	assert.Zero(t, MakeQuery1[Transform](app.Commands()).Changed(&cursor).Count())
}
