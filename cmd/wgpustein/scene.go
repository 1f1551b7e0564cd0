package main

import (
	"math"

	"github.com/gekko3d/wgpustein"

	"github.com/go-gl/mathgl/mgl32"
)

// cameraPitch tilts the camera down towards the quads.
var cameraPitch = mgl32.DegToRad(-22.5)

// SceneModule spawns the demo camera and quads. With Fly set the camera is
// steered by keyboard and mouse instead of orbiting.
type SceneModule struct {
	Fly bool
}

func (mod SceneModule) Install(app *wgpustein.App, cmd *wgpustein.Commands) {
	app.UseSystem(
		wgpustein.System(placeQuadsSystem).
			InStage(wgpustein.Startup),
	).UseSystem(
		wgpustein.System(exitOnKeySystem).
			InStage(wgpustein.Update),
	)

	if mod.Fly {
		app.UseSystem(
			wgpustein.System(spawnFlyingCameraSystem).
				InStage(wgpustein.Startup),
		)
		wgpustein.FlyingCameraModule{}.Install(app, cmd)
		return
	}
	app.UseSystem(
		wgpustein.System(spawnCameraSystem).
			InStage(wgpustein.Startup),
	).UseSystem(
		wgpustein.System(orbitSystem).
			InStage(wgpustein.Update),
	)
}

func cameraStart() wgpustein.Transform {
	return wgpustein.Transform{
		Translation: mgl32.Vec3{0, -1.5, 1.5},
		Rotation:    mgl32.QuatRotate(cameraPitch, wgpustein.WorldRight),
	}
}

func spawnCameraSystem(cmd *wgpustein.Commands) {
	cmd.AddEntity(wgpustein.Camera{}, cameraStart())
}

func spawnFlyingCameraSystem(cmd *wgpustein.Commands) {
	start := cameraStart()
	cmd.AddEntity(wgpustein.Camera{}, start, wgpustein.NewFlyingCamera(start))
}

type quadPlacement struct {
	x, y    float32
	forward mgl32.Vec3
}

// A quad is front-facing to a camera looking along its forward. From the
// start camera every quad shows its front except the one at (1, 1), which
// faces up and away and is culled.
var quadPlacements = []quadPlacement{
	{-0.75, 0, wgpustein.WorldRight.Mul(-1)},
	{0.75, 0, wgpustein.WorldRight},
	{-1, 1, wgpustein.WorldUp.Mul(-1)},
	{1, 1, wgpustein.WorldUp},
	{-1, 2, wgpustein.WorldForward},
	{1, 2, wgpustein.WorldForward},
	{-1, 3, wgpustein.WorldForward},
	{1, 3, wgpustein.WorldForward},
	{-1, 4, wgpustein.WorldForward},
	{1, 4, wgpustein.WorldForward},
}

func placeQuadsSystem(cmd *wgpustein.Commands) {
	for _, p := range quadPlacements {
		cmd.AddEntity(
			wgpustein.NewSprite(wgpustein.SpriteFixed),
			wgpustein.TransformFromTranslation(mgl32.Vec3{p.x, p.y, 0.5}).LookingAlong(p.forward),
		)
	}
}

// orbitYaw swings between +45 and -45 degrees with a four second period.
func orbitYaw(elapsedSecs float32) float32 {
	return float32(math.Cos(float64(elapsedSecs)*math.Pi/2)) * 45
}

func orbitRotation(elapsedSecs float32) mgl32.Quat {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(orbitYaw(elapsedSecs)), wgpustein.WorldUp)
	return yaw.Mul(mgl32.QuatRotate(cameraPitch, wgpustein.WorldRight))
}

func orbitSystem(cmd *wgpustein.Commands, virtual *wgpustein.VirtualTime) {
	rotation := orbitRotation(virtual.ElapsedSecs())
	wgpustein.MakeQuery1[wgpustein.Transform](cmd).
		WithTypes(wgpustein.Camera{}).
		Map(func(entityId wgpustein.EntityId, transform *wgpustein.Transform) bool {
			transform.Rotation = rotation
			return false
		})
}

func exitOnKeySystem(cmd *wgpustein.Commands, input *wgpustein.Input) {
	if input.JustPressed(wgpustein.KeyEscape) || input.JustPressed(wgpustein.KeyPause) {
		cmd.Logger().Infof("requesting app exit")
		cmd.Exit(wgpustein.ExitSuccess)
	}
}
