package wgpustein

import (
	"errors"

	"github.com/gekko3d/wgpustein/rt/core"
	"github.com/gekko3d/wgpustein/rt/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera marks the entity whose Transform supplies the view matrix.
type Camera struct{}

type SpriteMode uint32

const (
	// SpriteBillboard quads turn to face the camera every frame.
	SpriteBillboard SpriteMode = iota
	// SpriteFixed quads keep their Transform's orientation.
	SpriteFixed
)

type Sprite struct {
	Size mgl32.Vec2
	Mode SpriteMode
	// Texture is reserved and always uploaded as given.
	Texture uint32
}

func NewSprite(mode SpriteMode) Sprite {
	return Sprite{Size: mgl32.Vec2{1, 1}, Mode: mode}
}

func (s Sprite) instance(t *Transform) core.SpriteInstance {
	var billboard uint32
	if s.Mode == SpriteBillboard {
		billboard = 1
	}
	return core.SpriteInstance{
		Model:     t.AsModelMatrix(),
		Size:      s.Size,
		Billboard: billboard,
		Texture:   s.Texture,
	}
}

// RenderBackend is the GPU side of the sprite pass. gpu.Context is the real
// implementation.
type RenderBackend interface {
	ConfigureSurface(width, height uint32) error
	WriteUniforms(offset uint64, data []byte) error
	UploadInstances(data []byte, count int) error
	InstanceCapacity() int
	DrawFrame(instanceCount uint32) error
}

var _ RenderBackend = (*gpu.Context)(nil)

type SpriteRendererConfig struct {
	Projection core.ProjectionConfig
	// MaxSurfaceFailures consecutive lost surfaces stop the app.
	MaxSurfaceFailures int
}

func DefaultSpriteRendererConfig() SpriteRendererConfig {
	return SpriteRendererConfig{
		Projection:         core.DefaultProjectionConfig(),
		MaxSurfaceFailures: 3,
	}
}

// SpriteRenderer holds the per-session render state: the backend plus the
// cursors and scratch buffers frame_start reuses every frame.
type SpriteRenderer struct {
	Backend RenderBackend
	Config  SpriteRendererConfig

	resizeReader  EventReader[WindowResized]
	cameraCursor  ChangeCursor
	warnedCameras bool

	size      WindowSize
	instances []core.SpriteInstance
	packed    []byte
}

// SurfaceSize is the size the surface was last configured to.
func (r *SpriteRenderer) SurfaceSize() WindowSize {
	return r.size
}

// SpriteInstanceCount is the number of instances frame_start uploaded.
type SpriteInstanceCount struct {
	Count int
}

type RenderStats struct {
	FramesRendered             uint64
	FramesSkipped              uint64
	ConsecutiveSurfaceFailures int
}

type SpriteRenderModule struct {
	Backend RenderBackend
	Config  SpriteRendererConfig
}

func NewSpriteRenderModule(backend RenderBackend) SpriteRenderModule {
	return SpriteRenderModule{
		Backend: backend,
		Config:  DefaultSpriteRendererConfig(),
	}
}

func (mod SpriteRenderModule) Install(app *App, cmd *Commands) {
	if mod.Backend == nil {
		panic("SpriteRenderModule needs a RenderBackend")
	}
	ensureSingleRenderer(app, "sprite")
	if mod.Config.MaxSurfaceFailures <= 0 {
		mod.Config.MaxSurfaceFailures = DefaultSpriteRendererConfig().MaxSurfaceFailures
	}
	AddEvent[WindowResized](app)
	cmd.AddResources(
		&SpriteRenderer{Backend: mod.Backend, Config: mod.Config},
		&SpriteInstanceCount{},
		&RenderStats{},
	)
	app.UseSystem(
		System(frameStartSystem).
			InStage(RenderPre),
	).UseSystem(
		System(frameSystem).
			InStage(Render),
	)
}

// frameStartSystem writes the uniforms that changed and rebuilds the
// instance buffer from every Transform+Sprite entity.
func frameStartSystem(
	cmd *Commands,
	renderer *SpriteRenderer,
	virtual *VirtualTime,
	resized *Events[WindowResized],
	count *SpriteInstanceCount,
) error {
	if err := renderer.writeUniforms(cmd, core.UniformTimeOffset, core.Float32Bytes(virtual.ElapsedSecs())); err != nil {
		return err
	}

	// Only the latest size matters when several resizes queued up.
	if events := renderer.resizeReader.Read(resized); len(events) > 0 {
		size := events[len(events)-1].Size
		if size.Width > 0 && size.Height > 0 {
			if err := renderer.Backend.ConfigureSurface(size.Width, size.Height); err != nil {
				return err
			}
			renderer.size = size
			projection := core.ProjectionForSize(size.Width, size.Height, renderer.Config.Projection)
			if err := renderer.writeUniforms(cmd, core.UniformProjectionOffset, core.MatrixBytes(projection)); err != nil {
				return err
			}
		}
	}

	if view, ok := renderer.changedView(cmd); ok {
		if err := renderer.writeUniforms(cmd, core.UniformViewOffset, core.MatrixBytes(view)); err != nil {
			return err
		}
	}

	renderer.instances = renderer.instances[:0]
	MakeQuery2[Transform, Sprite](cmd).MapRead(func(entityId EntityId, transform *Transform, sprite *Sprite) bool {
		renderer.instances = append(renderer.instances, sprite.instance(transform))
		return true
	})

	renderer.packed = core.PackSpriteInstances(renderer.packed[:0], renderer.instances)
	if err := renderer.Backend.UploadInstances(renderer.packed, len(renderer.instances)); err != nil {
		return err
	}
	count.Count = len(renderer.instances)
	return nil
}

// changedView returns the camera's view matrix when its Transform changed
// since the previous frame. With several cameras the first one in query
// order wins.
func (r *SpriteRenderer) changedView(cmd *Commands) (mgl32.Mat4, bool) {
	cameras := MakeQuery2[Transform, Camera](cmd)
	cameraId, transform, _, err := cameras.Single()
	if transform == nil {
		return mgl32.Mat4{}, false
	}
	if err != nil && !r.warnedCameras {
		r.warnedCameras = true
		cmd.Logger().Warnf("several Camera entities, rendering from %d: %v", cameraId, err)
	}

	changed := false
	cameras.Changed(&r.cameraCursor).MapRead(func(entityId EntityId, _ *Transform, _ *Camera) bool {
		if entityId == cameraId {
			changed = true
			return false
		}
		return true
	})
	if !changed {
		return mgl32.Mat4{}, false
	}
	return transform.AsViewMatrix(), true
}

// writeUniforms treats an overflow as a programming error: fatal in debug
// builds of the logger, logged and skipped otherwise.
func (r *SpriteRenderer) writeUniforms(cmd *Commands, offset uint64, data []byte) error {
	err := r.Backend.WriteUniforms(offset, data)
	if err == nil || !errors.Is(err, ErrBufferOverflow) {
		return err
	}
	if cmd.Logger().DebugEnabled() {
		panic(err)
	}
	cmd.Logger().Errorf("skipping uniform write: %v", err)
	return nil
}

// frameSystem clears the surface and draws every uploaded instance. A lost
// surface skips the frame; too many in a row become fatal.
func frameSystem(renderer *SpriteRenderer, count *SpriteInstanceCount, stats *RenderStats) error {
	err := renderer.Backend.DrawFrame(uint32(count.Count))
	if err == nil {
		stats.ConsecutiveSurfaceFailures = 0
		stats.FramesRendered++
		return nil
	}
	if !errors.Is(err, ErrSurfaceLost) {
		return err
	}

	stats.FramesSkipped++
	stats.ConsecutiveSurfaceFailures++
	if stats.ConsecutiveSurfaceFailures >= renderer.Config.MaxSurfaceFailures {
		return Fatal(err)
	}
	return err
}
