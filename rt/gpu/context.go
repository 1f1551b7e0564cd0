package gpu

import (
	"fmt"

	"github.com/gekko3d/wgpustein/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
)

type Options struct {
	// Backends restricts the instance; zero lets wgpu pick its primary backends.
	Backends                wgpu.InstanceBackend
	InitialInstanceCapacity int
	ShaderSource            string
	ClearColor              wgpu.Color
	PresentMode             wgpu.PresentMode
}

func DefaultOptions() Options {
	return Options{
		InitialInstanceCapacity: core.DefaultInstanceCapacity,
		ClearColor:              wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		PresentMode:             wgpu.PresentModeFifo,
	}
}

// Context owns the device, the canvas surface and every GPU resource the
// sprite pass needs. It is not safe for use from more than one goroutine.
type Context struct {
	Instance *wgpu.Instance
	Surface  *wgpu.Surface
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Config   *wgpu.SurfaceConfiguration

	Uniforms       *wgpu.Buffer
	UniformsLayout *wgpu.BindGroupLayout
	UniformsGroup  *wgpu.BindGroup

	Instances        *wgpu.Buffer
	instanceCapacity core.InstanceCapacity
	retired          []*wgpu.Buffer

	PipelineLayout *wgpu.PipelineLayout
	Pipeline       *wgpu.RenderPipeline

	clearColor wgpu.Color
}

// NewContext acquires an adapter and device for the given surface and builds
// the sprite pipeline. Adapter and device failures wrap core.ErrGpuUnsupported.
func NewContext(surfaceDesc *wgpu.SurfaceDescriptor, opts Options) (*Context, error) {
	if surfaceDesc == nil {
		return nil, fmt.Errorf("no surface descriptor: %w", core.ErrHostMissing)
	}
	if opts.InitialInstanceCapacity <= 0 {
		opts.InitialInstanceCapacity = core.DefaultInstanceCapacity
	}
	if opts.PresentMode == 0 {
		opts.PresentMode = wgpu.PresentModeFifo
	}

	var instanceDesc *wgpu.InstanceDescriptor
	if opts.Backends != 0 {
		instanceDesc = &wgpu.InstanceDescriptor{Backends: opts.Backends}
	}

	c := &Context{
		Instance:   wgpu.CreateInstance(instanceDesc),
		clearColor: opts.ClearColor,
	}
	c.Surface = c.Instance.CreateSurface(surfaceDesc)
	if c.Surface == nil {
		c.Release()
		return nil, fmt.Errorf("create surface: %w", core.ErrHostMissing)
	}

	adapter, err := c.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: c.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("request adapter: %w: %v", core.ErrGpuUnsupported, err)
	}
	c.Adapter = adapter

	// Default limits, but let the canvas grow as large as the adapter allows.
	supported := adapter.GetLimits()
	limits := wgpu.DefaultLimits()
	limits.MaxTextureDimension1D = supported.Limits.MaxTextureDimension1D
	limits.MaxTextureDimension2D = supported.Limits.MaxTextureDimension2D
	limits.MaxTextureDimension3D = supported.Limits.MaxTextureDimension3D

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: nil,
		RequiredLimits:   &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("request device: %w: %v", core.ErrGpuUnsupported, err)
	}
	c.Device = device
	c.Queue = device.GetQueue()

	caps := c.Surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		c.Release()
		return nil, fmt.Errorf("surface reports no formats: %w", core.ErrGpuUnsupported)
	}
	c.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		PresentMode: opts.PresentMode,
		AlphaMode:   caps.AlphaModes[0],
	}

	if err := c.setupPipelines(opts); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

// ConfigureSurface (re)configures the swapchain. Zero sized requests are
// ignored, a minimized window has nothing to present to.
func (c *Context) ConfigureSurface(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	c.Config.Width = width
	c.Config.Height = height
	c.Surface.Configure(c.Adapter, c.Device, c.Config)
	return nil
}

func (c *Context) Release() {
	c.releaseRetired()
	if c.Pipeline != nil {
		c.Pipeline.Release()
		c.Pipeline = nil
	}
	if c.PipelineLayout != nil {
		c.PipelineLayout.Release()
		c.PipelineLayout = nil
	}
	if c.UniformsGroup != nil {
		c.UniformsGroup.Release()
		c.UniformsGroup = nil
	}
	if c.UniformsLayout != nil {
		c.UniformsLayout.Release()
		c.UniformsLayout = nil
	}
	if c.Uniforms != nil {
		c.Uniforms.Release()
		c.Uniforms = nil
	}
	if c.Instances != nil {
		c.Instances.Release()
		c.Instances = nil
	}
	if c.Queue != nil {
		c.Queue.Release()
		c.Queue = nil
	}
	if c.Device != nil {
		c.Device.Release()
		c.Device = nil
	}
	if c.Adapter != nil {
		c.Adapter.Release()
		c.Adapter = nil
	}
	if c.Surface != nil {
		c.Surface.Release()
		c.Surface = nil
	}
	if c.Instance != nil {
		c.Instance.Release()
		c.Instance = nil
	}
}
