package gpu

import (
	"fmt"

	"github.com/gekko3d/wgpustein/rt/core"
	"github.com/gekko3d/wgpustein/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
)

// SpriteVertexLayout describes the instance buffer: one SpriteInstance per
// instance step, split into five float32x4 attributes at locations 0-4.
func SpriteVertexLayout() wgpu.VertexBufferLayout {
	attributes := make([]wgpu.VertexAttribute, core.SpriteInstanceAttributes)
	for i := range attributes {
		attributes[i] = wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x4,
			Offset:         uint64(i * 16),
			ShaderLocation: uint32(i),
		}
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: core.SpriteInstanceSize,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes:  attributes,
	}
}

func spritePrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  wgpu.PrimitiveTopologyTriangleStrip,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeBack,
	}
}

func (c *Context) setupPipelines(opts Options) error {
	var err error

	c.Uniforms, err = c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "uniforms",
		Size:  core.UniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}

	c.UniformsLayout, err = c.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "uniforms layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: core.UniformsSize,
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("create uniforms layout: %w", err)
	}

	c.UniformsGroup, err = c.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "uniforms group",
		Layout: c.UniformsLayout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  c.Uniforms,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return fmt.Errorf("create uniforms group: %w", err)
	}

	c.instanceCapacity = core.InstanceCapacity{Records: opts.InitialInstanceCapacity}
	c.Instances, err = c.createInstanceBuffer(c.instanceCapacity.Bytes())
	if err != nil {
		return err
	}

	source := opts.ShaderSource
	if source == "" {
		source = shaders.QuadWGSL
	}
	shader, err := c.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "quad shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	defer shader.Release()

	c.PipelineLayout, err = c.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "quad render layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{c.UniformsLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	c.Pipeline, err = c.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "quad render pipeline",
		Layout: c.PipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{SpriteVertexLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    c.Config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive:    spritePrimitiveState(),
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	return nil
}

func (c *Context) createInstanceBuffer(size uint64) (*wgpu.Buffer, error) {
	buf, err := c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "instances",
		Size:  size,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create instance buffer (%d bytes): %w", size, err)
	}
	return buf, nil
}
