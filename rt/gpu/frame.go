package gpu

import (
	"fmt"

	"github.com/gekko3d/wgpustein/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
)

// WriteUniforms writes data into the uniform block at offset.
func (c *Context) WriteUniforms(offset uint64, data []byte) error {
	if offset+uint64(len(data)) > core.UniformsSize {
		return fmt.Errorf("uniforms [%d, %d): %w", offset, offset+uint64(len(data)), core.ErrBufferOverflow)
	}
	return c.Queue.WriteBuffer(c.Uniforms, offset, data)
}

// UploadInstances writes count packed SpriteInstance records, growing the
// instance buffer first when it is too small. The replaced buffer stays
// alive until the end of the next DrawFrame.
func (c *Context) UploadInstances(data []byte, count int) error {
	if len(data) != count*core.SpriteInstanceSize {
		return fmt.Errorf("%d bytes for %d instances: %w", len(data), count, core.ErrBufferOverflow)
	}
	_, err := c.instanceCapacity.Grow(count, func(size uint64) error {
		buf, err := c.createInstanceBuffer(size)
		if err != nil {
			return err
		}
		c.retired = append(c.retired, c.Instances)
		c.Instances = buf
		return nil
	})
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return c.Queue.WriteBuffer(c.Instances, 0, data)
}

func (c *Context) InstanceCapacity() int {
	return c.instanceCapacity.Records
}

// DrawFrame records and submits the sprite pass: clear to the configured
// color, then draw instanceCount four-vertex strips. A pass is submitted
// even when there is nothing to draw so the canvas still clears.
func (c *Context) DrawFrame(instanceCount uint32) error {
	defer c.releaseRetired()

	texture, err := c.Surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrSurfaceLost, err)
	}
	defer texture.Release()

	view, err := texture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create view: %w: %v", core.ErrSurfaceLost, err)
	}
	defer view.Release()

	encoder, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: c.clearColor,
		}},
	})
	pass.SetPipeline(c.Pipeline)
	pass.SetVertexBuffer(0, c.Instances, 0, wgpu.WholeSize)
	pass.SetBindGroup(0, c.UniformsGroup, nil)
	pass.Draw(4, instanceCount, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmd.Release()

	c.Queue.Submit(cmd)
	c.Surface.Present()
	return nil
}

func (c *Context) releaseRetired() {
	for _, buf := range c.retired {
		buf.Release()
	}
	c.retired = c.retired[:0]
}
