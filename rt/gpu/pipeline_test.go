package gpu

import (
	"testing"

	"github.com/gekko3d/wgpustein/rt/core"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpriteVertexLayout(t *testing.T) {
	layout := SpriteVertexLayout()

	assert.Equal(t, uint64(80), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layout.StepMode)
	require.Len(t, layout.Attributes, 5)

	for i, attr := range layout.Attributes {
		assert.Equal(t, uint32(i), attr.ShaderLocation)
		assert.Equal(t, uint64(i*16), attr.Offset)
		assert.Equal(t, wgpu.VertexFormatFloat32x4, attr.Format)
	}

	last := layout.Attributes[len(layout.Attributes)-1]
	assert.Equal(t, uint64(core.SpriteInstanceSize), last.Offset+16)
}

func TestSpritePrimitiveState(t *testing.T) {
	state := spritePrimitiveState()
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, state.Topology)
	assert.Equal(t, wgpu.CullModeBack, state.CullMode)
	assert.Equal(t, wgpu.FrontFaceCCW, state.FrontFace)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 64, opts.InitialInstanceCapacity)
	assert.Equal(t, wgpu.Color{R: 0, G: 0, B: 0, A: 1}, opts.ClearColor)
}

func TestNewContext_NoSurface(t *testing.T) {
	_, err := NewContext(nil, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrHostMissing)
}
