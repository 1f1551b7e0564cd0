package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type ProjectionConfig struct {
	FovDegrees float32
	Near       float32
	Far        float32
}

func DefaultProjectionConfig() ProjectionConfig {
	return ProjectionConfig{
		FovDegrees: 120,
		Near:       0.01,
		Far:        1000.0,
	}
}

// PerspectiveRH builds a right-handed perspective matrix mapping depth to
// [0, 1]. mgl32.Perspective targets the OpenGL [-1, 1] range and can't be
// used for WebGPU clip space.
func PerspectiveRH(fovY, aspect, near, far float32) mgl32.Mat4 {
	h := float32(1.0 / math.Tan(float64(fovY)*0.5))
	w := h / aspect
	r := far / (near - far)
	return mgl32.Mat4{
		w, 0, 0, 0,
		0, h, 0, 0,
		0, 0, r, -1,
		0, 0, r * near, 0,
	}
}

// ProjectionForSize divides the configured FOV by the aspect ratio so the
// vertical field of view stays stable as windows get wider.
func ProjectionForSize(width, height uint32, cfg ProjectionConfig) mgl32.Mat4 {
	if height == 0 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	if aspect == 0 {
		aspect = 1
	}
	fov := mgl32.DegToRad(cfg.FovDegrees) / aspect
	return PerspectiveRH(fov, aspect, cfg.Near, cfg.Far)
}
