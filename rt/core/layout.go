package core

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniform buffer layout shared with quad.wgsl.
const (
	UniformProjectionOffset = 0
	UniformViewOffset       = 64
	UniformTimeOffset       = 128
	UniformsSize            = 144
)

const (
	SpriteInstanceSize = 80
	// Number of float32x4 vertex attributes a SpriteInstance is split into.
	SpriteInstanceAttributes = 5
)

// SpriteInstance is the per-instance record consumed by the vertex stage.
type SpriteInstance struct {
	Model     mgl32.Mat4
	Size      mgl32.Vec2
	Billboard uint32
	Texture   uint32 // reserved
}

// AppendBytes appends the 80 byte GPU representation of s to dst.
func (s *SpriteInstance) AppendBytes(dst []byte) []byte {
	for _, f := range s.Model {
		dst = binary.NativeEndian.AppendUint32(dst, math.Float32bits(f))
	}
	dst = binary.NativeEndian.AppendUint32(dst, math.Float32bits(s.Size[0]))
	dst = binary.NativeEndian.AppendUint32(dst, math.Float32bits(s.Size[1]))
	dst = binary.NativeEndian.AppendUint32(dst, s.Billboard)
	dst = binary.NativeEndian.AppendUint32(dst, s.Texture)
	return dst
}

// UnpackSpriteInstance reads back a record written by AppendBytes.
func UnpackSpriteInstance(b []byte) (SpriteInstance, bool) {
	var s SpriteInstance
	if len(b) < SpriteInstanceSize {
		return s, false
	}
	for i := range s.Model {
		s.Model[i] = math.Float32frombits(binary.NativeEndian.Uint32(b[i*4:]))
	}
	s.Size[0] = math.Float32frombits(binary.NativeEndian.Uint32(b[64:]))
	s.Size[1] = math.Float32frombits(binary.NativeEndian.Uint32(b[68:]))
	s.Billboard = binary.NativeEndian.Uint32(b[72:])
	s.Texture = binary.NativeEndian.Uint32(b[76:])
	return s, true
}

// PackSpriteInstances serializes instances into buf, reusing its storage.
func PackSpriteInstances(buf []byte, instances []SpriteInstance) []byte {
	buf = buf[:0]
	for i := range instances {
		buf = instances[i].AppendBytes(buf)
	}
	return buf
}

// MatrixBytes returns the column-major native-endian bytes of m.
func MatrixBytes(m mgl32.Mat4) []byte {
	b := make([]byte, 0, 64)
	for _, f := range m {
		b = binary.NativeEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

func Float32Bytes(f float32) []byte {
	return binary.NativeEndian.AppendUint32(nil, math.Float32bits(f))
}

// MatrixFromBytes is the inverse of MatrixBytes.
func MatrixFromBytes(b []byte) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range m {
		m[i] = math.Float32frombits(binary.NativeEndian.Uint32(b[i*4:]))
	}
	return m
}
