package shaders

import (
	_ "embed"
)

// QuadWGSL draws one triangle-strip quad per SpriteInstance. Its vertex
// inputs are the five float32x4 attributes of the instance buffer and its
// only binding is the uniform block at group 0, binding 0.
//
//go:embed quad.wgsl
var QuadWGSL string
