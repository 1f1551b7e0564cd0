package core

import "errors"

var (
	ErrHostMissing    = errors.New("host object missing")
	ErrGpuUnsupported = errors.New("gpu adapter or device unavailable")
	ErrSurfaceLost    = errors.New("surface texture unavailable")
	ErrBufferOverflow = errors.New("write exceeds buffer size")
)
