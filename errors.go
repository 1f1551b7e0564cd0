package wgpustein

import (
	"errors"

	"github.com/gekko3d/wgpustein/rt/core"
)

var (
	ErrHostMissing    = core.ErrHostMissing
	ErrGpuUnsupported = core.ErrGpuUnsupported
	ErrSurfaceLost    = core.ErrSurfaceLost
	ErrBufferOverflow = core.ErrBufferOverflow

	ErrEntityNotFound = errors.New("entity not found")
	ErrCardinality    = errors.New("query matched an unexpected number of entities")
)

type fatalError struct {
	err error
}

func (e *fatalError) Error() string { return "fatal: " + e.err.Error() }
func (e *fatalError) Unwrap() error { return e.err }

// Fatal marks err so that the schedule stops the app when a system returns it.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &fatalError{err: err}
}

// IsFatal reports whether err, or anything it wraps, must terminate the app.
// Host and GPU acquisition failures are always fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var fe *fatalError
	if errors.As(err, &fe) {
		return true
	}
	return errors.Is(err, ErrHostMissing) || errors.Is(err, ErrGpuUnsupported)
}
