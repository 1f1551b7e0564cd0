package wgpustein

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatal(t *testing.T) {
	assert.Nil(t, Fatal(nil))
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(ErrSurfaceLost))

	err := Fatal(ErrSurfaceLost)
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, ErrSurfaceLost)
	assert.True(t, IsFatal(fmt.Errorf("frame: %w", err)))
}

func TestIsFatal_AcquisitionErrors(t *testing.T) {
	assert.True(t, IsFatal(fmt.Errorf("glfw: %w", ErrHostMissing)))
	assert.True(t, IsFatal(fmt.Errorf("adapter: %w", ErrGpuUnsupported)))
	assert.False(t, IsFatal(errors.New("other")))
}
