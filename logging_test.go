package wgpustein

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger_Levels(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewDefaultLoggerTo("render", false, &out, &errOut)

	logger.Debugf("hidden %d", 1)
	logger.Infof("frame %d", 2)
	logger.Warnf("surface lost")
	logger.Errorf("device gone")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[render] INFO: frame 2")
	assert.Contains(t, errOut.String(), "[render] WARN: surface lost")
	assert.Contains(t, errOut.String(), "[render] ERROR: device gone")

	logger.SetDebug(true)
	assert.True(t, logger.DebugEnabled())
	logger.Debugf("shown")
	assert.Contains(t, out.String(), "DEBUG: shown")
}

func TestLoggingModule(t *testing.T) {
	app := NewAppBuilder().UseModule(LoggingModule{Prefix: "test"}).Build()
	logger, ok := Resource[DefaultLogger](app)
	require.True(t, ok)
	assert.Same(t, logger, app.Logger())

	custom := &recordingLogger{}
	app = newTestApp(custom)
	assert.Same(t, custom, app.Logger())
	_, ok = Resource[DefaultLogger](app)
	assert.False(t, ok)
}

func TestLoggingModule_LoggerNeverNil(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())
	assert.NotNil(t, NewAppBuilder().Build().Logger())
}
