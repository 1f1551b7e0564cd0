package wgpustein

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFpsModule_ReportsOncePerSecond(t *testing.T) {
	host := &manualHost{title: "wgpustein"}
	app := newTestApp(NewNopLogger(), FpsModule{Host: host})

	for i := 0; i < 10; i++ {
		app.Update(tickAt(time.Duration(i) * 100 * time.Millisecond))
	}
	assert.Empty(t, host.titles)

	app.Update(tickAt(time.Second))
	// 11 frames, three fixed ticks per 100ms frame.
	assert.Equal(t, []string{"wgpustein | 11 fps 30 tps"}, host.titles)

	app.Update(tickAt(time.Second + 100*time.Millisecond))
	assert.Len(t, host.titles, 1)
}
