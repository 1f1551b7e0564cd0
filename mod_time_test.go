package wgpustein

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealTime_FirstTickHasZeroDelta(t *testing.T) {
	rt := NewRealTime()
	rt.tick(tickAt(5 * time.Second))
	assert.Equal(t, time.Duration(0), rt.Delta())
	assert.Equal(t, tickAt(5*time.Second), rt.Now())

	rt.tick(tickAt(5*time.Second + 16*time.Millisecond))
	assert.Equal(t, 16*time.Millisecond, rt.Delta())
	assert.Equal(t, 16*time.Millisecond, rt.Elapsed())

	rt.tick(tickAt(time.Second))
	assert.Equal(t, time.Duration(0), rt.Delta(), "time never runs backwards")
}

func TestVirtualTime_ClampPauseSpeed(t *testing.T) {
	vt := NewVirtualTime()

	vt.advance(time.Second)
	assert.Equal(t, DefaultMaxVirtualDelta, vt.Delta())

	vt.Pause()
	assert.True(t, vt.IsPaused())
	vt.advance(10 * time.Millisecond)
	assert.Equal(t, time.Duration(0), vt.Delta())
	assert.Equal(t, DefaultMaxVirtualDelta, vt.Elapsed())

	vt.Unpause()
	vt.RelativeSpeed = 2
	vt.advance(10 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, vt.Delta())
	assert.InDelta(t, 0.27, vt.ElapsedSecs(), 1e-6)
}

func TestFixedTime_Expend(t *testing.T) {
	ft := &FixedTime{Period: 10 * time.Millisecond}
	ft.accumulate(25 * time.Millisecond)

	assert.True(t, ft.expend())
	assert.True(t, ft.expend())
	assert.False(t, ft.expend())
	assert.Equal(t, 5*time.Millisecond, ft.Overstep())
	assert.Equal(t, 20*time.Millisecond, ft.Elapsed())

	zero := &FixedTime{}
	zero.accumulate(time.Second)
	assert.False(t, zero.expend(), "a zero period never ticks")
}

func TestTimeModule_Configures(t *testing.T) {
	app := newTestApp(NewNopLogger(), TimeModule{FixedPeriod: 10 * time.Millisecond, MaxDelta: time.Second})

	fixed, ok := Resource[FixedTime](app)
	require.True(t, ok)
	assert.Equal(t, 10*time.Millisecond, fixed.Period)

	virtual, ok := Resource[VirtualTime](app)
	require.True(t, ok)
	assert.Equal(t, time.Second, virtual.MaxDelta)

	defaults := NewTimeModule()
	assert.Equal(t, time.Second/30, defaults.FixedPeriod)
	assert.Equal(t, 250*time.Millisecond, defaults.MaxDelta)
}

func TestTime_PausingVirtualStopsFixedTicks(t *testing.T) {
	ticks := 0
	app := newTestApp(NewNopLogger())
	app.UseSystem(System(func() { ticks++ }).InStage(FixedUpdate))

	virtual, _ := Resource[VirtualTime](app)
	app.Update(tickAt(0))
	virtual.Pause()
	app.Update(tickAt(200 * time.Millisecond))
	assert.Equal(t, 0, ticks)

	virtual.Unpause()
	app.Update(tickAt(200*time.Millisecond + DefaultFixedPeriod))
	assert.Equal(t, 1, ticks)
}
