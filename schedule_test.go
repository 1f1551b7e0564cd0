package wgpustein

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordStages(app *App, trace *[]string) {
	for _, stage := range app.stages {
		name := stage.Name
		app.UseSystem(System(func() { *trace = append(*trace, name) }).InStage(stage))
	}
}

func TestSchedule_PhaseOrder(t *testing.T) {
	var trace []string
	app := newTestApp(NewNopLogger())
	recordStages(app, &trace)

	app.Update(tickAt(0))
	// First tick: zero real delta, so no fixed tick yet.
	assert.Equal(t, []string{"Startup", "First", "PreUpdate", "Update", "RenderPre", "Render", "RenderPost", "Last"}, trace)

	trace = nil
	app.Update(tickAt(DefaultFixedPeriod))
	assert.Equal(t, []string{"First", "PreUpdate", "FixedUpdate", "Update", "RenderPre", "Render", "RenderPost", "Last"}, trace)
}

func TestSchedule_RegistrationOrderWithinStage(t *testing.T) {
	var trace []int
	app := newTestApp(NewNopLogger())
	for i := 0; i < 5; i++ {
		app.UseSystem(System(func() { trace = append(trace, i) }))
	}

	app.Update(tickAt(0))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, trace)
}

func TestSchedule_UseStage(t *testing.T) {
	var trace []string
	app := newTestApp(NewNopLogger())

	custom := Stage{Name: "Physics", UpdateType: DynamicRate}
	app.UseStage(custom, AfterStage(Update))
	app.UseStage(Stage{Name: "Input", UpdateType: DynamicRate}, BeforeStage(PreUpdate))
	recordStages(app, &trace)

	app.Update(tickAt(0))
	assert.Equal(t, []string{"Startup", "First", "Input", "PreUpdate", "Update", "Physics", "RenderPre", "Render", "RenderPost", "Last"}, trace)

	assert.Panics(t, func() { app.UseStage(custom, AfterStage(Update)) }, "duplicate stage")
	assert.Panics(t, func() { app.UseStage(Stage{Name: "X"}, AfterStage(Stage{Name: "Missing"})) })
}

func TestSchedule_StartupRunsOnce(t *testing.T) {
	runs := 0
	app := newTestApp(NewNopLogger())
	app.UseSystem(System(func() { runs++ }).InStage(Startup))

	for i := 0; i < 4; i++ {
		app.Update(tickAt(time.Duration(i) * time.Millisecond))
	}
	assert.Equal(t, 1, runs)
}

func TestSchedule_FixedTicksCatchUp(t *testing.T) {
	ticks := 0
	app := newTestApp(NewNopLogger())
	app.UseSystem(System(func() { ticks++ }).InStage(FixedUpdate))

	period := DefaultFixedPeriod
	app.Update(tickAt(0))
	assert.Equal(t, 0, ticks)

	app.Update(tickAt(3*period + period/2))
	assert.Equal(t, 3, ticks, "the half period carries over")

	app.Update(tickAt(4 * period))
	assert.Equal(t, 4, ticks)
}

func TestSchedule_FixedClockAdvancesByPeriod(t *testing.T) {
	var elapsed []time.Duration
	app := newTestApp(NewNopLogger())
	app.UseSystem(System(func(fixed *FixedTime) {
		elapsed = append(elapsed, fixed.Elapsed())
		assert.Equal(t, fixed.Period, fixed.Delta())
	}).InStage(FixedUpdate))

	period := DefaultFixedPeriod
	app.Update(tickAt(0))
	app.Update(tickAt(2 * period))

	assert.Equal(t, []time.Duration{period, 2 * period}, elapsed)
}

// Over any run of frames shorter than the virtual clamp, the number of fixed
// ticks is floor(total / period).
func TestSchedule_FixedTickCountProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		ticks := 0
		app := newTestApp(NewNopLogger())
		app.UseSystem(System(func() { ticks++ }).InStage(FixedUpdate))

		now := time.Duration(0)
		app.Update(tickAt(now))
		for frame := 0; frame < 40; frame++ {
			now += time.Duration(rng.Int63n(int64(100 * time.Millisecond)))
			app.Update(tickAt(now))
		}

		require.Equal(t, int(now/DefaultFixedPeriod), ticks, "trial %d", trial)
	}
}

func TestSchedule_LongFramesAreClamped(t *testing.T) {
	ticks := 0
	app := newTestApp(NewNopLogger())
	app.UseSystem(System(func() { ticks++ }).InStage(FixedUpdate))

	app.Update(tickAt(0))
	app.Update(tickAt(10 * time.Second))

	assert.Equal(t, int(DefaultMaxVirtualDelta/DefaultFixedPeriod), ticks)
}

func TestSchedule_ExitStopsAfterCurrentTick(t *testing.T) {
	var trace []string
	app := newTestApp(NewNopLogger())
	app.UseSystem(System(func(cmd *Commands) {
		trace = append(trace, "exit")
		cmd.Exit(ExitSuccess)
	}))
	app.UseSystem(System(func() { trace = append(trace, "render") }).InStage(Render))

	app.Update(tickAt(0))
	app.Update(tickAt(time.Second))

	assert.Equal(t, []string{"exit", "render"}, trace)
	code, ok := app.ExitStatus()
	require.True(t, ok)
	assert.Equal(t, ExitSuccess, code)
}

func TestSchedule_FailureWinsOverSuccess(t *testing.T) {
	app := newTestApp(NewNopLogger())
	app.UseSystem(System(func(cmd *Commands) {
		cmd.Exit(ExitSuccess)
		cmd.Exit(ExitFailure)
		cmd.Exit(ExitSuccess)
	}))

	app.Update(tickAt(0))
	code, _ := app.ExitStatus()
	assert.Equal(t, ExitFailure, code)
}
