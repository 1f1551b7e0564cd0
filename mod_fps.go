package wgpustein

import (
	"fmt"
	"time"
)

// FpsModule reports frames and fixed ticks per real second in the host title.
type FpsModule struct {
	Host FrameHost
}

type FpsState struct {
	host   FrameHost
	base   string
	accum  time.Duration
	frames int
	ticks  int
}

func (mod FpsModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&FpsState{host: mod.Host, base: mod.Host.Title()})
	app.UseSystem(
		System(fpsFrameSystem).
			InStage(Update),
	).UseSystem(
		System(fpsTickSystem).
			InStage(FixedUpdate),
	)
}

func fpsFrameSystem(state *FpsState, realTime *RealTime) {
	state.frames++
	state.accum += realTime.Delta()
	if state.accum < time.Second {
		return
	}
	state.accum %= time.Second

	state.host.SetTitle(fmt.Sprintf("%s | %d fps %d tps", state.base, state.frames, state.ticks))
	state.frames = 0
	state.ticks = 0
}

func fpsTickSystem(state *FpsState) {
	state.ticks++
}
