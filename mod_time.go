package wgpustein

import (
	"time"
)

const (
	DefaultFixedPeriod     = time.Second / 30
	DefaultMaxVirtualDelta = 250 * time.Millisecond
)

// Clock is the part every clock shares: the last step and the total.
type Clock struct {
	delta   time.Duration
	elapsed time.Duration
}

func (c *Clock) Delta() time.Duration   { return c.delta }
func (c *Clock) Elapsed() time.Duration { return c.elapsed }
func (c *Clock) DeltaSecs() float32     { return float32(c.delta.Seconds()) }
func (c *Clock) ElapsedSecs() float32   { return float32(c.elapsed.Seconds()) }

func (c *Clock) step(d time.Duration) {
	c.delta = d
	c.elapsed += d
}

// RealTime follows the host's frame timestamps. The first tick has a zero delta.
type RealTime struct {
	Clock
	last    time.Time
	started bool
}

func NewRealTime() *RealTime { return &RealTime{} }

// Now is the timestamp of the current driver tick.
func (t *RealTime) Now() time.Time { return t.last }

func (t *RealTime) tick(now time.Time) {
	if !t.started {
		t.started = true
		t.last = now
		t.step(0)
		return
	}
	d := now.Sub(t.last)
	if d < 0 {
		d = 0
	}
	t.last = now
	t.step(d)
}

// VirtualTime advances by the real delta clamped to MaxDelta and scaled by
// RelativeSpeed. While paused it does not advance at all.
type VirtualTime struct {
	Clock
	MaxDelta      time.Duration
	RelativeSpeed float64
	paused        bool
}

func NewVirtualTime() *VirtualTime {
	return &VirtualTime{MaxDelta: DefaultMaxVirtualDelta, RelativeSpeed: 1}
}

func (t *VirtualTime) Pause()         { t.paused = true }
func (t *VirtualTime) Unpause()       { t.paused = false }
func (t *VirtualTime) IsPaused() bool { return t.paused }

func (t *VirtualTime) advance(d time.Duration) {
	if t.paused {
		t.step(0)
		return
	}
	if t.MaxDelta > 0 && d > t.MaxDelta {
		d = t.MaxDelta
	}
	if t.RelativeSpeed != 1 {
		d = time.Duration(float64(d) * t.RelativeSpeed)
	}
	t.step(d)
}

// FixedTime accumulates virtual time and pays it out in whole periods. Its
// clock advances by exactly Period per FixedUpdate run.
type FixedTime struct {
	Clock
	Period      time.Duration
	accumulator time.Duration
}

func NewFixedTime() *FixedTime {
	return &FixedTime{Period: DefaultFixedPeriod}
}

// Overstep is the accumulated time not yet paid out.
func (t *FixedTime) Overstep() time.Duration { return t.accumulator }

func (t *FixedTime) accumulate(d time.Duration) {
	t.accumulator += d
}

func (t *FixedTime) expend() bool {
	if t.Period <= 0 || t.accumulator < t.Period {
		return false
	}
	t.accumulator -= t.Period
	t.step(t.Period)
	return true
}

// TimeModule reconfigures the clocks NewAppBuilder registers.
type TimeModule struct {
	FixedPeriod time.Duration
	MaxDelta    time.Duration
}

func NewTimeModule() TimeModule {
	return TimeModule{FixedPeriod: DefaultFixedPeriod, MaxDelta: DefaultMaxVirtualDelta}
}

func (mod TimeModule) Install(app *App, cmd *Commands) {
	if fixed, ok := Resource[FixedTime](app); ok && mod.FixedPeriod > 0 {
		fixed.Period = mod.FixedPeriod
	}
	if virtual, ok := Resource[VirtualTime](app); ok && mod.MaxDelta > 0 {
		virtual.MaxDelta = mod.MaxDelta
	}
}
