package wgpustein

import (
	"sync"
	"time"
)

// FrameHost is the window system the app runs inside. RequestFrame
// schedules callback to run once on the next display refresh; the app
// re-arms it every tick until it exits.
type FrameHost interface {
	RequestFrame(callback func(now time.Time))
	SetTitle(title string)
	Title() string
}

type WindowSize struct {
	Width  uint32
	Height uint32
}

func (s WindowSize) Aspect() float32 {
	if s.Height == 0 {
		return 0
	}
	return float32(s.Width) / float32(s.Height)
}

type WindowResized struct {
	Size WindowSize
}

// PendingResize is a single slot mailbox. Host callbacks store the latest
// size, dispatchResizeSystem takes it once per tick. Intermediate sizes
// between two ticks are dropped.
type PendingResize struct {
	mu   sync.Mutex
	size WindowSize
	set  bool
}

func (p *PendingResize) Store(width, height uint32) {
	p.mu.Lock()
	p.size = WindowSize{Width: width, Height: height}
	p.set = true
	p.mu.Unlock()
}

func (p *PendingResize) Take() (WindowSize, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.set {
		return WindowSize{}, false
	}
	p.set = false
	return p.size, true
}

// WindowModule wires a PendingResize into the schedule as WindowResized events.
type WindowModule struct {
	Pending *PendingResize
}

func (mod WindowModule) Install(app *App, cmd *Commands) {
	pending := mod.Pending
	if pending == nil {
		pending = &PendingResize{}
	}
	cmd.AddResources(pending)
	AddEvent[WindowResized](app)
	app.UseSystem(
		System(dispatchResizeSystem).
			InStage(Update),
	)
}

func dispatchResizeSystem(pending *PendingResize, events *Events[WindowResized]) {
	if size, ok := pending.Take(); ok {
		events.Send(WindowResized{Size: size})
	}
}
