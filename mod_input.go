package wgpustein

import (
	"sync"
)

type KeyCode int

const (
	KeyA KeyCode = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyInsert
	KeyDelete
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	KeyShift
	KeyControl
	KeyLeftAlt
	KeyPause
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	keyCount
)

type ButtonState int

const (
	Released ButtonState = iota
	Pressed
)

// InputEvent is anything a host callback can queue for processInputsSystem.
type InputEvent interface {
	inputEvent()
}

type KeyboardInput struct {
	Key    KeyCode
	State  ButtonState
	Repeat bool
}

type MouseButtonInput struct {
	Button KeyCode
	State  ButtonState
}

// MouseMotion carries the cursor position and the movement since the
// previous motion event, in window pixels.
type MouseMotion struct {
	X, Y           float64
	DeltaX, DeltaY float64
}

// WindowCloseRequested is queued when the user closes the window.
type WindowCloseRequested struct{}

func (KeyboardInput) inputEvent()        {}
func (MouseButtonInput) inputEvent()     {}
func (MouseMotion) inputEvent()          {}
func (WindowCloseRequested) inputEvent() {}

// PendingInputs is shared between host callbacks and processInputsSystem.
// Callbacks never touch the scene; they only append here.
type PendingInputs struct {
	mu     sync.Mutex
	events []InputEvent
}

func (p *PendingInputs) Push(e InputEvent) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *PendingInputs) Drain() []InputEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	events := p.events
	p.events = nil
	return events
}

// InputSink is what a host registers with its event source. It must stay
// reachable for as long as the callbacks are registered.
type InputSink struct {
	Pending *PendingInputs
	Logger  Logger
}

// Handle queues event. It never panics into the caller.
func (s InputSink) Handle(event InputEvent) {
	defer func() {
		if r := recover(); r != nil && s.Logger != nil {
			s.Logger.Errorf("input callback: %v", r)
		}
	}()
	if event == nil {
		return
	}
	s.Pending.Push(event)
}

// Input is the per-tick button and cursor state.
type Input struct {
	pressed      [keyCount]bool
	justPressed  [keyCount]bool
	justReleased [keyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
}

func (in *Input) Pressed(k KeyCode) bool      { return validKey(k) && in.pressed[k] }
func (in *Input) JustPressed(k KeyCode) bool  { return validKey(k) && in.justPressed[k] }
func (in *Input) JustReleased(k KeyCode) bool { return validKey(k) && in.justReleased[k] }

func validKey(k KeyCode) bool { return k >= 0 && k < keyCount }

func (in *Input) clearFrame() {
	in.justPressed = [keyCount]bool{}
	in.justReleased = [keyCount]bool{}
	in.MouseDeltaX, in.MouseDeltaY = 0, 0
}

func (in *Input) apply(k KeyCode, state ButtonState) {
	if !validKey(k) {
		return
	}
	if Pressed == state {
		if !in.pressed[k] {
			in.justPressed[k] = true
		}
		in.pressed[k] = true
	} else {
		if in.pressed[k] {
			in.justReleased[k] = true
		}
		in.pressed[k] = false
	}
}

type InputModule struct {
	Pending *PendingInputs
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	pending := mod.Pending
	if pending == nil {
		pending = &PendingInputs{}
	}
	cmd.AddResources(pending, &Input{})
	AddEvent[KeyboardInput](app)
	AddEvent[MouseButtonInput](app)
	AddEvent[MouseMotion](app)
	app.UseSystem(
		System(processInputsSystem).
			InStage(PreUpdate),
	)
}

func processInputsSystem(
	pending *PendingInputs,
	input *Input,
	keys *Events[KeyboardInput],
	buttons *Events[MouseButtonInput],
	motion *Events[MouseMotion],
	exit *Events[AppExit],
) {
	input.clearFrame()

	for _, e := range pending.Drain() {
		switch e := e.(type) {
		case KeyboardInput:
			if !e.Repeat {
				input.apply(e.Key, e.State)
			}
			keys.Send(e)
		case MouseButtonInput:
			input.apply(e.Button, e.State)
			buttons.Send(e)
		case MouseMotion:
			input.MouseX, input.MouseY = e.X, e.Y
			input.MouseDeltaX += e.DeltaX
			input.MouseDeltaY += e.DeltaY
			motion.Send(e)
		case WindowCloseRequested:
			exit.Send(AppExit{Code: ExitSuccess})
		}
	}
}
