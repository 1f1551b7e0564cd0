package wgpustein

import (
	"fmt"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowConfig struct {
	Width  int
	Height int
	Title  string
}

// DefaultWindowConfig fills zero fields with sensible defaults.
func DefaultWindowConfig(width, height int, title string) WindowConfig {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "wgpustein"
	}
	return WindowConfig{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

// GlfwHost is a FrameHost backed by a GLFW window without a client API, so
// wgpu can own the surface. It must be created and driven from the main
// OS thread.
type GlfwHost struct {
	window   *glfw.Window
	title    string
	callback func(now time.Time)

	resize *PendingResize
	inputs InputSink

	cursorSeen   bool
	lastX, lastY float64
}

var _ FrameHost = (*GlfwHost)(nil)

// NewGlfwHost opens the window and queues the initial framebuffer size as a
// pending resize. Failures wrap ErrHostMissing.
func NewGlfwHost(cfg WindowConfig, logger Logger) (*GlfwHost, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w: %v", ErrHostMissing, err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // wgpu owns the surface
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w: %v", ErrHostMissing, err)
	}

	if logger == nil {
		logger = NewNopLogger()
	}
	h := &GlfwHost{
		window: win,
		title:  cfg.Title,
		resize: &PendingResize{},
		inputs: InputSink{Pending: &PendingInputs{}, Logger: logger},
	}
	h.installCallbacks()

	fbw, fbh := win.GetFramebufferSize()
	h.resize.Store(uint32(max(fbw, 0)), uint32(max(fbh, 0)))
	return h, nil
}

func (h *GlfwHost) installCallbacks() {
	h.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		h.resize.Store(uint32(max(width, 0)), uint32(max(height, 0)))
	})

	h.window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		code, ok := glfwToKey[key]
		if !ok {
			return
		}
		h.inputs.Handle(KeyboardInput{
			Key:    code,
			State:  buttonStateOf(action),
			Repeat: action == glfw.Repeat,
		})
	})

	h.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		code, ok := glfwToMouseButton[button]
		if !ok {
			return
		}
		h.inputs.Handle(MouseButtonInput{Button: code, State: buttonStateOf(action)})
	})

	h.window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		var dx, dy float64
		if h.cursorSeen {
			dx, dy = xpos-h.lastX, ypos-h.lastY
		}
		h.cursorSeen = true
		h.lastX, h.lastY = xpos, ypos
		h.inputs.Handle(MouseMotion{X: xpos, Y: ypos, DeltaX: dx, DeltaY: dy})
	})

	h.window.SetCloseCallback(func(w *glfw.Window) {
		// Keep the window open until the app has processed the request.
		w.SetShouldClose(false)
		h.inputs.Handle(WindowCloseRequested{})
	})
}

func buttonStateOf(action glfw.Action) ButtonState {
	if action == glfw.Release {
		return Released
	}
	return Pressed
}

func (h *GlfwHost) RequestFrame(callback func(now time.Time)) {
	h.callback = callback
}

func (h *GlfwHost) SetTitle(title string) {
	h.title = title
	h.window.SetTitle(title)
}

func (h *GlfwHost) Title() string {
	return h.title
}

// SurfaceDescriptor binds a wgpu surface to the window.
func (h *GlfwHost) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(h.window)
}

// Loop polls window events and fires the armed frame callback until nothing
// re-arms it.
func (h *GlfwHost) Loop() {
	for h.callback != nil {
		glfw.PollEvents()
		cb := h.callback
		h.callback = nil
		cb(time.Now())
	}
}

func (h *GlfwHost) Destroy() {
	h.window.Destroy()
	glfw.Terminate()
}

// PlatformWindowModule connects a GlfwHost to the schedule: resize events,
// input events and the host itself as a resource.
type PlatformWindowModule struct {
	Host *GlfwHost
}

func NewPlatformWindow(host *GlfwHost) PlatformWindowModule {
	return PlatformWindowModule{Host: host}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(m.Host)
	WindowModule{Pending: m.Host.resize}.Install(app, cmd)
	InputModule{Pending: m.Host.inputs.Pending}.Install(app, cmd)
}

var glfwToMouseButton = map[glfw.MouseButton]KeyCode{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}

var glfwToKey = map[glfw.Key]KeyCode{
	glfw.KeyA:            KeyA,
	glfw.KeyB:            KeyB,
	glfw.KeyC:            KeyC,
	glfw.KeyD:            KeyD,
	glfw.KeyE:            KeyE,
	glfw.KeyF:            KeyF,
	glfw.KeyG:            KeyG,
	glfw.KeyH:            KeyH,
	glfw.KeyI:            KeyI,
	glfw.KeyJ:            KeyJ,
	glfw.KeyK:            KeyK,
	glfw.KeyL:            KeyL,
	glfw.KeyM:            KeyM,
	glfw.KeyN:            KeyN,
	glfw.KeyO:            KeyO,
	glfw.KeyP:            KeyP,
	glfw.KeyQ:            KeyQ,
	glfw.KeyR:            KeyR,
	glfw.KeyS:            KeyS,
	glfw.KeyT:            KeyT,
	glfw.KeyU:            KeyU,
	glfw.KeyV:            KeyV,
	glfw.KeyW:            KeyW,
	glfw.KeyX:            KeyX,
	glfw.KeyY:            KeyY,
	glfw.KeyZ:            KeyZ,
	glfw.Key0:            Key0,
	glfw.Key1:            Key1,
	glfw.Key2:            Key2,
	glfw.Key3:            Key3,
	glfw.Key4:            Key4,
	glfw.Key5:            Key5,
	glfw.Key6:            Key6,
	glfw.Key7:            Key7,
	glfw.Key8:            Key8,
	glfw.Key9:            Key9,
	glfw.KeySpace:        KeySpace,
	glfw.KeyEnter:        KeyEnter,
	glfw.KeyEscape:       KeyEscape,
	glfw.KeyTab:          KeyTab,
	glfw.KeyBackspace:    KeyBackspace,
	glfw.KeyInsert:       KeyInsert,
	glfw.KeyDelete:       KeyDelete,
	glfw.KeyRight:        KeyRight,
	glfw.KeyLeft:         KeyLeft,
	glfw.KeyDown:         KeyDown,
	glfw.KeyUp:           KeyUp,
	glfw.KeyF1:           KeyF1,
	glfw.KeyF2:           KeyF2,
	glfw.KeyF3:           KeyF3,
	glfw.KeyF4:           KeyF4,
	glfw.KeyF5:           KeyF5,
	glfw.KeyF6:           KeyF6,
	glfw.KeyF7:           KeyF7,
	glfw.KeyF8:           KeyF8,
	glfw.KeyF9:           KeyF9,
	glfw.KeyF10:          KeyF10,
	glfw.KeyF11:          KeyF11,
	glfw.KeyF12:          KeyF12,
	glfw.KeyMinus:        KeyMinus,
	glfw.KeyEqual:        KeyEqual,
	glfw.KeyKPAdd:        KeyKPPlus,
	glfw.KeyKPSubtract:   KeyKPMinus,
	glfw.KeyLeftShift:    KeyShift,
	glfw.KeyRightShift:   KeyShift,
	glfw.KeyLeftControl:  KeyControl,
	glfw.KeyRightControl: KeyControl,
	glfw.KeyLeftAlt:      KeyLeftAlt,
	glfw.KeyPause:        KeyPause,
}
