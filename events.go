package wgpustein

import (
	"reflect"
)

type ExitCode int

const (
	ExitSuccess ExitCode = 0
	ExitFailure ExitCode = 1
)

// AppExit asks the driver to stop after the current tick.
type AppExit struct {
	Code ExitCode
}

type eventInstance[T any] struct {
	id    uint64
	event T
}

// Events is a double buffered queue. Events sent during a driver tick stay
// readable through the following tick, then are dropped. Each reader keeps
// its own cursor, so every reader sees every event exactly once.
type Events[T any] struct {
	buffers [2][]eventInstance[T]
	current int
	nextId  uint64
}

func (e *Events[T]) Send(event T) {
	e.buffers[e.current] = append(e.buffers[e.current], eventInstance[T]{id: e.nextId, event: event})
	e.nextId++
}

// Update rotates the buffers, dropping events older than one tick.
func (e *Events[T]) Update() {
	e.current = 1 - e.current
	e.buffers[e.current] = e.buffers[e.current][:0]
}

func (e *Events[T]) Len() int {
	return len(e.buffers[0]) + len(e.buffers[1])
}

type EventReader[T any] struct {
	next uint64
}

// Read returns the events sent since the previous call, oldest first.
func (r *EventReader[T]) Read(e *Events[T]) []T {
	var res []T
	older := e.buffers[1-e.current]
	newer := e.buffers[e.current]
	for _, buf := range [][]eventInstance[T]{older, newer} {
		for _, inst := range buf {
			if inst.id >= r.next {
				res = append(res, inst.event)
			}
		}
	}
	r.next = e.nextId
	return res
}

// AddEvent registers Events[T] as a resource rotated at the start of every
// driver tick. Registering the same type twice is a no-op.
func AddEvent[T any](app *App) *Events[T] {
	if events, ok := Resource[Events[T]](app); ok {
		return events
	}
	events := &Events[T]{}
	app.addResources(events)
	app.eventUpdaters = append(app.eventUpdaters, events.Update)
	return events
}

// Resource looks up a resource registered by pointer.
func Resource[T any](app *App) (*T, bool) {
	res, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return res.(*T), true
}
