package wgpustein

import (
	"fmt"
	"reflect"
	"runtime"
	"time"
)

type systemFn any

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	ecs       *Ecs
	logger    Logger

	// Command Buffering
	pending []pendingCommand

	eventUpdaters []func()
	exitReader    EventReader[AppExit]

	started bool
	exit    *ExitCode
}

type commandKind int

const (
	commandSpawn commandKind = iota
	commandDespawn
	commandAddComponents
	commandRemoveComponents
)

type pendingCommand struct {
	kind       commandKind
	eid        EntityId
	components []any
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Ecs exposes the scene store for setup code and tests. Systems should go
// through queries and Commands instead.
func (app *App) Ecs() *Ecs {
	return app.ecs
}

// Run arms the host's frame callback. Every callback runs one driver tick
// and re-arms until an AppExit has been observed, then the host title is
// set to the terminal message.
func (app *App) Run(host FrameHost) {
	base := host.Title()

	var frame func(now time.Time)
	frame = func(now time.Time) {
		app.guardedUpdate(now)
		if code, done := app.ExitStatus(); done {
			host.SetTitle(terminalTitle(base, code))
			return
		}
		host.RequestFrame(frame)
	}
	host.RequestFrame(frame)
}

func terminalTitle(base string, code ExitCode) string {
	if code == ExitSuccess {
		return base + " | exited"
	}
	return base + " | failed"
}

// guardedUpdate keeps panics from unwinding into the host callback.
func (app *App) guardedUpdate(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			app.Logger().Errorf("driver tick panicked: %v", r)
			app.requestExit(ExitFailure)
		}
	}()
	app.Update(now)
}

// Update runs exactly one driver tick: Startup on the first call, event
// rotation, clock advance, then every stage in order with FixedRate stages
// repeated while the fixed accumulator holds a whole period.
func (app *App) Update(now time.Time) {
	if app.exit != nil {
		return
	}

	if !app.started {
		app.started = true
		for _, stage := range app.stages {
			if stage.UpdateType == Once {
				app.runStage(stage)
			}
		}
	}

	for _, update := range app.eventUpdaters {
		update()
	}
	app.advanceClocks(now)

	for _, stage := range app.stages {
		switch stage.UpdateType {
		case Once:
			continue
		case FixedRate:
			fixed, ok := Resource[FixedTime](app)
			if !ok {
				continue
			}
			for fixed.expend() {
				app.runStage(stage)
			}
		default:
			app.runStage(stage)
		}
	}

	app.observeExit()
}

// ExitStatus reports the exit code once shutdown has been requested.
func (app *App) ExitStatus() (ExitCode, bool) {
	if app.exit == nil {
		return 0, false
	}
	return *app.exit, true
}

func (app *App) requestExit(code ExitCode) {
	if app.exit == nil || (code != ExitSuccess && *app.exit == ExitSuccess) {
		app.exit = &code
	}
}

func (app *App) observeExit() {
	events, ok := Resource[Events[AppExit]](app)
	if !ok {
		return
	}
	for _, e := range app.exitReader.Read(events) {
		app.requestExit(e.Code)
	}
}

func (app *App) advanceClocks(now time.Time) {
	realTime, ok := Resource[RealTime](app)
	if !ok {
		return
	}
	realTime.tick(now)

	virtual, ok := Resource[VirtualTime](app)
	if !ok {
		return
	}
	virtual.advance(realTime.Delta())

	if fixed, ok := Resource[FixedTime](app); ok {
		fixed.accumulate(virtual.Delta())
	}
}

func (app *App) runStage(stage Stage) {
	for _, system := range app.systems[stage.Name] {
		app.callSystem(system)
	}
	app.FlushCommands()
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %s must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

func (app *App) callSystem(system systemFn) {
	app.ecs.advanceTick()

	err := app.callSystemInternal(system)
	if err == nil {
		return
	}

	name := runtime.FuncForPC(reflect.ValueOf(system).Pointer()).Name()
	if IsFatal(err) {
		app.Logger().Errorf("system %s: %v", name, err)
		app.Commands().Exit(ExitFailure)
		return
	}
	app.Logger().Warnf("system %s: %v", name, err)
}

var (
	typeOfCommands = reflect.TypeOf(Commands{})
	typeOfError    = reflect.TypeFor[error]()
)

func validateSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	if systemType == nil || systemType.Kind() != reflect.Func {
		panic(fmt.Sprintf("system %T is not a function", system))
	}
	switch systemType.NumOut() {
	case 0:
	case 1:
		if systemType.Out(0) != typeOfError {
			panic(fmt.Sprintf("system %s may only return error", systemType))
		}
	default:
		panic(fmt.Sprintf("system %s returns too many values", systemType))
	}
	for i := 0; i < systemType.NumIn(); i++ {
		if systemType.In(i).Kind() != reflect.Pointer {
			panic(fmt.Sprintf("system %s: parameter %d must be a pointer", systemType, i))
		}
	}
}

func (app *App) callSystemInternal(system systemFn) error {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			panic(msg)
		}
	}

	out := systemValue.Call(args)
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

// FlushCommands applies deferred structural changes in the order they were
// issued. Failures are logged; the remaining commands still apply.
func (app *App) FlushCommands() {
	if len(app.pending) == 0 {
		return
	}
	// Flushed writes must land after any change cursor taken during the stage.
	app.ecs.advanceTick()

	pending := app.pending
	app.pending = nil

	for _, c := range pending {
		var err error
		switch c.kind {
		case commandSpawn:
			app.ecs.insertEntity(c.eid, c.components...)
		case commandDespawn:
			err = app.ecs.Despawn(c.eid)
		case commandAddComponents:
			err = app.ecs.addComponents(c.eid, c.components...)
		case commandRemoveComponents:
			err = app.ecs.removeComponents(c.eid, c.components...)
		}
		if err != nil {
			app.Logger().Warnf("flush commands: %v", err)
		}
	}
}
