package wgpustein

import (
	"fmt"
	"slices"
)

type UpdateType int

const (
	// DynamicRate stages run once per driver tick.
	DynamicRate UpdateType = iota
	// FixedRate stages run once per elapsed FixedTime period, zero or more
	// times per driver tick.
	FixedRate
	// Once stages run before the first driver tick only.
	Once
)

type Stage struct {
	Name       string
	UpdateType UpdateType
}

var (
	Startup     = Stage{Name: "Startup", UpdateType: Once}
	First       = Stage{Name: "First", UpdateType: DynamicRate}
	PreUpdate   = Stage{Name: "PreUpdate", UpdateType: DynamicRate}
	FixedUpdate = Stage{Name: "FixedUpdate", UpdateType: FixedRate}
	Update      = Stage{Name: "Update", UpdateType: DynamicRate}
	RenderPre   = Stage{Name: "RenderPre", UpdateType: DynamicRate}
	Render      = Stage{Name: "Render", UpdateType: DynamicRate}
	RenderPost  = Stage{Name: "RenderPost", UpdateType: DynamicRate}
	Last        = Stage{Name: "Last", UpdateType: DynamicRate}
)

func defaultStages() []Stage {
	return []Stage{Startup, First, PreUpdate, FixedUpdate, Update, RenderPre, Render, RenderPost, Last}
}

type systemScheduleBuilder struct {
	inStage Stage
	system  systemFn
}

func (sched systemScheduleBuilder) InStage(s Stage) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  sched.system,
		inStage: s,
	}
}

// System wraps a system function for registration; it runs in Update unless
// moved with InStage.
func System(system systemFn) systemScheduleBuilder {
	return systemScheduleBuilder{
		system:  system,
		inStage: Update,
	}
}

type stagePosition int

const (
	stageBefore stagePosition = iota
	stageAfter
)

type stagePositionBuilder struct {
	position stagePosition
	target   Stage
}

func BeforeStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{
		position: stageBefore,
		target:   s,
	}
}

func AfterStage(s Stage) stagePositionBuilder {
	return stagePositionBuilder{
		position: stageAfter,
		target:   s,
	}
}

func (app *App) UseStage(stage Stage, where stagePositionBuilder) *App {
	stageIdx := slices.IndexFunc(app.stages, func(s Stage) bool { return s.Name == where.target.Name })
	if -1 == stageIdx {
		panic(fmt.Sprintf("Stage %v not found", where.target.Name))
	}
	if app.hasStage(stage.Name) {
		panic(fmt.Sprintf("Stage %v already exists", stage.Name))
	}

	var insertAt int
	if stageBefore == where.position {
		insertAt = stageIdx
	} else {
		insertAt = stageIdx + 1
	}

	app.stages = slices.Insert(app.stages, insertAt, stage)
	app.systems[stage.Name] = make([]systemFn, 0)

	return app
}

// UseSystem appends the system to its stage; registration order is
// execution order within a stage.
func (app *App) UseSystem(system systemScheduleBuilder) *App {
	if !app.hasStage(system.inStage.Name) {
		panic(fmt.Sprintf("Stage %v doesn't exist", system.inStage.Name))
	}
	validateSystem(system.system)
	app.systems[system.inStage.Name] = append(app.systems[system.inStage.Name], system.system)
	return app
}

func (app *App) hasStage(name string) bool {
	_, ok := app.systems[name]
	return ok
}
