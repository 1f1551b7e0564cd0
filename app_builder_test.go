package wgpustein

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockModule struct {
	installed bool
	order     *[]string
	name      string
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
}

func TestAppBuilder_Defaults(t *testing.T) {
	app := NewAppBuilder().Build()

	var names []string
	for _, stage := range app.stages {
		names = append(names, stage.Name)
	}
	assert.Equal(t, []string{"Startup", "First", "PreUpdate", "FixedUpdate", "Update", "RenderPre", "Render", "RenderPost", "Last"}, names)

	assert.True(t, hasResource[RealTime](app))
	assert.True(t, hasResource[VirtualTime](app))
	assert.True(t, hasResource[FixedTime](app))
	assert.True(t, hasResource[Events[AppExit]](app))
}

func hasResource[T any](app *App) bool {
	_, ok := Resource[T](app)
	return ok
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	require.Len(t, builder.modules, 1)
	assert.False(t, mockModule.installed, "modules install on Build")

	builder.Build()
	assert.True(t, mockModule.installed)
}

func TestAppBuilder_InstallsInOrder(t *testing.T) {
	var order []string
	NewAppBuilder().
		UseModule(&MockModule{order: &order, name: "first"}).
		UseModule(&MockModule{order: &order, name: "second"}, &MockModule{order: &order, name: "third"}).
		Build()

	assert.Equal(t, []string{"first", "second", "third"}, order)
}
