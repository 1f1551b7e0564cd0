package wgpustein

import (
	"fmt"
)

// RendererTag marks that a renderer has been installed into the App.
// Only one renderer may draw to the surface.
type RendererTag struct {
	Name string
}

// ensureSingleRenderer panics when a renderer other than name has already
// claimed the app, and claims it otherwise.
func ensureSingleRenderer(app *App, name string) {
	tag, ok := Resource[RendererTag](app)
	if !ok {
		app.addResources(&RendererTag{Name: name})
		return
	}
	app.Logger().Errorf("renderer %s already installed, refusing %s", tag.Name, name)
	panic(fmt.Sprintf("multiple renderers installed: %s and %s", tag.Name, name))
}
