package wgpustein

type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// AddEntity reserves a handle now; the entity is inserted when the current
// stage flushes.
func (cmd *Commands) AddEntity(components ...any) EntityId {
	eid := cmd.app.ecs.nextEntityId()
	cmd.app.pending = append(cmd.app.pending, pendingCommand{
		kind:       commandSpawn,
		eid:        eid,
		components: components,
	})
	return eid
}

func (cmd *Commands) AddComponents(entityId EntityId, components ...any) {
	cmd.app.pending = append(cmd.app.pending, pendingCommand{
		kind:       commandAddComponents,
		eid:        entityId,
		components: components,
	})
}

func (cmd *Commands) RemoveComponents(entityId EntityId, components ...any) {
	cmd.app.pending = append(cmd.app.pending, pendingCommand{
		kind:       commandRemoveComponents,
		eid:        entityId,
		components: components,
	})
}

func (cmd *Commands) RemoveEntity(entityId EntityId) {
	cmd.app.pending = append(cmd.app.pending, pendingCommand{
		kind: commandDespawn,
		eid:  entityId,
	})
}

// GetAllComponents returns copies of every component of the entity, nil when
// the entity does not exist yet.
func (cmd *Commands) GetAllComponents(entityId EntityId) []any {
	ecs := cmd.app.ecs
	archId, ok := ecs.entityIndex[entityId]
	if !ok {
		return nil
	}
	arch := ecs.archetypes[archId]

	row := arch.entities[entityId]

	var res []any
	for _, componentId := range arch.key {
		val := reflectSliceGet(arch.componentData[componentId], int(row))
		res = append(res, val.Interface())
	}
	return res
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

// Exit requests shutdown; the current driver tick still completes.
func (cmd *Commands) Exit(code ExitCode) {
	if events, ok := Resource[Events[AppExit]](cmd.app); ok {
		events.Send(AppExit{Code: code})
		return
	}
	cmd.app.requestExit(code)
}
