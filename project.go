package muwanx

// project is a named grouping of scenes, owned exclusively by the builder.
type project struct {
	name   string
	id     string
	idSet  bool
	scenes []*scene
}

// ProjectHandle configures a project and adds scenes to it.
type ProjectHandle struct {
	project *project
	builder *Builder
}

// Name returns the project's display name.
func (h *ProjectHandle) Name() string {
	return h.project.name
}

// SetID sets an explicit routing id. Explicit ids must be unique across the
// application; uniqueness is checked at build time.
func (h *ProjectHandle) SetID(id string) *ProjectHandle {
	h.builder.ensureConfigurable()
	h.project.id = id
	h.project.idSet = true
	return h
}

// AddScene appends a scene backed by the given model reference and returns
// its handle. Scenes keep insertion order.
func (h *ProjectHandle) AddScene(name string, model ModelRef) *SceneHandle {
	h.builder.ensureConfigurable()
	s := &scene{name: name, model: model}
	h.project.scenes = append(h.project.scenes, s)
	return &SceneHandle{scene: s, builder: h.builder}
}
