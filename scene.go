package muwanx

import "github.com/muwanx/muwanx-go/internal/errs"

// scene is one simulation instance, owned exclusively by its project.
type scene struct {
	name         string
	model        ModelRef
	initialState map[string]float64
	metadata     map[string]any
	policy       *policy
}

// SceneHandle configures a scene and attaches its policy.
type SceneHandle struct {
	scene   *scene
	builder *Builder
}

// Name returns the scene's display name.
func (h *SceneHandle) Name() string {
	return h.scene.name
}

// SetInitialState maps named degrees of freedom to their starting values.
func (h *SceneHandle) SetInitialState(state map[string]float64) *SceneHandle {
	h.builder.ensureConfigurable()
	h.scene.initialState = state
	return h
}

// SetMetadata attaches an opaque metadata entry, serialized verbatim into
// the manifest.
func (h *SceneHandle) SetMetadata(key string, value any) *SceneHandle {
	h.builder.ensureConfigurable()
	if h.scene.metadata == nil {
		h.scene.metadata = make(map[string]any)
	}
	h.scene.metadata[key] = value
	return h
}

// AttachPolicy attaches the neural-control policy stored at path. A scene
// holds at most one policy; attaching a second fails with DUPLICATE_POLICY.
func (h *SceneHandle) AttachPolicy(name, path string) (*PolicyHandle, error) {
	h.builder.ensureConfigurable()
	if h.scene.policy != nil {
		return nil, errs.New(errs.CodeDuplicatePolicy, sceneEntity(h.scene.name),
			"scene already has policy %q attached", h.scene.policy.name)
	}
	p := &policy{name: name, path: path}
	h.scene.policy = p
	return &PolicyHandle{policy: p, builder: h.builder}, nil
}

func sceneEntity(name string) string {
	return `scene "` + name + `"`
}
