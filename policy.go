package muwanx

// policy is the optional neural-control attachment of a scene.
type policy struct {
	name        string
	path        string
	observation map[string]any
	action      map[string]any
	metadata    map[string]any
	commands    []commandGroup
}

// PolicyHandle configures a policy's observation/action mappings and
// command groups.
type PolicyHandle struct {
	policy  *policy
	builder *Builder
}

// Name returns the policy's display name.
func (h *PolicyHandle) Name() string {
	return h.policy.name
}

// SetObservation sets the observation config mapping. Keys are checked
// against the recognized-option table at build time.
func (h *PolicyHandle) SetObservation(cfg map[string]any) *PolicyHandle {
	h.builder.ensureConfigurable()
	h.policy.observation = cfg
	return h
}

// SetAction sets the action config mapping. Keys, the control type, the
// actuator references and scale/bias/clip shapes are checked at build time.
func (h *PolicyHandle) SetAction(cfg map[string]any) *PolicyHandle {
	h.builder.ensureConfigurable()
	h.policy.action = cfg
	return h
}

// SetMetadata attaches an opaque metadata entry, serialized verbatim into
// the manifest.
func (h *PolicyHandle) SetMetadata(key string, value any) *PolicyHandle {
	h.builder.ensureConfigurable()
	if h.policy.metadata == nil {
		h.policy.metadata = make(map[string]any)
	}
	h.policy.metadata[key] = value
	return h
}

// AddCommand registers a named group of user inputs whose values are fed to
// the policy's observations. Re-adding a name replaces the group in place.
func (h *PolicyHandle) AddCommand(name string, inputs ...CommandInput) *PolicyHandle {
	h.builder.ensureConfigurable()
	for i, g := range h.policy.commands {
		if g.name == name {
			h.policy.commands[i].inputs = inputs
			return h
		}
	}
	h.policy.commands = append(h.policy.commands, commandGroup{name: name, inputs: inputs})
	return h
}

// AddVelocityCommand registers the standard locomotion velocity command
// group (forward/lateral velocity and yaw-rate sliders).
func (h *PolicyHandle) AddVelocityCommand() *PolicyHandle {
	return h.AddCommand("velocity", velocityCommandInputs()...)
}
