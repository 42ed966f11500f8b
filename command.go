package muwanx

import "github.com/muwanx/muwanx-go/manifest"

// CommandInput is a single user-facing control (slider, button) in a
// command group.
type CommandInput interface {
	inputEntry() manifest.CommandInput
}

// Slider is a bounded numeric command input.
type Slider struct {
	// Name is the identifier the policy's observations read (e.g. "lin_vel_x").
	Name string
	// Label is the display label shown in the UI.
	Label string
	// Min and Max bound the slider range.
	Min float64
	Max float64
	// Default is the initial value.
	Default float64
	// Step is the slider increment; zero means 0.01.
	Step float64
}

func (s Slider) inputEntry() manifest.CommandInput {
	step := s.Step
	if step == 0 {
		step = 0.01
	}
	return manifest.CommandInput{
		Type:    "slider",
		Name:    s.Name,
		Label:   s.Label,
		Min:     s.Min,
		Max:     s.Max,
		Step:    step,
		Default: s.Default,
	}
}

// Button is a momentary command input.
type Button struct {
	Name  string
	Label string
}

func (b Button) inputEntry() manifest.CommandInput {
	return manifest.CommandInput{Type: "button", Name: b.Name, Label: b.Label}
}

// commandGroup is a named set of related inputs passed together to an
// observation.
type commandGroup struct {
	name   string
	inputs []CommandInput
}

// velocityCommandInputs builds the standard locomotion velocity command
// group: forward velocity, lateral velocity and yaw rate sliders.
func velocityCommandInputs() []CommandInput {
	return []CommandInput{
		Slider{Name: "lin_vel_x", Label: "Forward Velocity", Min: -1.0, Max: 1.0, Default: 0.5, Step: 0.05},
		Slider{Name: "lin_vel_y", Label: "Lateral Velocity", Min: -0.5, Max: 0.5, Step: 0.05},
		Slider{Name: "ang_vel_z", Label: "Yaw Rate", Min: -1.0, Max: 1.0, Step: 0.05},
	}
}
