// Package schema declares the HCL block structure of muwanx site files.
package schema

import "github.com/hashicorp/hcl/v2"

// Root is the top-level structure of a site file. Projects keep file order;
// across multiple files they keep discovery order.
type Root struct {
	BasePath *string    `hcl:"base_path,optional"`
	Projects []*Project `hcl:"project,block"`
}

// Project is a `project "<name>" { ... }` block.
type Project struct {
	Name   string   `hcl:"name,label"`
	ID     *string  `hcl:"id,optional"`
	Scenes []*Scene `hcl:"scene,block"`
}

// Scene is a `scene "<name>" { ... }` block. Model paths resolve against
// the directory of the declaring file.
type Scene struct {
	Name         string             `hcl:"name,label"`
	Model        string             `hcl:"model"`
	InitialState map[string]float64 `hcl:"initial_state,optional"`
	Policies     []*Policy          `hcl:"policy,block"`
}

// Policy is a `policy "<name>" { ... }` block. At most one per scene; the
// builder rejects a second at load time.
type Policy struct {
	Name        string       `hcl:"name,label"`
	Path        string       `hcl:"path"`
	Observation *ConfigBlock `hcl:"observation,block"`
	Action      *ConfigBlock `hcl:"action,block"`
	Commands    []*Command   `hcl:"command,block"`
}

// ConfigBlock keeps an observation/action body undecoded: its keys form an
// open mapping checked by the config validator, not by HCL decoding, so an
// unknown key surfaces as UNRECOGNIZED_OPTION instead of a parse error.
type ConfigBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Command is a `command "<name>" { ... }` block grouping user inputs.
type Command struct {
	Name    string    `hcl:"name,label"`
	Sliders []*Slider `hcl:"slider,block"`
	Buttons []*Button `hcl:"button,block"`
}

// Slider is a bounded numeric input declaration.
type Slider struct {
	Name    string    `hcl:"name,label"`
	Label   string    `hcl:"label"`
	Range   []float64 `hcl:"range,optional"`
	Default float64   `hcl:"default,optional"`
	Step    float64   `hcl:"step,optional"`
}

// Button is a momentary input declaration.
type Button struct {
	Name  string `hcl:"name,label"`
	Label string `hcl:"label"`
}
