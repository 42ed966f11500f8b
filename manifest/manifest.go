// Package manifest defines the serialized application snapshot written into
// the bundle and consumed by the browser runtime at load time. Field names
// and nesting are a compatibility contract: they must stay stable across
// builds of an unchanged application.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Manifest is the validated, immutable snapshot of an application.
type Manifest struct {
	Version  string    `json:"version"`
	BasePath string    `json:"basePath"`
	Projects []Project `json:"projects"`
}

// Project mirrors one project in insertion order. The first project is the
// application's default entry; its id may be empty (home route).
type Project struct {
	Name   string  `json:"name"`
	ID     string  `json:"id"`
	Scenes []Scene `json:"scenes"`
}

// Scene mirrors one simulation instance. Model and mesh paths are already
// rewritten to their bundled, base-path-prefixed locations.
type Scene struct {
	Name         string             `json:"name"`
	Model        string             `json:"model"`
	InitialState map[string]float64 `json:"initialState,omitempty"`
	Meshes       []string           `json:"meshes,omitempty"`
	Metadata     map[string]any     `json:"metadata,omitempty"`
	Policy       *Policy            `json:"policy,omitempty"`
}

// Policy mirrors a scene's neural-control attachment with its validated,
// normalized configs.
type Policy struct {
	Name        string                  `json:"name"`
	Path        string                  `json:"path"`
	Observation *ObservationSpec        `json:"observation,omitempty"`
	Action      *ActionSpec             `json:"action,omitempty"`
	Commands    map[string]CommandGroup `json:"commands,omitempty"`
	Metadata    map[string]any          `json:"metadata,omitempty"`
}

// ObservationSpec is the normalized form of an observation config.
type ObservationSpec struct {
	Qpos       bool           `json:"qpos,omitempty"`
	Qvel       bool           `json:"qvel,omitempty"`
	Qacc       bool           `json:"qacc,omitempty"`
	Sensordata bool           `json:"sensordata,omitempty"`
	Sensors    []string       `json:"sensors,omitempty"`
	Normalize  *NormalizeSpec `json:"normalize,omitempty"`
	Clip       *RangeSpec     `json:"clip,omitempty"`
}

// NormalizeSpec holds per-component normalization parameters. Mean and Std
// always have equal length after validation.
type NormalizeSpec struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// RangeSpec is an inclusive [Min, Max] bound.
type RangeSpec struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ActionSpec is the normalized form of an action config. Scale, Bias and
// Clip, when present, have exactly one entry per actuator.
type ActionSpec struct {
	Type      string       `json:"type"`
	Actuators []string     `json:"actuators"`
	Scale     []float64    `json:"scale,omitempty"`
	Bias      []float64    `json:"bias,omitempty"`
	Clip      [][2]float64 `json:"clip,omitempty"`
}

// CommandGroup is a named set of user inputs fed to the policy.
type CommandGroup struct {
	Inputs []CommandInput `json:"inputs"`
}

// CommandInput is one slider or button entry.
type CommandInput struct {
	Type    string  `json:"type"`
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
	Step    float64 `json:"step,omitempty"`
	Default float64 `json:"default,omitempty"`
}

// Encode writes the manifest as indented JSON.
func Encode(w io.Writer, m *Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

// EncodeBytes returns the manifest as indented JSON.
func EncodeBytes(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a manifest previously written by Encode.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := json.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}
