// Package validate checks observation and action configuration mappings
// against the recognized-option tables and normalizes them into closed,
// serializable specs. Scalars are broadcast into per-element lists so the
// browser runtime never has to special-case shapes.
//
// All functions are pure: they return either a normalized copy or a
// structured error, and never mutate their input.
package validate

import (
	"fmt"
	"sort"

	"github.com/muwanx/muwanx-go/internal/errs"
	"github.com/muwanx/muwanx-go/manifest"
)

// Control types accepted by action configs.
const (
	ControlPosition = "position"
	ControlVelocity = "velocity"
	ControlTorque   = "torque"
)

var observationKeys = map[string]bool{
	"qpos":       true,
	"qvel":       true,
	"qacc":       true,
	"sensordata": true,
	"sensors":    true,
	"normalize":  true,
	"clip":       true,
}

var actionKeys = map[string]bool{
	"type":      true,
	"actuators": true,
	"scale":     true,
	"bias":      true,
	"clip":      true,
}

// Observation validates an observation config mapping. sensorNames is the
// model's sensor name table; a nil table skips reference checks (opaque
// binary models carry no name lists).
func Observation(cfg map[string]any, sensorNames []string) (*manifest.ObservationSpec, error) {
	if err := checkKeys(cfg, observationKeys, "observation"); err != nil {
		return nil, err
	}

	spec := &manifest.ObservationSpec{}
	var err error
	if spec.Qpos, err = boolOption(cfg, "qpos"); err != nil {
		return nil, err
	}
	if spec.Qvel, err = boolOption(cfg, "qvel"); err != nil {
		return nil, err
	}
	if spec.Qacc, err = boolOption(cfg, "qacc"); err != nil {
		return nil, err
	}
	if spec.Sensordata, err = boolOption(cfg, "sensordata"); err != nil {
		return nil, err
	}

	if raw, ok := cfg["sensors"]; ok {
		names, err := toStringList(raw)
		if err != nil {
			return nil, errs.New(errs.CodeInvalidValueShape, "", "observation option %q: %v", "sensors", err)
		}
		if sensorNames != nil {
			known := nameSet(sensorNames)
			for _, n := range names {
				if !known[n] {
					return nil, errs.New(errs.CodeInvalidReference, "", "observation references unknown sensor %q", n)
				}
			}
		}
		spec.Sensors = names
	}

	if raw, ok := cfg["normalize"]; ok {
		norm, err := parseNormalize(raw)
		if err != nil {
			return nil, err
		}
		spec.Normalize = norm
	}

	if raw, ok := cfg["clip"]; ok {
		r, err := parseRange(raw, "observation option \"clip\"")
		if err != nil {
			return nil, err
		}
		spec.Clip = r
	}

	return spec, nil
}

// Action validates an action config mapping against the model's actuator
// name table and broadcasts scalar scale/bias/clip values across the
// actuator list. A nil actuatorNames table skips reference checks.
func Action(cfg map[string]any, actuatorNames []string) (*manifest.ActionSpec, error) {
	if err := checkKeys(cfg, actionKeys, "action"); err != nil {
		return nil, err
	}

	rawType, ok := cfg["type"]
	if !ok {
		return nil, errs.New(errs.CodeInvalidControlType, "", "action config is missing the control type")
	}
	ctrlType, ok := rawType.(string)
	if !ok || !isControlType(ctrlType) {
		return nil, errs.New(errs.CodeInvalidControlType, "",
			"control type %v is not one of %q, %q, %q", rawType, ControlPosition, ControlVelocity, ControlTorque)
	}

	rawActuators, ok := cfg["actuators"]
	if !ok {
		return nil, errs.New(errs.CodeInvalidValueShape, "", "action config is missing the actuator list")
	}
	actuators, err := toStringList(rawActuators)
	if err != nil {
		return nil, errs.New(errs.CodeInvalidValueShape, "", "action option %q: %v", "actuators", err)
	}
	if len(actuators) == 0 {
		return nil, errs.New(errs.CodeInvalidValueShape, "", "action config declares an empty actuator list")
	}
	if actuatorNames != nil {
		known := nameSet(actuatorNames)
		for _, n := range actuators {
			if !known[n] {
				return nil, errs.New(errs.CodeInvalidReference, "", "action references unknown actuator %q", n)
			}
		}
	}

	spec := &manifest.ActionSpec{Type: ctrlType, Actuators: actuators}
	n := len(actuators)

	if raw, ok := cfg["scale"]; ok {
		if spec.Scale, err = broadcastFloats(raw, n, "scale"); err != nil {
			return nil, err
		}
	}
	if raw, ok := cfg["bias"]; ok {
		if spec.Bias, err = broadcastFloats(raw, n, "bias"); err != nil {
			return nil, err
		}
	}
	if raw, ok := cfg["clip"]; ok {
		if spec.Clip, err = broadcastPairs(raw, n, "clip"); err != nil {
			return nil, err
		}
	}

	return spec, nil
}

func isControlType(s string) bool {
	return s == ControlPosition || s == ControlVelocity || s == ControlTorque
}

// checkKeys rejects any key outside the recognized-option table. Keys are
// reported in sorted order so failures are deterministic.
func checkKeys(cfg map[string]any, allowed map[string]bool, kind string) error {
	var unknown []string
	for k := range cfg {
		if !allowed[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return errs.New(errs.CodeUnrecognizedOption, "", "unrecognized %s option %q", kind, unknown[0])
}

func boolOption(cfg map[string]any, key string) (bool, error) {
	raw, ok := cfg[key]
	if !ok {
		return false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, errs.New(errs.CodeInvalidValueShape, "", "observation option %q must be a boolean, got %T", key, raw)
	}
	return b, nil
}

// parseNormalize accepts {"mean": ..., "std": ...} where each value is a
// scalar or a list; scalars broadcast against the other value's length.
func parseNormalize(raw any) (*manifest.NormalizeSpec, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errs.New(errs.CodeInvalidValueShape, "", "observation option %q must be a mapping with mean and std", "normalize")
	}
	for k := range m {
		if k != "mean" && k != "std" {
			return nil, errs.New(errs.CodeUnrecognizedOption, "", "unrecognized normalize option %q", k)
		}
	}
	mean, err := toFloatList(m["mean"])
	if err != nil {
		return nil, errs.New(errs.CodeInvalidValueShape, "", "normalize mean: %v", err)
	}
	std, err := toFloatList(m["std"])
	if err != nil {
		return nil, errs.New(errs.CodeInvalidValueShape, "", "normalize std: %v", err)
	}
	// Broadcast the scalar side against the list side.
	if len(mean) == 1 && len(std) > 1 {
		mean = repeat(mean[0], len(std))
	}
	if len(std) == 1 && len(mean) > 1 {
		std = repeat(std[0], len(mean))
	}
	if len(mean) != len(std) {
		return nil, errs.New(errs.CodeInvalidValueShape, "",
			"normalize mean has %d entries but std has %d", len(mean), len(std))
	}
	return &manifest.NormalizeSpec{Mean: mean, Std: std}, nil
}

// parseRange accepts a [min, max] pair, a {"min": x, "max": y} mapping, or a
// scalar c meaning [-c, c].
func parseRange(raw any, what string) (*manifest.RangeSpec, error) {
	switch v := raw.(type) {
	case map[string]any:
		for k := range v {
			if k != "min" && k != "max" {
				return nil, errs.New(errs.CodeUnrecognizedOption, "", "%s: unrecognized bound %q", what, k)
			}
		}
		lo, err := toFloat(v["min"])
		if err != nil {
			return nil, errs.New(errs.CodeInvalidValueShape, "", "%s min: %v", what, err)
		}
		hi, err := toFloat(v["max"])
		if err != nil {
			return nil, errs.New(errs.CodeInvalidValueShape, "", "%s max: %v", what, err)
		}
		if lo > hi {
			return nil, errs.New(errs.CodeInvalidValueShape, "", "%s: min %v exceeds max %v", what, lo, hi)
		}
		return &manifest.RangeSpec{Min: lo, Max: hi}, nil
	default:
		vals, err := toFloatList(raw)
		if err != nil {
			return nil, errs.New(errs.CodeInvalidValueShape, "", "%s: %v", what, err)
		}
		switch len(vals) {
		case 1:
			c := vals[0]
			if c < 0 {
				c = -c
			}
			return &manifest.RangeSpec{Min: -c, Max: c}, nil
		case 2:
			if vals[0] > vals[1] {
				return nil, errs.New(errs.CodeInvalidValueShape, "", "%s: min %v exceeds max %v", what, vals[0], vals[1])
			}
			return &manifest.RangeSpec{Min: vals[0], Max: vals[1]}, nil
		default:
			return nil, errs.New(errs.CodeInvalidValueShape, "", "%s must be a scalar or a [min, max] pair, got %d entries", what, len(vals))
		}
	}
}

// broadcastFloats turns a scalar into n copies, or checks a list has
// exactly n entries. Broadcasting an already-broadcast list is a no-op.
func broadcastFloats(raw any, n int, option string) ([]float64, error) {
	vals, err := toFloatList(raw)
	if err != nil {
		return nil, errs.New(errs.CodeInvalidValueShape, "", "action option %q: %v", option, err)
	}
	if len(vals) == 1 && n != 1 {
		return repeat(vals[0], n), nil
	}
	if len(vals) != n {
		return nil, errs.New(errs.CodeInvalidValueShape, "",
			"action option %q has %d entries but the scene declares %d actuators", option, len(vals), n)
	}
	return vals, nil
}

// broadcastPairs accepts a single [min, max] pair (broadcast) or a list of
// n pairs.
func broadcastPairs(raw any, n int, option string) ([][2]float64, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, errs.New(errs.CodeInvalidValueShape, "", "action option %q must be a [min, max] pair or a list of pairs", option)
	}

	// A flat pair of numbers broadcasts across all actuators.
	if len(list) == 2 {
		if lo, err1 := toFloat(list[0]); err1 == nil {
			hi, err2 := toFloat(list[1])
			if err2 != nil {
				return nil, errs.New(errs.CodeInvalidValueShape, "", "action option %q: %v", option, err2)
			}
			if lo > hi {
				return nil, errs.New(errs.CodeInvalidValueShape, "", "action option %q: min %v exceeds max %v", option, lo, hi)
			}
			pairs := make([][2]float64, n)
			for i := range pairs {
				pairs[i] = [2]float64{lo, hi}
			}
			return pairs, nil
		}
	}

	if len(list) != n {
		return nil, errs.New(errs.CodeInvalidValueShape, "",
			"action option %q has %d pairs but the scene declares %d actuators", option, len(list), n)
	}
	pairs := make([][2]float64, 0, n)
	for i, entry := range list {
		pair, err := toFloatList(entry)
		if err != nil || len(pair) != 2 {
			return nil, errs.New(errs.CodeInvalidValueShape, "", "action option %q entry %d must be a [min, max] pair", option, i)
		}
		if pair[0] > pair[1] {
			return nil, errs.New(errs.CodeInvalidValueShape, "", "action option %q entry %d: min %v exceeds max %v", option, i, pair[0], pair[1])
		}
		pairs = append(pairs, [2]float64{pair[0], pair[1]})
	}
	return pairs, nil
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// toFloat coerces the numeric types that HCL decoding and plain Go callers
// produce.
func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
}

// toFloatList accepts a scalar (as a one-entry list) or a list of numbers.
func toFloatList(raw any) ([]float64, error) {
	if raw == nil {
		return nil, fmt.Errorf("expected a number or list of numbers, got nil")
	}
	switch v := raw.(type) {
	case []any:
		out := make([]float64, 0, len(v))
		for i, entry := range v {
			f, err := toFloat(entry)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			out = append(out, f)
		}
		return out, nil
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out, nil
	default:
		f, err := toFloat(raw)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
}

func toStringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, entry := range v {
			s, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected a string, got %T", i, entry)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", raw)
	}
}
