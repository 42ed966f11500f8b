// Package errs defines the structured error model for the build pipeline.
// Every failure surfaced by build() carries a string code and is attributed
// to the entity (project, scene, policy) that triggered it, so callers get
// an actionable message instead of a bare "build failed".
package errs

import (
	"errors"
	"fmt"
)

// Code identifies a specific failure condition in the build pipeline.
// Codes are string-based for debuggability and natural JSON serialization.
type Code string

const (
	// CodeEmptyApplication indicates build() was called with no projects.
	CodeEmptyApplication Code = "EMPTY_APPLICATION"

	// CodeDuplicateProjectID indicates two projects declared the same explicit id.
	CodeDuplicateProjectID Code = "DUPLICATE_PROJECT_ID"

	// CodeDuplicatePolicy indicates a second policy was attached to a scene.
	CodeDuplicatePolicy Code = "DUPLICATE_POLICY"

	// CodeAssetNotFound indicates a referenced asset path does not resolve to
	// an existing file.
	CodeAssetNotFound Code = "ASSET_NOT_FOUND"

	// CodeUnrecognizedOption indicates a config key outside the recognized
	// option table for its config kind.
	CodeUnrecognizedOption Code = "UNRECOGNIZED_OPTION"

	// CodeInvalidValueShape indicates a list-valued option whose length does
	// not match the count it must broadcast against.
	CodeInvalidValueShape Code = "INVALID_VALUE_SHAPE"

	// CodeInvalidControlType indicates an action config type outside
	// {position, velocity, torque}.
	CodeInvalidControlType Code = "INVALID_CONTROL_TYPE"

	// CodeInvalidReference indicates a config names an actuator or sensor
	// absent from the scene's model.
	CodeInvalidReference Code = "INVALID_REFERENCE"

	// CodeAssetCopyError indicates a filesystem write failed while bundling.
	CodeAssetCopyError Code = "ASSET_COPY_ERROR"

	// CodeInvalidBasePath indicates a base path without a leading and
	// trailing slash.
	CodeInvalidBasePath Code = "INVALID_BASE_PATH"

	// CodeInvalidName indicates an entity name that is empty or contains
	// path separators.
	CodeInvalidName Code = "INVALID_NAME"
)

// Error is the structured error type returned by the build pipeline.
type Error struct {
	// Code classifies the failure.
	Code Code

	// Entity names the project/scene/policy the failure is attributed to,
	// e.g. `scene "S1"` or `project "demo" scene "S1" policy "walk"`.
	// Empty for application-level failures.
	Entity string

	// Message is the human-readable description.
	Message string

	// Err is the wrapped cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Entity != "" {
		msg = e.Entity + ": " + msg
	}
	msg = string(e.Code) + ": " + msg
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a structured error with no cause.
func New(code Code, entity, format string, args ...any) *Error {
	return &Error{Code: code, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a structured error wrapping a cause.
func Wrap(err error, code Code, entity, format string, args ...any) *Error {
	return &Error{Code: code, Entity: entity, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the code of err if it is (or wraps) an *Error, or the empty
// string otherwise.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err is (or wraps) an *Error with the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
