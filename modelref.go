package muwanx

// ModelRef is an opaque handle to an externally authored physics-model
// definition. The build pipeline never interprets the model's contents; it
// only needs the file path (to bundle the model verbatim), the named-entity
// tables (to validate observation/action references), and any companion
// asset files the model pulls in (meshes, textures, heightfields, skins).
//
// Name tables are nil only for opaque models (precompiled binaries), in
// which case reference validation is skipped for scenes using the model.
// Parsed models always carry non-nil tables, empty when the model declares
// no entities of that kind, so their references are always checked.
type ModelRef struct {
	// Path is the model file location, relative paths resolve against the
	// build's base directory.
	Path string

	// Joints, Actuators and Sensors are the model's named-entity tables in
	// declaration order.
	Joints    []string
	Actuators []string
	Sensors   []string

	// AssetFiles lists companion files referenced by the model (mesh,
	// texture, heightfield and skin sources). Relative paths resolve against
	// the model file's directory.
	AssetFiles []string
}
