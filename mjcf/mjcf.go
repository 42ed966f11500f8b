// Package mjcf extracts the information the build pipeline needs from an
// MJCF XML model file: the named-entity tables used to validate policy
// configs, and the companion asset files (meshes, textures, heightfields,
// skins, included documents) that must travel with the model into the
// bundle. The model itself stays opaque; nothing here interprets physics.
package mjcf

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	muwanx "github.com/muwanx/muwanx-go"
)

// Load parses the MJCF file at xmlPath, following <include> references
// recursively, and returns a ModelRef carrying the merged name tables and
// referenced asset files. Asset file entries (included documents among
// them) are relative to the model file's directory, honoring the compiler
// meshdir/texturedir hints. The returned tables are always non-nil, so a
// model that happens to declare no actuators or sensors still gets its
// policy references validated.
func Load(xmlPath string) (muwanx.ModelRef, error) {
	ref := muwanx.ModelRef{
		Joints:    []string{},
		Actuators: []string{},
		Sensors:   []string{},
	}
	seen := make(map[string]bool)
	if err := loadTree(&ref, filepath.Dir(xmlPath), xmlPath, seen); err != nil {
		return muwanx.ModelRef{}, err
	}
	ref.Path = xmlPath
	return ref, nil
}

// loadTree parses one document and recurses into its <include> files.
// Include paths resolve against the main model's directory, matching
// MuJoCo's resolution rule; seen guards against include cycles.
func loadTree(ref *muwanx.ModelRef, baseDir, xmlPath string, seen map[string]bool) error {
	clean := filepath.Clean(xmlPath)
	if seen[clean] {
		return nil
	}
	seen[clean] = true

	f, err := os.Open(clean)
	if err != nil {
		return fmt.Errorf("open model %q: %w", xmlPath, err)
	}
	defer f.Close()

	doc, includes, err := parse(f)
	if err != nil {
		return fmt.Errorf("parse model %q: %w", xmlPath, err)
	}

	ref.Joints = append(ref.Joints, doc.Joints...)
	ref.Actuators = append(ref.Actuators, doc.Actuators...)
	ref.Sensors = append(ref.Sensors, doc.Sensors...)
	ref.AssetFiles = append(ref.AssetFiles, doc.AssetFiles...)

	for _, inc := range includes {
		if err := loadTree(ref, baseDir, filepath.Join(baseDir, inc), seen); err != nil {
			return err
		}
	}
	return nil
}

// Parse reads a single MJCF document from r. The returned ref has no Path
// set; <include> files are recorded as companion assets but not followed,
// since a bare reader has no directory to resolve them against. Name
// tables are always non-nil.
func Parse(r io.Reader) (muwanx.ModelRef, error) {
	ref, _, err := parse(r)
	return ref, err
}

func parse(r io.Reader) (muwanx.ModelRef, []string, error) {
	ref := muwanx.ModelRef{
		Joints:    []string{},
		Actuators: []string{},
		Sensors:   []string{},
	}
	var (
		includes   []string
		meshDir    string
		textureDir string
		stack      []string
	)

	addAsset := func(dir, file string) {
		if file == "" {
			return
		}
		ref.AssetFiles = append(ref.AssetFiles, path.Join(dir, file))
	}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return muwanx.ModelRef{}, nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			name := el.Name.Local
			attrs := attrMap(el)

			switch {
			case name == "compiler":
				meshDir = attrs["meshdir"]
				textureDir = attrs["texturedir"]
			case name == "include":
				if f := attrs["file"]; f != "" {
					includes = append(includes, f)
					addAsset("", f)
				}
			case name == "joint" || name == "freejoint":
				if n := attrs["name"]; n != "" {
					ref.Joints = append(ref.Joints, n)
				}
			case parent == "actuator":
				if n := attrs["name"]; n != "" {
					ref.Actuators = append(ref.Actuators, n)
				}
			case parent == "sensor":
				if n := attrs["name"]; n != "" {
					ref.Sensors = append(ref.Sensors, n)
				}
			case name == "mesh":
				addAsset(meshDir, attrs["file"])
			case name == "texture":
				addAsset(textureDir, attrs["file"])
				for _, face := range []string{"fileright", "fileleft", "fileup", "filedown", "filefront", "fileback"} {
					addAsset(textureDir, attrs[face])
				}
			case name == "hfield" || name == "skin":
				addAsset("", attrs["file"])
			}

			stack = append(stack, name)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return ref, includes, nil
}

func attrMap(el xml.StartElement) map[string]string {
	m := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		m[a.Name.Local] = a.Value
	}
	return m
}
