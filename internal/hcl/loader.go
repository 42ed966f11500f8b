// Package hcl loads muwanx site files and translates them into builder
// calls. It is the declarative authoring surface of the CLI; the Go builder
// API underneath stays the single source of truth for validation.
package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	muwanx "github.com/muwanx/muwanx-go"
	"github.com/muwanx/muwanx-go/internal/ctxlog"
	"github.com/muwanx/muwanx-go/internal/fsutil"
	"github.com/muwanx/muwanx-go/internal/schema"
	"github.com/muwanx/muwanx-go/mjcf"
)

// Loader translates HCL site files into a configured muwanx.Builder.
type Loader struct{}

// NewLoader creates a site-file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load discovers every .hcl file under path (a single file or a directory),
// parses them in discovery order and returns a builder ready to Build.
// Relative model and policy paths resolve against the declaring file's
// directory.
func (l *Loader) Load(ctx context.Context, path string) (*muwanx.Builder, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("discover site files under %q: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl site files found under %q", path)
	}
	logger.Debug("Discovered site files.", "count", len(files))

	builder := muwanx.NewBuilder()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parse site file %s: %w", file, diags)
		}

		var root schema.Root
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("decode site file %s: %w", file, diags)
		}

		if root.BasePath != nil {
			builder.SetBasePath(*root.BasePath)
		}

		fileDir := filepath.Dir(file)
		for _, project := range root.Projects {
			if err := l.applyProject(builder, project, fileDir); err != nil {
				return nil, fmt.Errorf("site file %s: %w", file, err)
			}
		}
		logger.Debug("Site file loaded.", "file", file, "projects", len(root.Projects))
	}

	return builder, nil
}

func (l *Loader) applyProject(builder *muwanx.Builder, project *schema.Project, fileDir string) error {
	handle := builder.AddProject(project.Name)
	if project.ID != nil {
		handle.SetID(*project.ID)
	}

	for _, sc := range project.Scenes {
		ref, err := modelRef(fileDir, sc.Model)
		if err != nil {
			return err
		}
		sceneHandle := handle.AddScene(sc.Name, ref)
		if len(sc.InitialState) > 0 {
			sceneHandle.SetInitialState(sc.InitialState)
		}

		for _, pol := range sc.Policies {
			policyPath := pol.Path
			if !filepath.IsAbs(policyPath) {
				policyPath = filepath.Join(fileDir, policyPath)
			}
			policyHandle, err := sceneHandle.AttachPolicy(pol.Name, policyPath)
			if err != nil {
				return err
			}
			if pol.Observation != nil {
				cfg, err := configMapping(pol.Observation.Body)
				if err != nil {
					return fmt.Errorf("scene %q policy %q observation: %w", sc.Name, pol.Name, err)
				}
				policyHandle.SetObservation(cfg)
			}
			if pol.Action != nil {
				cfg, err := configMapping(pol.Action.Body)
				if err != nil {
					return fmt.Errorf("scene %q policy %q action: %w", sc.Name, pol.Name, err)
				}
				policyHandle.SetAction(cfg)
			}
			for _, cmd := range pol.Commands {
				policyHandle.AddCommand(cmd.Name, commandInputs(cmd)...)
			}
		}
	}
	return nil
}

// modelRef loads the name tables and companion assets for XML models;
// precompiled binaries stay opaque.
func modelRef(fileDir, modelPath string) (muwanx.ModelRef, error) {
	resolved, err := fsutil.ResolvePath(fileDir, modelPath)
	if err != nil {
		return muwanx.ModelRef{}, err
	}
	if strings.EqualFold(filepath.Ext(resolved), ".xml") {
		return mjcf.Load(resolved)
	}
	return muwanx.ModelRef{Path: resolved}, nil
}

// configMapping flattens an observation/action body into the generic
// mapping the config validator consumes.
func configMapping(body hcl.Body) (map[string]any, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("read config attributes: %w", diags)
	}
	cfg := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluate %q: %w", name, diags)
		}
		goVal, err := ctyToGo(val)
		if err != nil {
			return nil, fmt.Errorf("convert %q: %w", name, err)
		}
		cfg[name] = goVal
	}
	return cfg, nil
}

func commandInputs(cmd *schema.Command) []muwanx.CommandInput {
	inputs := make([]muwanx.CommandInput, 0, len(cmd.Sliders)+len(cmd.Buttons))
	for _, s := range cmd.Sliders {
		slider := muwanx.Slider{
			Name:    s.Name,
			Label:   s.Label,
			Default: s.Default,
			Step:    s.Step,
		}
		if len(s.Range) == 2 {
			slider.Min, slider.Max = s.Range[0], s.Range[1]
		}
		inputs = append(inputs, slider)
	}
	for _, b := range cmd.Buttons {
		inputs = append(inputs, muwanx.Button{Name: b.Name, Label: b.Label})
	}
	return inputs
}
