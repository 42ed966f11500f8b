package muwanx

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/muwanx/muwanx-go/internal/bundle"
	"github.com/muwanx/muwanx-go/internal/ctxlog"
	"github.com/muwanx/muwanx-go/internal/emit"
	"github.com/muwanx/muwanx-go/internal/errs"
	"github.com/muwanx/muwanx-go/internal/fsutil"
	"github.com/muwanx/muwanx-go/internal/validate"
	"github.com/muwanx/muwanx-go/manifest"
)

// BuildOptions configures a single Build invocation.
type BuildOptions struct {
	// OutputDir is the bundle destination; default "dist". Relative paths
	// resolve against BaseDir.
	OutputDir string

	// BaseDir anchors relative asset paths (models, policies) and a
	// relative OutputDir; default ".".
	BaseDir string

	// OutputFS overrides the output filesystem, rooted at the output
	// directory. Nil means the OS filesystem at OutputDir. Two concurrent
	// builds targeting the same output are the caller's problem; no mutual
	// exclusion is attempted.
	OutputFS billy.Filesystem
}

// BuildResult reports where a successful build landed.
type BuildResult struct {
	OutputDir string
	Manifest  *manifest.Manifest
}

// validatedPolicy is a policy after config validation and path resolution.
type validatedPolicy struct {
	policy      *policy
	source      string
	observation *manifest.ObservationSpec
	action      *manifest.ActionSpec
}

// validatedScene is a scene with its asset sources resolved.
type validatedScene struct {
	scene       *scene
	modelSource string
	meshSources []string
	policy      *validatedPolicy
}

// Build finalizes the application: it validates every entity, resolves and
// bundles every referenced asset, and emits the manifest plus shell into
// the output directory. Validation completes for the whole application
// before anything is written; the first failure aborts the build with an
// error attributed to the offending project, scene or policy. A builder
// whose Build failed cannot be retried; start a new one.
func (b *Builder) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	logger := ctxlog.FromContext(ctx)

	switch b.state {
	case stateFailed:
		return nil, fmt.Errorf("muwanx: builder already failed (%w); start a new builder", b.failure)
	case stateEmitted:
		return nil, fmt.Errorf("muwanx: builder already emitted; start a new builder")
	}

	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "dist"
	}
	outputDir := opts.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(opts.BaseDir, outputDir)
	}

	b.state = stateValidating
	logger.Debug("Validating application.", "projects", len(b.projects))
	validated, err := b.validateAll(opts.BaseDir)
	if err != nil {
		return nil, b.fail(err)
	}

	b.state = stateBundling
	outFS := opts.OutputFS
	if outFS == nil {
		outFS = osfs.New(outputDir)
	}
	if err := emit.Clean(outFS); err != nil {
		return nil, b.fail(err)
	}

	bundler := bundle.New(outFS)
	m := b.assembleManifest(validated, bundler)
	logger.Debug("Manifest assembled.", "assets", bundler.Len())

	if err := bundler.Copy(ctx); err != nil {
		return nil, b.fail(err)
	}
	if err := emit.Emit(ctx, outFS, m); err != nil {
		return nil, b.fail(err)
	}

	b.state = stateEmitted
	logger.Info("Saved application.", "output", outputDir, "projects", len(m.Projects))
	return &BuildResult{OutputDir: outputDir, Manifest: m}, nil
}

// fail transitions the pipeline to its terminal failure state.
func (b *Builder) fail(err error) error {
	b.state = stateFailed
	b.failure = err
	return err
}

// validateAll checks every invariant and resolves every path before any
// output is touched. Failure order is deterministic: application level
// first, then projects, scenes and policies in insertion order.
func (b *Builder) validateAll(baseDir string) ([][]validatedScene, error) {
	if err := emit.ValidateBasePath(b.basePath); err != nil {
		return nil, err
	}
	if len(b.projects) == 0 {
		return nil, errs.New(errs.CodeEmptyApplication, "",
			"cannot build an empty application; add at least one project before building")
	}

	// Explicit id collisions only: derived ids never trigger this check.
	seen := make(map[string]string)
	for _, p := range b.projects {
		if !p.idSet {
			continue
		}
		if prev, ok := seen[p.id]; ok {
			return nil, errs.New(errs.CodeDuplicateProjectID, projectEntity(p.name),
				"id %q already used by project %q", p.id, prev)
		}
		seen[p.id] = p.name
	}

	validated := make([][]validatedScene, len(b.projects))
	for pi, p := range b.projects {
		if err := checkName("project", p.name); err != nil {
			return nil, withEntity(err, projectEntity(p.name))
		}
		scenes := make([]validatedScene, len(p.scenes))
		for si, s := range p.scenes {
			entity := projectEntity(p.name) + " " + sceneEntity(s.name)
			vs, err := b.validateScene(baseDir, s, entity)
			if err != nil {
				return nil, err
			}
			scenes[si] = vs
		}
		validated[pi] = scenes
	}
	return validated, nil
}

func (b *Builder) validateScene(baseDir string, s *scene, entity string) (validatedScene, error) {
	var vs validatedScene
	vs.scene = s

	if err := checkName("scene", s.name); err != nil {
		return vs, withEntity(err, entity)
	}
	if s.model.Path == "" {
		return vs, errs.New(errs.CodeAssetNotFound, entity, "scene has no model reference")
	}

	modelSource, err := fsutil.ResolvePath(baseDir, s.model.Path)
	if err != nil {
		return vs, withEntity(err, entity)
	}
	vs.modelSource = modelSource

	// Companion files resolve against the model's own directory.
	modelDir := filepath.Dir(modelSource)
	for _, af := range s.model.AssetFiles {
		src, err := fsutil.ResolvePath(modelDir, af)
		if err != nil {
			return vs, withEntity(err, entity)
		}
		vs.meshSources = append(vs.meshSources, src)
	}

	if s.policy == nil {
		return vs, nil
	}

	pol := s.policy
	pentity := entity + " " + policyEntity(pol.name)
	if err := checkName("policy", pol.name); err != nil {
		return vs, withEntity(err, pentity)
	}
	source, err := fsutil.ResolvePath(baseDir, pol.path)
	if err != nil {
		return vs, withEntity(err, pentity)
	}

	vp := &validatedPolicy{policy: pol, source: source}
	if pol.observation != nil {
		obs, err := validate.Observation(pol.observation, s.model.Sensors)
		if err != nil {
			return vs, withEntity(err, pentity)
		}
		vp.observation = obs
	}
	if pol.action != nil {
		act, err := validate.Action(pol.action, s.model.Actuators)
		if err != nil {
			return vs, withEntity(err, pentity)
		}
		vp.action = act
	}
	vs.policy = vp
	return vs, nil
}

// assembleManifest registers every asset with the bundler and produces the
// manifest with bundled, base-path-prefixed references.
func (b *Builder) assembleManifest(validated [][]validatedScene, bundler *bundle.Bundler) *manifest.Manifest {
	m := &manifest.Manifest{
		Version:  Version,
		BasePath: b.basePath,
		Projects: make([]manifest.Project, len(b.projects)),
	}

	for pi, p := range b.projects {
		mp := manifest.Project{
			Name:   p.name,
			ID:     b.effectiveID(pi),
			Scenes: make([]manifest.Scene, len(validated[pi])),
		}
		for si, vs := range validated[pi] {
			ms := manifest.Scene{
				Name:         vs.scene.name,
				Model:        b.basePath + bundler.Add(bundle.KindModel, vs.modelSource),
				InitialState: vs.scene.initialState,
				Metadata:     vs.scene.metadata,
			}
			for _, mesh := range vs.meshSources {
				ms.Meshes = append(ms.Meshes, b.basePath+bundler.Add(bundle.KindMesh, mesh))
			}
			if vs.policy != nil {
				ms.Policy = &manifest.Policy{
					Name:        vs.policy.policy.name,
					Path:        b.basePath + bundler.Add(bundle.KindPolicy, vs.policy.source),
					Observation: vs.policy.observation,
					Action:      vs.policy.action,
					Commands:    commandGroups(vs.policy.policy.commands),
					Metadata:    vs.policy.policy.metadata,
				}
			}
			mp.Scenes[si] = ms
		}
		m.Projects[pi] = mp
	}
	return m
}

func commandGroups(groups []commandGroup) map[string]manifest.CommandGroup {
	if len(groups) == 0 {
		return nil
	}
	out := make(map[string]manifest.CommandGroup, len(groups))
	for _, g := range groups {
		entries := make([]manifest.CommandInput, len(g.inputs))
		for i, in := range g.inputs {
			entries[i] = in.inputEntry()
		}
		out[g.name] = manifest.CommandGroup{Inputs: entries}
	}
	return out
}

// withEntity re-attributes a structured error to the given entity, keeping
// its code intact for errors.Is/As style checks.
func withEntity(err error, entity string) error {
	if code := errs.CodeOf(err); code != "" {
		return errs.Wrap(err, code, entity, "invalid configuration")
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func projectEntity(name string) string {
	return `project "` + name + `"`
}

func policyEntity(name string) string {
	return `policy "` + name + `"`
}
