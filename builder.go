// Package muwanx declares simulation web applications and builds them into
// static bundles. An application is a hierarchy of projects, scenes and
// optional neural-control policies; Build validates the hierarchy, bundles
// every referenced asset and emits a manifest plus the browser shell into an
// output directory.
package muwanx

import "fmt"

// Version is stamped into every emitted manifest.
const Version = "0.1.0"

// buildState tracks a builder's position in the build pipeline.
type buildState int

const (
	stateUnconfigured buildState = iota
	stateConfiguring
	stateValidating
	stateBundling
	stateEmitted
	stateFailed
)

func (s buildState) String() string {
	switch s {
	case stateUnconfigured:
		return "Unconfigured"
	case stateConfiguring:
		return "Configuring"
	case stateValidating:
		return "Validating"
	case stateBundling:
		return "Bundling"
	case stateEmitted:
		return "Emitted"
	case stateFailed:
		return "Failed"
	}
	return fmt.Sprintf("buildState(%d)", int(s))
}

// Builder incrementally assembles an application. Zero value is not usable;
// call NewBuilder. Builders are single-use: after Build returns, whether it
// succeeded or failed, further configuration or Build calls are rejected.
// Builders are not safe for concurrent use.
type Builder struct {
	basePath string
	projects []*project
	state    buildState
	failure  error
}

// NewBuilder creates a builder with the default base path "/".
func NewBuilder() *Builder {
	return &Builder{basePath: "/"}
}

// SetBasePath sets the URL prefix the bundle will be deployed under, e.g.
// "/muwanx/". Validated at build time: it must begin and end with "/".
func (b *Builder) SetBasePath(basePath string) *Builder {
	b.ensureConfigurable()
	b.basePath = basePath
	return b
}

// BasePath returns the configured base path.
func (b *Builder) BasePath() string {
	return b.basePath
}

// AddProject appends a project and returns its handle. Projects keep
// insertion order; the first project is the application's default entry.
func (b *Builder) AddProject(name string) *ProjectHandle {
	b.ensureConfigurable()
	b.state = stateConfiguring
	p := &project{name: name}
	b.projects = append(b.projects, p)
	return &ProjectHandle{project: p, builder: b}
}

// Projects returns the insertion-ordered project handles.
func (b *Builder) Projects() []*ProjectHandle {
	handles := make([]*ProjectHandle, len(b.projects))
	for i, p := range b.projects {
		handles[i] = &ProjectHandle{project: p, builder: b}
	}
	return handles
}

// ensureConfigurable panics when the builder has already entered the build
// pipeline. Configuration after Build is a programming error, and a failed
// pipeline cannot be retried in place.
func (b *Builder) ensureConfigurable() {
	if b.state > stateConfiguring {
		panic(fmt.Sprintf("muwanx: builder is in state %s and can no longer be configured; start a new builder", b.state))
	}
}

// effectiveID returns the routing id for the project at index i: an explicit
// id wins, the first project defaults to the empty id (home route), and
// later projects derive an id from their name.
func (b *Builder) effectiveID(i int) string {
	p := b.projects[i]
	if p.idSet {
		return p.id
	}
	if i == 0 {
		return ""
	}
	return NameToID(p.name)
}
