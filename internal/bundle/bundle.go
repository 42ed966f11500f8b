// Package bundle copies referenced asset files into the fixed output
// layout (assets/models, assets/policies, assets/meshes). Assets are
// deduplicated by source path: two scenes referencing the same file share a
// single bundled copy. Basename collisions between distinct sources are
// resolved with a short path hash so placement stays deterministic.
package bundle

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/sync/errgroup"

	"github.com/muwanx/muwanx-go/internal/ctxlog"
	"github.com/muwanx/muwanx-go/internal/errs"
)

// Kind selects the output subdirectory an asset lands in.
type Kind string

const (
	KindModel  Kind = "model"
	KindPolicy Kind = "policy"
	KindMesh   Kind = "mesh"
)

// Fixed output subdirectories, relative to the bundle root.
const (
	DirModels   = "assets/models"
	DirPolicies = "assets/policies"
	DirMeshes   = "assets/meshes"
)

func kindDir(k Kind) string {
	switch k {
	case KindModel:
		return DirModels
	case KindPolicy:
		return DirPolicies
	case KindMesh:
		return DirMeshes
	}
	panic(fmt.Sprintf("bundle: unknown asset kind %q", k))
}

// Bundler accumulates asset placements during manifest assembly and copies
// them in one pass once validation has completed for the whole application.
type Bundler struct {
	fs       billy.Filesystem
	bySource map[string]string
	taken    map[string]bool
	order    []string
}

// New creates a bundler writing into fs, which is rooted at the output
// directory.
func New(fs billy.Filesystem) *Bundler {
	return &Bundler{
		fs:       fs,
		bySource: make(map[string]string),
		taken:    make(map[string]bool),
	}
}

// Add registers a resolved source file for bundling and returns its
// bundle-relative destination path (e.g. "assets/models/humanoid.xml").
// Adding the same source twice returns the same destination without a
// second copy.
func (b *Bundler) Add(kind Kind, source string) string {
	source = filepath.Clean(source)
	if dest, ok := b.bySource[source]; ok {
		return dest
	}

	base := filepath.Base(source)
	dest := path.Join(kindDir(kind), base)
	if b.taken[dest] {
		ext := path.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		dest = path.Join(kindDir(kind), fmt.Sprintf("%s-%s%s", stem, pathHash(source), ext))
	}

	b.bySource[source] = dest
	b.taken[dest] = true
	b.order = append(b.order, source)
	return dest
}

// Len returns the number of distinct assets registered.
func (b *Bundler) Len() int {
	return len(b.order)
}

// Copy materializes every registered asset into the output filesystem.
// Source reads run in parallel; writes are sequential in registration order
// so the output filesystem never sees concurrent mutation. The first failed
// write aborts with ASSET_COPY_ERROR and no rollback: the output directory
// is left in whatever state the failed copy left it.
func (b *Bundler) Copy(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Bundling assets.", "count", len(b.order))

	contents := make([][]byte, len(b.order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, source := range b.order {
		i, source := i, source
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(source)
			if err != nil {
				return errs.Wrap(err, errs.CodeAssetCopyError, "", "read asset %q", source)
			}
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, source := range b.order {
		dest := b.bySource[source]
		if err := b.fs.MkdirAll(path.Dir(dest), 0o755); err != nil {
			return errs.Wrap(err, errs.CodeAssetCopyError, "", "create bundle directory %q", path.Dir(dest))
		}
		if err := util.WriteFile(b.fs, dest, contents[i], 0o644); err != nil {
			return errs.Wrap(err, errs.CodeAssetCopyError, "", "copy asset %q to %q", source, dest)
		}
		logger.Debug("Bundled asset.", "source", source, "dest", dest)
	}
	return nil
}

// pathHash returns a short stable hex digest of the source path, used only
// to keep colliding basenames apart.
func pathHash(source string) string {
	h := fnv.New32a()
	h.Write([]byte(filepath.ToSlash(source)))
	return fmt.Sprintf("%08x", h.Sum32())
}
