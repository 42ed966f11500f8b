// Package emit writes the final bundle: the entry document, the serialized
// manifest and the application shell, with every reference prefixed by the
// deployment base path. Emission is clean-replace: prior contents of the
// output directory are removed first so no stale scene or policy file
// survives a rename or removal. Merge semantics are deliberately not
// offered.
package emit

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/muwanx/muwanx-go/internal/ctxlog"
	"github.com/muwanx/muwanx-go/internal/errs"
	"github.com/muwanx/muwanx-go/manifest"
)

//go:embed shell
var shellFS embed.FS

// ManifestFile is the bundle-relative location of the serialized manifest.
const ManifestFile = "manifest.json"

// ValidateBasePath enforces the deployment prefix contract: a base path
// must begin and end with "/" (the root path "/" satisfies both).
func ValidateBasePath(basePath string) error {
	if !strings.HasPrefix(basePath, "/") || !strings.HasSuffix(basePath, "/") {
		return errs.New(errs.CodeInvalidBasePath, "",
			"base path %q must begin and end with %q", basePath, "/")
	}
	return nil
}

// Clean removes every entry under the output filesystem root. A missing
// root is fine: there is nothing to replace.
func Clean(outFS billy.Filesystem) error {
	entries, err := outFS.ReadDir(".")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read output directory: %w", err)
	}
	for _, entry := range entries {
		if err := util.RemoveAll(outFS, entry.Name()); err != nil {
			return fmt.Errorf("clean output directory entry %q: %w", entry.Name(), err)
		}
	}
	return nil
}

// shellData feeds the entry-document template.
type shellData struct {
	BasePath string
	Manifest string
	Title    string
}

// Emit writes the manifest and shell into the output filesystem. The base
// path must already be validated; asset paths inside m are expected to be
// base-path-prefixed by the manifest assembly.
func Emit(ctx context.Context, outFS billy.Filesystem, m *manifest.Manifest) error {
	logger := ctxlog.FromContext(ctx)

	data, err := manifest.EncodeBytes(m)
	if err != nil {
		return err
	}
	if err := util.WriteFile(outFS, ManifestFile, data, 0o644); err != nil {
		return errs.Wrap(err, errs.CodeAssetCopyError, "", "write %s", ManifestFile)
	}

	title := "muwanx"
	if len(m.Projects) > 0 {
		title = m.Projects[0].Name
	}

	tmplSrc, err := shellFS.ReadFile("shell/index.html.tmpl")
	if err != nil {
		return fmt.Errorf("load shell template: %w", err)
	}
	tmpl, err := template.New("index").Parse(string(tmplSrc))
	if err != nil {
		return fmt.Errorf("parse shell template: %w", err)
	}
	var page strings.Builder
	if err := tmpl.Execute(&page, shellData{
		BasePath: m.BasePath,
		Manifest: m.BasePath + ManifestFile,
		Title:    title,
	}); err != nil {
		return fmt.Errorf("render entry document: %w", err)
	}
	if err := util.WriteFile(outFS, "index.html", []byte(page.String()), 0o644); err != nil {
		return errs.Wrap(err, errs.CodeAssetCopyError, "", "write index.html")
	}

	for _, name := range []string{"app.js", "style.css"} {
		content, err := shellFS.ReadFile("shell/" + name)
		if err != nil {
			return fmt.Errorf("load shell asset %q: %w", name, err)
		}
		if err := outFS.MkdirAll("assets", 0o755); err != nil {
			return errs.Wrap(err, errs.CodeAssetCopyError, "", "create assets directory")
		}
		if err := util.WriteFile(outFS, "assets/"+name, content, 0o644); err != nil {
			return errs.Wrap(err, errs.CodeAssetCopyError, "", "write shell asset %q", name)
		}
	}

	logger.Debug("Shell emitted.", "base_path", m.BasePath)
	return nil
}
