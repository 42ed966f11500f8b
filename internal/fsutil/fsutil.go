// Package fsutil provides file system utility functions: site-file discovery
// and asset path resolution.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/muwanx/muwanx-go/internal/errs"
)

// FindFilesByExtension recursively searches the given root path for all files
// ending with the specified extension. When rootPath is a regular file it is
// returned as-is. Results are in lexical walk order.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{rootPath}, nil
	}

	var files []string
	err = filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// ResolvePath resolves path against baseDir (absolute paths pass through),
// normalizes it, and verifies a regular file exists there. Returns an
// ASSET_NOT_FOUND error otherwise. Same inputs and filesystem state always
// yield the same output.
func ResolvePath(baseDir, path string) (string, error) {
	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(baseDir, resolved)
	}
	resolved = filepath.Clean(resolved)

	info, err := os.Stat(resolved)
	if err != nil {
		return "", errs.Wrap(err, errs.CodeAssetNotFound, "", "asset %q not found (resolved to %q)", path, resolved)
	}
	if info.IsDir() {
		return "", errs.New(errs.CodeAssetNotFound, "", "asset %q resolves to a directory, not a file (%q)", path, resolved)
	}
	return resolved, nil
}
