package muwanx

import (
	"strings"

	"github.com/muwanx/muwanx-go/internal/errs"
)

// NameToID converts a display name to a URL-friendly identifier: lowercase,
// with spaces and hyphens replaced by underscores.
func NameToID(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, "-", "_")
	return id
}

// checkName rejects empty names and names containing path separators, which
// would escape the bundle directory layout.
func checkName(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.New(errs.CodeInvalidName, "", "%s name must be a non-empty string", kind)
	}
	if strings.ContainsAny(name, `/\`) {
		return errs.New(errs.CodeInvalidName, "", "%s name %q cannot contain path separators", kind, name)
	}
	return nil
}
