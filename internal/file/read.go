package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"movvify/internal/domain/consts"
)

// ErrNotFound is returned when a requested file is absent or not servable.
var ErrNotFound = errors.New("file not found")

// ResolveServed maps a client-supplied filename to a path inside the downloads
// directory. Anything that is not a single movvify output filename is rejected.
func (r *Resolver) ResolveServed(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) ||
		name != filepath.Base(name) ||
		!strings.HasPrefix(name, consts.FilePrefix) {
		return "", fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}

	dir, err := filepath.Abs(r.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve downloads directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if rel, err := filepath.Rel(dir, path); err != nil || rel != name {
		return "", fmt.Errorf("%w: %q escapes the downloads directory", ErrNotFound, name)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %q is not a regular file", ErrNotFound, name)
	}
	return path, nil
}
