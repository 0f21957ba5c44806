// Package validation handles validation of user input.
package validation

import (
	"errors"
	"fmt"
	"os"

	"movvify/internal/domain/consts"
	"movvify/internal/utils/logging"
)

// ValidateDirectory validates that the directory exists, else creates it if desired.
func ValidateDirectory(dir string, createIfNotFound bool) (os.FileInfo, error) {
	logging.D(3, "Statting directory %q...", dir)

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		// Exists
	case errors.Is(err, os.ErrNotExist) && createIfNotFound:
		if err := os.MkdirAll(dir, consts.PermsDownloadsDir); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", dir, err)
		}
		logging.D(1, "Created directory %q", dir)
		if info, err = os.Stat(dir); err != nil {
			return nil, fmt.Errorf("failed to stat created directory %q: %w", dir, err)
		}
	default:
		return nil, fmt.Errorf("failed to stat directory %q: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path %q is a file, not a directory", dir)
	}
	return info, nil
}
