// Package security confines document loads to the configured document
// directory. Every path handed to the document_load tool goes through a
// PathValidator before any bytes are read.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator rejects document paths that escape the configured
// document directory, including escapes via .. segments and symlinks.
type PathValidator struct {
	documentDir string
}

// NewPathValidator creates a validator rooted at the given document
// directory. The directory does not have to exist yet: config may carry a
// placeholder that is created before the first document load.
func NewPathValidator(documentDir string) (*PathValidator, error) {
	if documentDir == "" {
		return nil, fmt.Errorf("document directory cannot be empty")
	}
	return &PathValidator{documentDir: documentDir}, nil
}

// ValidatePath checks that a document path stays inside the document
// directory. While the directory does not exist yet, any path passes.
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("document path cannot be empty")
	}

	if _, err := os.Stat(v.documentDir); os.IsNotExist(err) {
		return nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve document path: %w", err)
	}

	within, err := v.IsPathWithinDirectory(absPath)
	if err != nil {
		return fmt.Errorf("document path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("document path is outside the document directory: %s", path)
	}
	return nil
}

// IsPathWithinDirectory reports whether a path resolves inside the
// document directory. Both the path and the directory are checked in
// their literal and symlink-resolved forms, so neither a symlinked
// document nor a symlinked directory can widen the boundary.
func (v *PathValidator) IsPathWithinDirectory(path string) (bool, error) {
	if _, err := os.Stat(v.documentDir); os.IsNotExist(err) {
		return true, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve document path: %w", err)
	}
	absDir, err := filepath.Abs(v.documentDir)
	if err != nil {
		return false, fmt.Errorf("failed to resolve document directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	return insideDir(cleanPath, cleanDir, realDir) && insideDir(realPath, cleanDir, realDir), nil
}

// insideDir reports whether path sits at or under either form of the
// document directory.
func insideDir(path, cleanDir, realDir string) bool {
	return path == cleanDir || path == realDir ||
		strings.HasPrefix(path, withSeparator(cleanDir)) ||
		strings.HasPrefix(path, withSeparator(realDir))
}

func withSeparator(dir string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}

// GetConfiguredDirectory returns the document directory the validator is
// rooted at.
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.documentDir
}

// NormalizePath resolves a document path to an absolute path inside the
// document directory. Relative paths are taken relative to the document
// directory, which is how the document_load tool accepts bare file names.
func (v *PathValidator) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("document path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.documentDir, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve document path: %w", err)
	}

	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}
