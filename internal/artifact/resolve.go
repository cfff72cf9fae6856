package artifact

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"nugetctl/internal/services"
)

// ResolutionError reports a path input that did not match exactly one file.
type ResolutionError struct {
	Input string
	Count int
}

func (e *ResolutionError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("no file matches %q", e.Input)
	}
	return fmt.Sprintf("%q matches %d files, expected exactly one", e.Input, e.Count)
}

// Is classifies zero matches as not found and ambiguous matches as invalid input.
func (e *ResolutionError) Is(target error) bool {
	if e.Count == 0 {
		return target == services.ErrNotFound
	}
	return target == services.ErrValidation
}

// Resolve turns src into a single file reference. Stream sources pass through
// without touching the filesystem. Path sources are expanded as doublestar
// globs (a literal path matches itself) and must yield exactly one regular file.
func Resolve(src Source) (*FileRef, error) {
	if src.IsStream() {
		ref := &FileRef{Stream: src.Stream()}
		if p := src.Path(); p != "" {
			ref.Path = absPath(p)
		}
		return ref, nil
	}

	pattern := src.Path()
	if pattern == "" {
		return nil, &ResolutionError{Input: pattern}
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return nil, services.Wrap(services.ErrValidation, "resolve", pattern, "invalid pattern", err)
		}
		return nil, fmt.Errorf("resolve %s: %w", pattern, err)
	}
	if len(matches) != 1 {
		return nil, &ResolutionError{Input: pattern, Count: len(matches)}
	}
	return &FileRef{Path: absPath(matches[0])}, nil
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
