package inkwell

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateSlug is returned when two sources of one collection map
	// to the same output file.
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrReservedSlug is returned when a page would overwrite a generated
	// top-level page.
	ErrReservedSlug = errors.New("reserved slug")

	// ErrNoPortAvailable is returned when every probed port is taken.
	ErrNoPortAvailable = errors.New("no port available")
)

// BuildError aborts a build. Files already written are left in place.
type BuildError struct {
	Step string // build step that failed, e.g. "render posts"
	Path string // file being processed, if any
	Err  error
}

func (e *BuildError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("build: %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("build: %s: %s: %v", e.Step, e.Path, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

func buildErr(step, path string, err error) error {
	var be *BuildError
	if errors.As(err, &be) {
		return err
	}
	return &BuildError{Step: step, Path: path, Err: err}
}
