package iconforge

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrUnknownProfile is returned when the requested export profile is not registered.
	ErrUnknownProfile = errors.New("unknown export profile")

	// ErrIncompletePackage is returned when a container format (.ico, .icns) is requested
	// but at least one of the required sizes failed to render. Containers are written
	// atomically: a single missing size aborts the whole package and nothing is written.
	ErrIncompletePackage = errors.New("incomplete package")
)

// RasterizeError reports a source file that could not be parsed or rasterized.
type RasterizeError struct {
	Path string
	Err  error
}

func (e *RasterizeError) Error() string {
	return fmt.Sprintf("could not rasterize %s: %v", e.Path, e.Err)
}

func (e *RasterizeError) Unwrap() error { return e.Err }

// WriteError reports a single output file that could not be written.
// In flat container mode a write error is recorded per size and does not
// prevent the remaining sizes from being written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// PackagingError reports a container file that could not be assembled
// by any of the available encoders.
type PackagingError struct {
	Path string
	Err  error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("could not package %s: %v", e.Path, e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }

// SizeFailure pairs a target size with the error which prevented its export.
type SizeFailure struct {
	Size image.Point
	Err  error
}

func (f SizeFailure) Error() string {
	return fmt.Sprintf("size %dx%d: %v", f.Size.X, f.Size.Y, f.Err)
}

func (f SizeFailure) Unwrap() error { return f.Err }
