package iconforge

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/iconforge/iconforge/utils"
)

// ExportRequest describes a single user-initiated export. Each request is
// self-contained: the pipeline holds no state between invocations and two
// concurrent exports may only collide when they target the same destination.
type ExportRequest struct {
	// Source is the path of the SVG (or raster) source image.
	Source string

	// Profile is the identifier of a registered export profile.
	Profile string

	// Format must be one of the profile's allowed output formats.
	Format Format

	// Zoom is the content zoom percentage in the range [1, 100].
	Zoom int

	// Padding is the canvas margin in pixels.
	Padding int

	Background Background

	// Dir is the destination directory. Profile specific subdirectories
	// are created below it.
	Dir string

	// BaseName overrides the output file stem, which defaults to the
	// source file name without its extension.
	BaseName string

	// Width and Height define the single target size of the custom
	// profile. They are ignored for every other profile.
	Width, Height int
}

// ExportResult lists the written file paths together with the per-size
// failures recorded in flat container mode.
type ExportResult struct {
	Written  []string
	Failures []SizeFailure
}

// Ok reports whether every target size was exported.
func (r *ExportResult) Ok() bool {
	return len(r.Failures) == 0
}

// Export runs the whole pipeline for one request: the profile is resolved
// into a size list, every size is rendered with the request's zoom/background
// policy and the set is packaged according to the profile's container kind.
//
// Flat profiles follow a continue-on-error policy: a failing size is recorded
// in the result and the remaining sizes are still written. Container profiles
// (.ico, .icns) are atomic, any failing size aborts the whole export.
func Export(req *ExportRequest) (*ExportResult, error) {
	prof, err := Resolve(req.Profile)
	if err != nil {
		return nil, err
	}
	if !prof.Supports(req.Format) {
		return nil, fmt.Errorf("format %q is not allowed for profile %q", req.Format, prof.ID)
	}

	sizes := prof.Sizes
	if sizes == nil {
		if req.Width < 1 || req.Height < 1 {
			return nil, fmt.Errorf("profile %q requires a positive width and height", prof.ID)
		}
		sizes = []image.Point{{X: req.Width, Y: req.Height}}
	}

	src, err := LoadSource(req.Source)
	if err != nil {
		return nil, err
	}

	rend := &Renderer{
		Zoom:       req.Zoom,
		Padding:    req.Padding,
		Background: req.Background,
	}

	if prof.Container == Flat {
		return exportFlat(prof, rend, src, sizes, req)
	}
	return exportContainer(prof, rend, src, sizes, req)
}

// exportFlat writes one file per target size below the profile subdirectory,
// continuing past individual failures.
func exportFlat(prof *Profile, rend *Renderer, src *Source, sizes []image.Point, req *ExportRequest) (*ExportResult, error) {
	name := baseName(req)

	dir := filepath.Join(req.Dir, filepath.FromSlash(prof.Subdir))
	if prof.Sizes != nil {
		// Multi-size sets get their own directory named after the source.
		dir = filepath.Join(dir, name)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create the destination directory: %w", err)
	}

	res := &ExportResult{}
	for _, size := range sizes {
		img, err := rend.Render(src, size, req.Format)
		if err != nil {
			res.Failures = append(res.Failures, SizeFailure{Size: size, Err: err})
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%dx%d.%s", name, size.X, size.Y, req.Format.Ext()))
		if prof.Sizes == nil {
			// Single-file outputs never overwrite a previous export.
			path = utils.UniquePath(path)
		}

		if err := writeImage(path, img, req.Format); err != nil {
			res.Failures = append(res.Failures, SizeFailure{Size: size, Err: &WriteError{Path: path, Err: err}})
			continue
		}
		res.Written = append(res.Written, path)
	}
	return res, nil
}

// exportContainer renders the complete size set and assembles it into a
// single container file. A failing size escalates to ErrIncompletePackage
// before anything touches the disk.
func exportContainer(prof *Profile, rend *Renderer, src *Source, sizes []image.Point, req *ExportRequest) (*ExportResult, error) {
	images := make([]*RenderedImage, 0, len(sizes))
	for _, size := range sizes {
		img, err := rend.Render(src, size, req.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: size %dx%d failed to render: %v", ErrIncompletePackage, size.X, size.Y, err)
		}
		images = append(images, img)
	}

	dir := filepath.Join(req.Dir, filepath.FromSlash(prof.Subdir))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create the destination directory: %w", err)
	}

	var path string
	switch prof.Container {
	case IcoContainer:
		path = utils.UniquePath(filepath.Join(dir, "icon.ico"))
		if err := packageICO(path, images); err != nil {
			return nil, err
		}
	case IcnsContainer:
		path = utils.UniquePath(filepath.Join(dir, "icon.icns"))
		if err := packageICNS(path, images); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported container kind: %d", prof.Container)
	}

	return &ExportResult{Written: []string{path}}, nil
}

// baseName returns the output file stem for the request.
func baseName(req *ExportRequest) string {
	if req.BaseName != "" {
		return req.BaseName
	}
	base := filepath.Base(req.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
