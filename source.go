package iconforge

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"

	"github.com/iconforge/iconforge/utils"
)

// Source holds a decoded export source, either a parsed SVG document or a
// raster image. A Source belongs to a single export request and must not be
// shared between concurrently running exports.
type Source struct {
	Path   string
	icon   *oksvg.SvgIcon
	raster image.Image
}

// LoadSource opens and decodes the source file. Files with an .svg extension
// are parsed by the SVG rasterizer, everything else is sniffed by content type
// and decoded with the stdlib image codecs.
func LoadSource(path string) (*Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		icon, err := oksvg.ReadIcon(path, oksvg.StrictErrorMode)
		if err != nil {
			return nil, &RasterizeError{Path: path, Err: err}
		}
		return &Source{Path: path, icon: icon}, nil
	}

	ctype, err := utils.DetectContentType(path)
	if err != nil {
		return nil, fmt.Errorf("could not open the source file: %w", err)
	}
	if !strings.HasPrefix(ctype, "image/") {
		return nil, fmt.Errorf("the source should be an SVG or an image file, got %s", ctype)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, &RasterizeError{Path: path, Err: err}
	}
	return &Source{Path: path, raster: img}, nil
}

// IsVector reports whether the source is a scalable vector image.
func (s *Source) IsVector() bool {
	return s.icon != nil
}
