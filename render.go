package iconforge

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/rasterx"

	"github.com/iconforge/iconforge/imop"
	"github.com/iconforge/iconforge/utils"
)

// maxPadding limits the canvas margin to a sane pixel range.
const maxPadding = 2000

// Background describes the canvas behind the rendered content.
// The zero value requests a transparent canvas only when Transparent is set,
// otherwise the content is flattened onto Color (white when unset).
type Background struct {
	Transparent bool
	Color       color.NRGBA
}

// fill returns the opaque background color, defaulting to white.
func (b Background) fill() color.NRGBA {
	if b.Color.A == 0 {
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	c := b.Color
	c.A = 0xff
	return c
}

// RenderedImage is the in-memory result of rendering one target size.
// It is owned exclusively by the pipeline during a single export.
type RenderedImage struct {
	Img      *image.NRGBA
	Size     image.Point
	HasAlpha bool
}

// Renderer applies the zoom/fit/background policy while rasterizing a source
// onto a fixed-size canvas. Rendering is pure: the same source, size, zoom and
// background always produce pixel-identical output and nothing is written to disk.
type Renderer struct {
	// Zoom shrinks the fit rectangle to the given percentage of the full
	// fit, in the range [1, 100]. Values outside the range are clamped,
	// zero means full fit. The content never exceeds the 100% fit size.
	Zoom int

	// Padding is the margin in pixels kept clear on every canvas edge
	// before the fit rectangle is computed.
	Padding int

	Background Background
}

// Render rasterizes the source at the target size. The content is scaled to
// fit entirely within the canvas minus padding, preserving the aspect ratio,
// centered. When the background is transparent but the format cannot store an
// alpha channel, the content silently falls back to opaque compositing.
func (r *Renderer) Render(src *Source, size image.Point, format Format) (*RenderedImage, error) {
	if size.X < 1 || size.Y < 1 {
		return nil, fmt.Errorf("invalid target size %dx%d", size.X, size.Y)
	}

	zoom := clampZoom(r.Zoom)
	pad := utils.Min(utils.Max(0, r.Padding), maxPadding)
	workW := utils.Max(1, size.X-2*pad)
	workH := utils.Max(1, size.Y-2*pad)

	// The fit rectangle at zoom=100 is the work area itself; lower zoom
	// values scale it down proportionally, never up.
	zw := float64(workW) * float64(zoom) / 100
	zh := float64(workH) * float64(zoom) / 100

	var content *image.NRGBA
	if src.IsVector() {
		content = rasterizeSVG(src, size, zw, zh)
	} else {
		content = rescaleRaster(src, size, zw, zh)
	}

	hasAlpha := r.Background.Transparent && format.SupportsAlpha()
	if !hasAlpha {
		content = flatten(content, r.Background.fill())
	}

	return &RenderedImage{Img: content, Size: size, HasAlpha: hasAlpha}, nil
}

// rasterizeSVG renders the vector source directly at the target size.
// The fit rectangle is passed to the rasterizer through SetTarget, so the
// content is drawn centered at its final dimensions in a single pass.
func rasterizeSVG(src *Source, size image.Point, zw, zh float64) *image.NRGBA {
	vw, vh := src.icon.ViewBox.W, src.icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		vw, vh = float64(size.X), float64(size.Y)
	}

	scale := math.Min(zw/vw, zh/vh)
	cw, ch := vw*scale, vh*scale
	ox := (float64(size.X) - cw) / 2
	oy := (float64(size.Y) - ch) / 2
	src.icon.SetTarget(ox, oy, cw, ch)

	canvas := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	scanner := rasterx.NewScannerGV(size.X, size.Y, canvas, canvas.Bounds())
	src.icon.Draw(rasterx.NewDasher(size.X, size.Y, scanner), 1.0)

	return imgToNRGBA(canvas)
}

// rescaleRaster fits a raster source into the fit rectangle and centers it
// on a transparent canvas of the target size.
func rescaleRaster(src *Source, size image.Point, zw, zh float64) *image.NRGBA {
	content := imaging.Fit(src.raster, utils.Max(1, int(zw)), utils.Max(1, int(zh)), imaging.Lanczos)
	canvas := imaging.New(size.X, size.Y, color.NRGBA{})
	return imaging.OverlayCenter(canvas, content, 1.0)
}

// flatten composites the rendered content over an opaque backdrop,
// discarding the alpha channel.
func flatten(content *image.NRGBA, fill color.NRGBA) *image.NRGBA {
	bounds := content.Bounds()
	backdrop := imaging.New(bounds.Dx(), bounds.Dy(), fill)

	op := imop.InitOp()
	op.Set(imop.SrcOver)

	bitmap := imop.NewBitmap(bounds)
	op.Draw(bitmap, content, backdrop)

	return bitmap.Img
}

// clampZoom limits the zoom percentage into the [1, 100] range.
// There is deliberately no code path which accepts a zoom above 100:
// the content can only be shrunk relative to the full fit, never overscaled.
func clampZoom(z int) int {
	if z <= 0 {
		return 100
	}
	return utils.Min(z, 100)
}
