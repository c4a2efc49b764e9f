package iconforge

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// testSVG fills its whole 512x512 view box, so the rendered content covers
// the complete fit rectangle at any zoom level.
const testSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="512" height="512" viewBox="0 0 512 512">
  <rect x="0" y="0" width="512" height="512" fill="#2864dc"/>
</svg>`

func loadTestSVG(t *testing.T) *Source {
	t.Helper()

	path := filepath.Join(t.TempDir(), "square.svg")
	if err := os.WriteFile(path, []byte(testSVG), 0644); err != nil {
		t.Fatalf("Unable to write the test SVG: %v", err)
	}
	src, err := LoadSource(path)
	if err != nil {
		t.Fatalf("Expected the test SVG to load. Got %v", err)
	}
	return src
}

// opaqueBounds returns the bounding box of the pixels carrying any opacity.
func opaqueBounds(img *image.NRGBA) image.Rectangle {
	var box image.Rectangle
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.NRGBAAt(x, y).A > 0 {
				px := image.Rect(x, y, x+1, y+1)
				if box.Empty() {
					box = px
				} else {
					box = box.Union(px)
				}
			}
		}
	}
	return box
}

func withinDelta(a, b uint8, delta int) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= delta
}

func TestRender_ZoomMonotonicity(t *testing.T) {
	src := loadTestSVG(t)
	size := image.Point{X: 64, Y: 64}

	var prev int
	for _, zoom := range []int{25, 50, 75, 100} {
		rend := &Renderer{Zoom: zoom, Background: Background{Transparent: true}}
		img, err := rend.Render(src, size, FormatPNG)
		if err != nil {
			t.Fatalf("Render at zoom %d expected to succeed. Got %v", zoom, err)
		}

		box := opaqueBounds(img.Img)
		if box.Dx() <= prev {
			t.Errorf("Content width at zoom %d expected to be larger than %d. Got %d", zoom, prev, box.Dx())
		}
		prev = box.Dx()

		if box.Dx() > size.X || box.Dy() > size.Y {
			t.Errorf("Content at zoom %d expected to stay within the canvas. Got %v", zoom, box)
		}
		if zoom < 100 && box.Dx() >= size.X {
			t.Errorf("Content at zoom %d expected to be strictly smaller than the full fit. Got %v", zoom, box)
		}
	}
	if prev != 64 {
		t.Errorf("Content at zoom 100 expected to cover the full canvas width. Got %d", prev)
	}
}

func TestRender_ZoomNeverOverscales(t *testing.T) {
	src := loadTestSVG(t)
	size := image.Point{X: 64, Y: 64}

	full, err := (&Renderer{Zoom: 100, Background: Background{Transparent: true}}).Render(src, size, FormatPNG)
	if err != nil {
		t.Fatalf("Render expected to succeed. Got %v", err)
	}

	// Out of range values are clamped, there is no overscale branch.
	for _, zoom := range []int{0, 150, 1000} {
		img, err := (&Renderer{Zoom: zoom, Background: Background{Transparent: true}}).Render(src, size, FormatPNG)
		if err != nil {
			t.Fatalf("Render at zoom %d expected to succeed. Got %v", zoom, err)
		}
		if !bytes.Equal(img.Img.Pix, full.Img.Pix) {
			t.Errorf("Render at zoom %d expected to match the 100%% fit", zoom)
		}
	}
}

func TestRender_Determinism(t *testing.T) {
	src := loadTestSVG(t)
	size := image.Point{X: 48, Y: 48}
	rend := &Renderer{Zoom: 73, Padding: 3, Background: Background{Transparent: true}}

	first, err := rend.Render(src, size, FormatPNG)
	if err != nil {
		t.Fatalf("Render expected to succeed. Got %v", err)
	}
	second, err := rend.Render(src, size, FormatPNG)
	if err != nil {
		t.Fatalf("Render expected to succeed. Got %v", err)
	}

	a, err := encodePNGBytes(first)
	if err != nil {
		t.Fatalf("Unable to encode the first render: %v", err)
	}
	b, err := encodePNGBytes(second)
	if err != nil {
		t.Fatalf("Unable to encode the second render: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("Two identical renders expected to produce pixel-identical output")
	}
}

func TestRender_Padding(t *testing.T) {
	src := loadTestSVG(t)
	rend := &Renderer{Zoom: 100, Padding: 8, Background: Background{Transparent: true}}

	img, err := rend.Render(src, image.Point{X: 64, Y: 64}, FormatPNG)
	if err != nil {
		t.Fatalf("Render expected to succeed. Got %v", err)
	}

	box := opaqueBounds(img.Img)
	if box.Dx() > 48 || box.Dy() > 48 {
		t.Errorf("Content expected to stay within the padded work area. Got %v", box)
	}
	if box.Dx() < 46 {
		t.Errorf("Content expected to fill the padded work area. Got %v", box)
	}
}

func TestRender_OpaqueFallback(t *testing.T) {
	src := loadTestSVG(t)
	rend := &Renderer{Zoom: 50, Background: Background{Transparent: true}}

	// JPG cannot store alpha: a transparent background silently falls
	// back to opaque compositing instead of raising an error.
	img, err := rend.Render(src, image.Point{X: 64, Y: 64}, FormatJPG)
	if err != nil {
		t.Fatalf("Render expected to succeed. Got %v", err)
	}
	if img.HasAlpha {
		t.Error("JPG render not expected to carry an alpha channel")
	}

	corner := img.Img.NRGBAAt(1, 1)
	if corner.A != 0xff {
		t.Errorf("Corner pixel expected to be opaque. Got alpha %d", corner.A)
	}
	if corner.R != 0xff || corner.G != 0xff || corner.B != 0xff {
		t.Errorf("Corner pixel expected to be white. Got %v", corner)
	}
}

func TestRender_BackgroundColor(t *testing.T) {
	src := loadTestSVG(t)
	red := color.NRGBA{R: 0xff, A: 0xff}
	rend := &Renderer{Zoom: 50, Background: Background{Color: red}}

	img, err := rend.Render(src, image.Point{X: 64, Y: 64}, FormatPNG)
	if err != nil {
		t.Fatalf("Render expected to succeed. Got %v", err)
	}
	if img.HasAlpha {
		t.Error("Opaque background render not expected to carry an alpha channel")
	}

	corner := img.Img.NRGBAAt(1, 1)
	if corner != red {
		t.Errorf("Corner pixel expected to be the background color. Got %v", corner)
	}

	center := img.Img.NRGBAAt(32, 32)
	if !withinDelta(center.B, 0xdc, 4) {
		t.Errorf("Center pixel expected to keep the content color. Got %v", center)
	}
}

func TestRender_TransparentAlphaPreserved(t *testing.T) {
	src := loadTestSVG(t)
	rend := &Renderer{Zoom: 50, Background: Background{Transparent: true}}

	img, err := rend.Render(src, image.Point{X: 64, Y: 64}, FormatPNG)
	if err != nil {
		t.Fatalf("Render expected to succeed. Got %v", err)
	}
	if !img.HasAlpha {
		t.Error("PNG render expected to carry an alpha channel")
	}
	if a := img.Img.NRGBAAt(1, 1).A; a != 0 {
		t.Errorf("Corner pixel expected to be fully transparent. Got alpha %d", a)
	}
}

func TestRender_RasterSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.png")

	raster := imaging.New(100, 100, color.NRGBA{R: 0xff, A: 0xff})
	if err := imaging.Save(raster, path); err != nil {
		t.Fatalf("Unable to save the raster source: %v", err)
	}

	src, err := LoadSource(path)
	if err != nil {
		t.Fatalf("Expected the raster source to load. Got %v", err)
	}
	if src.IsVector() {
		t.Error("Raster source not expected to be a vector")
	}

	img, err := (&Renderer{Zoom: 100, Background: Background{Transparent: true}}).Render(src, image.Point{X: 64, Y: 64}, FormatPNG)
	if err != nil {
		t.Fatalf("Render expected to succeed. Got %v", err)
	}

	center := img.Img.NRGBAAt(32, 32)
	if !withinDelta(center.R, 0xff, 2) || center.A != 0xff {
		t.Errorf("Center pixel expected to keep the source color. Got %v", center)
	}
}

func TestRender_InvalidSize(t *testing.T) {
	src := loadTestSVG(t)
	if _, err := (&Renderer{}).Render(src, image.Point{}, FormatPNG); err == nil {
		t.Error("Expected an invalid target size error")
	}
}

func TestLoadSource_MalformedSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.svg")
	if err := os.WriteFile(path, []byte("<svg><rect"), 0644); err != nil {
		t.Fatalf("Unable to write the test file: %v", err)
	}

	_, err := LoadSource(path)
	if err == nil {
		t.Fatal("Expected a rasterize error for a malformed SVG")
	}
	var rerr *RasterizeError
	if !errors.As(err, &rerr) {
		t.Errorf("Expected a RasterizeError. Got %T", err)
	}
}
