package iconforge

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/bmp"
)

// encodeImage encodes a rendered image into one of the flat output formats.
// Container formats (.ico, .icns) are assembled by the packager instead.
func encodeImage(w io.Writer, img *RenderedImage, format Format) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img.Img)
	case FormatJPG:
		return jpeg.Encode(w, img.Img, &jpeg.Options{Quality: 100})
	case FormatBMP:
		return bmp.Encode(w, img.Img)
	case FormatPDF:
		return encodePDF(w, img)
	default:
		return fmt.Errorf("unsupported image format: %q", format)
	}
}

// encodePDF embeds the rendered image as a full-bleed single page, sized in
// points to match the pixel dimensions. PDF carries no alpha channel, the
// image has already been flattened by the render step.
func encodePDF(w io.Writer, img *RenderedImage) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Img); err != nil {
		return err
	}

	wpt, hpt := float64(img.Size.X), float64(img.Size.Y)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: wpt, Ht: hpt},
	})
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("content", opts, &buf)
	pdf.ImageOptions("content", 0, 0, wpt, hpt, false, opts, 0, "")

	return pdf.Output(w)
}

// writeImage encodes the rendered image into a newly created file.
// A partially written file is removed on encoding failure.
func writeImage(path string, img *RenderedImage, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := encodeImage(f, img, format); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Printf("could not close the output file: %v", cerr)
		}
		os.Remove(path)
		return err
	}
	return f.Close()
}
