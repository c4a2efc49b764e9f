package iconforge

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jackmordaunt/icns/v3"
	ico "github.com/sergeymakinen/go-ico"
)

// packageICO assembles every rendered size into a single multi-size .ico
// file. The write is atomic: on encoding failure the partial file is removed
// and nothing is left on disk.
func packageICO(path string, images []*RenderedImage) error {
	imgs := make([]image.Image, len(images))
	for i, img := range images {
		imgs[i] = img.Img
	}

	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := ico.EncodeAll(f, imgs); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Printf("could not close the output file: %v", cerr)
		}
		os.Remove(path)
		return &PackagingError{Path: path, Err: err}
	}
	return f.Close()
}

// icnsEncoder is a single ICNS packaging strategy. The direct in-process
// encoder and the external iconutil fallback are interchangeable from the
// caller's perspective: both either produce the complete container file at
// the given path or leave nothing behind.
type icnsEncoder interface {
	Name() string
	Available() bool
	Encode(path string, images []*RenderedImage) error
}

// packageICNS tries each encoder in order and stops at the first success.
// When every available encoder fails the collected failures are surfaced as
// a single packaging error and no output file remains.
func packageICNS(path string, images []*RenderedImage, encoders ...icnsEncoder) error {
	if len(encoders) == 0 {
		encoders = []icnsEncoder{directIcns{}, iconutilIcns{}}
	}

	var errs []error
	for _, enc := range encoders {
		if !enc.Available() {
			continue
		}
		if err := enc.Encode(path, images); err != nil {
			os.Remove(path)
			errs = append(errs, fmt.Errorf("%s: %w", enc.Name(), err))
			continue
		}
		return nil
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no icns encoder is available"))
	}
	return &PackagingError{Path: path, Err: errors.Join(errs...)}
}

// directIcns encodes the container in-process from the largest rendered
// size, the embedded representations are derived from it by the encoder.
type directIcns struct{}

func (directIcns) Name() string { return "icns" }

func (directIcns) Available() bool { return true }

func (directIcns) Encode(path string, images []*RenderedImage) error {
	largest := images[0]
	for _, img := range images[1:] {
		if img.Size.X > largest.Size.X {
			largest = img
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := icns.Encode(f, largest.Img); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Printf("could not close the output file: %v", cerr)
		}
		return err
	}
	return f.Close()
}

// iconutilIcns delegates the container encoding to the platform-provided
// iconutil command. It writes the rendered sizes as PNG files into a
// temporary .iconset directory and invokes the converter on it.
type iconutilIcns struct{}

func (iconutilIcns) Name() string { return "iconutil" }

func (iconutilIcns) Available() bool {
	_, err := exec.LookPath("iconutil")
	return err == nil
}

func (iconutilIcns) Encode(path string, images []*RenderedImage) error {
	iconset, err := os.MkdirTemp(filepath.Dir(path), "icon-*.iconset")
	if err != nil {
		return err
	}
	defer os.RemoveAll(iconset)

	for _, img := range images {
		fname := filepath.Join(iconset, fmt.Sprintf("icon_%dx%d.png", img.Size.X, img.Size.Y))
		if err := writeImage(fname, img, FormatPNG); err != nil {
			return err
		}
	}

	var stderr bytes.Buffer
	cmd := exec.Command("iconutil", "-c", "icns", iconset, "-o", path)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%v: %s", err, stderr.String())
	}
	return nil
}

// encodePNGBytes snapshots a render for byte level comparison.
func encodePNGBytes(img *RenderedImage) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.Img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
