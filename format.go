package iconforge

import (
	"fmt"
	"strings"
)

// Format is the output format of an export.
type Format string

// The output formats supported by the export pipeline.
const (
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatBMP  Format = "bmp"
	FormatPDF  Format = "pdf"
	FormatICO  Format = "ico"
	FormatICNS Format = "icns"
)

// SupportsAlpha reports whether the format can store an alpha channel.
// Formats without alpha support are flattened onto an opaque background
// during rendering instead of raising an error.
func (f Format) SupportsAlpha() bool {
	switch f {
	case FormatPNG, FormatICO, FormatICNS:
		return true
	}
	return false
}

// Ext returns the file extension used for the format, without the leading dot.
func (f Format) Ext() string {
	return string(f)
}

// ParseFormat converts a user supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	case "bmp":
		return FormatBMP, nil
	case "pdf":
		return FormatPDF, nil
	case "ico":
		return FormatICO, nil
	case "icns":
		return FormatICNS, nil
	}
	return "", fmt.Errorf("unsupported output format: %q", s)
}
