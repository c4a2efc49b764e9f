package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/iconforge/iconforge"
	"github.com/iconforge/iconforge/utils"
)

const helpBanner = `
┬┌─┐┌─┐┌┐┌┌─┐┌─┐┬─┐┌─┐┌─┐
││  │ ││││├┤ │ │├┬┘│ ┬├┤
┴└─┘└─┘┘└┘└  └─┘┴└─└─┘└─┘

SVG to platform icon set and wallpaper exporter.
    Version: %s

`

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", "", "Source image (SVG, PNG or JPEG), directory or '-' for stdin")
	destination = flag.String("out", ".", "Destination directory")
	baseName    = flag.String("name", "", "Output file stem (defaults to the source file name)")
	profile     = flag.String("profile", "custom", "Export profile")
	format      = flag.String("format", "png", "Output format")
	zoom        = flag.Int("zoom", 100, "Content zoom percentage (1-100)")
	padding     = flag.Int("padding", 0, "Canvas padding in pixels")
	background  = flag.String("bg", "transparent", "Background: 'transparent' or a hex color like '#ff0000'")
	width       = flag.Int("width", 1024, "Output width (custom profile only)")
	height      = flag.Int("height", 1024, "Output height (custom profile only)")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	list        = flag.Bool("list", false, "List the available export profiles")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		listProfiles()
		return
	}

	if *source == "" {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide a source image with the -in flag!", utils.ErrorMessage))
	}

	outFormat, err := iconforge.ParseFormat(*format)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	bg, err := parseBackground(*background)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	op := &iconforge.Ops{
		Src:     *source,
		Dst:     *destination,
		Workers: *workers,
		Request: iconforge.ExportRequest{
			BaseName:   *baseName,
			Profile:    *profile,
			Format:     outFormat,
			Zoom:       *zoom,
			Padding:    *padding,
			Background: bg,
			Width:      *width,
			Height:     *height,
		},
	}
	op.Execute()
}

// listProfiles prints the profile table together with the allowed formats.
func listProfiles() {
	for _, p := range iconforge.Profiles() {
		formats, _ := iconforge.AllowedFormats(p.ID)
		names := make([]string, len(formats))
		for i, f := range formats {
			names[i] = string(f)
		}
		fmt.Printf("%-28s %s (%s)\n",
			utils.DecorateText(p.ID, utils.StatusMessage), p.Name, strings.Join(names, ", "))
	}
}

// parseBackground converts the -bg flag value to a background setting.
func parseBackground(s string) (iconforge.Background, error) {
	if strings.EqualFold(s, "transparent") {
		return iconforge.Background{Transparent: true}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return iconforge.Background{}, fmt.Errorf("invalid background color: %q", s)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return iconforge.Background{}, fmt.Errorf("invalid background color: %q", s)
	}
	return iconforge.Background{Color: color.NRGBA{R: r, G: g, B: b, A: 0xff}}, nil
}
