package iconforge

import (
	"fmt"
	"image"

	"github.com/iconforge/iconforge/utils"
)

// Container indicates how a rendered size set is laid out on disk.
type Container int

const (
	// Flat writes one independent file per target size.
	Flat Container = iota
	// IcoContainer packs every size into a single multi-size .ico file.
	IcoContainer
	// IcnsContainer packs every size into a single .icns file.
	IcnsContainer
)

// Profile is a named bundle of target sizes, allowed output formats and
// container kind for a platform or use case. Profiles are static built-in
// data and must not be mutated by the caller.
type Profile struct {
	ID        string
	Name      string
	Sizes     []image.Point // nil for the custom profile, the size comes from the request
	Formats   []Format
	Container Container
	Subdir    string // destination subdirectory, slash separated
}

// Supports reports whether the format is allowed for the profile.
func (p *Profile) Supports(f Format) bool {
	return utils.Contains(p.Formats, f)
}

// The built-in profile table. The icon size lists follow the platform
// conventions: Windows ICO entries, the macOS iconset grid, the freedesktop
// hicolor theme steps and the Android/iOS launcher grids. Wallpaper sizes
// cover the common device resolutions per class.
var profiles = []*Profile{
	{
		ID:        "windows-ico",
		Name:      "Windows icon (.ico)",
		Sizes:     squares(16, 24, 32, 48, 64, 128, 256),
		Formats:   []Format{FormatICO},
		Container: IcoContainer,
		Subdir:    "windows",
	},
	{
		ID:        "macos-icns",
		Name:      "macOS icon (.icns)",
		Sizes:     squares(16, 32, 64, 128, 256, 512, 1024),
		Formats:   []Format{FormatICNS},
		Container: IcnsContainer,
		Subdir:    "macos",
	},
	{
		ID:      "linux",
		Name:    "Linux icon set",
		Sizes:   squares(16, 22, 24, 32, 48, 64, 96, 128, 256, 512),
		Formats: []Format{FormatPNG, FormatJPG, FormatBMP},
		Subdir:  "linux",
	},
	{
		ID:      "android",
		Name:    "Android app icons",
		Sizes:   squares(48, 72, 96, 144, 192, 512),
		Formats: []Format{FormatPNG, FormatJPG, FormatBMP},
		Subdir:  "android",
	},
	{
		ID:      "ios",
		Name:    "iOS app icons",
		Sizes:   squares(60, 76, 120, 152, 167, 180, 1024),
		Formats: []Format{FormatPNG, FormatJPG, FormatBMP},
		Subdir:  "ios",
	},
	{
		ID:      "wallpaper-desktop",
		Name:    "Desktop wallpapers",
		Sizes:   []image.Point{{X: 1280, Y: 720}, {X: 1920, Y: 1080}, {X: 2560, Y: 1440}, {X: 3840, Y: 2160}},
		Formats: []Format{FormatPNG, FormatJPG, FormatBMP},
		Subdir:  "wallpapers/desktop",
	},
	{
		ID:      "wallpaper-phone",
		Name:    "Phone wallpapers",
		Sizes:   []image.Point{{X: 750, Y: 1334}, {X: 1080, Y: 1920}, {X: 1170, Y: 2532}, {X: 1440, Y: 3040}},
		Formats: []Format{FormatPNG, FormatJPG, FormatBMP},
		Subdir:  "wallpapers/phone",
	},
	{
		ID:      "wallpaper-tablet-portrait",
		Name:    "Tablet wallpapers (portrait)",
		Sizes:   []image.Point{{X: 1536, Y: 2048}, {X: 1668, Y: 2388}, {X: 1600, Y: 2560}},
		Formats: []Format{FormatPNG, FormatJPG, FormatBMP},
		Subdir:  "wallpapers/tablet_portrait",
	},
	{
		ID:      "wallpaper-tablet-landscape",
		Name:    "Tablet wallpapers (landscape)",
		Sizes:   []image.Point{{X: 2048, Y: 1536}, {X: 2388, Y: 1668}, {X: 2560, Y: 1600}},
		Formats: []Format{FormatPNG, FormatJPG, FormatBMP},
		Subdir:  "wallpapers/tablet_landscape",
	},
	{
		ID:      "custom",
		Name:    "Custom export",
		Formats: []Format{FormatPNG, FormatJPG, FormatPDF, FormatBMP},
		Subdir:  "custom",
	},
}

var profileIndex = func() map[string]*Profile {
	idx := make(map[string]*Profile, len(profiles))
	for _, p := range profiles {
		idx[p.ID] = p
	}
	return idx
}()

// Resolve maps a profile identifier to its registered export profile.
func Resolve(id string) (*Profile, error) {
	p, ok := profileIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, id)
	}
	return p, nil
}

// Profiles returns the built-in profiles in their declaration order.
func Profiles() []*Profile {
	return profiles
}

// AllowedFormats returns the output formats permitted for a profile.
// UI layers derive their format selection from this, there is no mutable
// format state to keep in sync.
func AllowedFormats(id string) ([]Format, error) {
	p, err := Resolve(id)
	if err != nil {
		return nil, err
	}
	return p.Formats, nil
}

// squares expands a list of edge lengths into square dimensions.
func squares(sizes ...int) []image.Point {
	pts := make([]image.Point, len(sizes))
	for i, s := range sizes {
		pts[i] = image.Point{X: s, Y: s}
	}
	return pts
}
