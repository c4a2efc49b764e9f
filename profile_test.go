package iconforge

import (
	"errors"
	"image"
	"testing"
)

func TestResolve_WindowsTable(t *testing.T) {
	p, err := Resolve("windows-ico")
	if err != nil {
		t.Fatalf("Expected the profile to resolve. Got %v", err)
	}

	expected := []image.Point{{16, 16}, {24, 24}, {32, 32}, {48, 48}, {64, 64}, {128, 128}, {256, 256}}
	if len(p.Sizes) != len(expected) {
		t.Fatalf("Expected %d sizes. Got %d", len(expected), len(p.Sizes))
	}
	for i, size := range expected {
		if p.Sizes[i] != size {
			t.Errorf("Size %d expected to be %v. Got %v", i, size, p.Sizes[i])
		}
	}
	if p.Container != IcoContainer {
		t.Errorf("Expected the profile container to be ico. Got %v", p.Container)
	}
}

func TestResolve_AllProfiles(t *testing.T) {
	for _, p := range Profiles() {
		got, err := Resolve(p.ID)
		if err != nil {
			t.Errorf("Profile %q expected to resolve. Got %v", p.ID, err)
		}
		if got != p {
			t.Errorf("Profile %q expected to resolve to its table entry", p.ID)
		}
		if p.ID != "custom" && len(p.Sizes) == 0 {
			t.Errorf("Profile %q expected to declare target sizes", p.ID)
		}
		for _, size := range p.Sizes {
			if size.X < 1 || size.Y < 1 {
				t.Errorf("Profile %q contains a non-positive size %v", p.ID, size)
			}
		}
	}
}

func TestResolve_UnknownProfile(t *testing.T) {
	_, err := Resolve("atari")
	if !errors.Is(err, ErrUnknownProfile) {
		t.Errorf("Expected ErrUnknownProfile. Got %v", err)
	}
}

func TestAllowedFormats(t *testing.T) {
	formats, err := AllowedFormats("custom")
	if err != nil {
		t.Fatalf("Expected the formats to resolve. Got %v", err)
	}
	expected := []Format{FormatPNG, FormatJPG, FormatPDF, FormatBMP}
	if len(formats) != len(expected) {
		t.Fatalf("Expected %d formats. Got %d", len(expected), len(formats))
	}
	for i, f := range expected {
		if formats[i] != f {
			t.Errorf("Format %d expected to be %v. Got %v", i, f, formats[i])
		}
	}

	formats, err = AllowedFormats("windows-ico")
	if err != nil {
		t.Fatalf("Expected the formats to resolve. Got %v", err)
	}
	if len(formats) != 1 || formats[0] != FormatICO {
		t.Errorf("Windows profile expected to allow only ICO. Got %v", formats)
	}
}

func TestProfile_Supports(t *testing.T) {
	p, _ := Resolve("linux")
	if !p.Supports(FormatPNG) {
		t.Error("Linux profile expected to support PNG")
	}
	if p.Supports(FormatICNS) {
		t.Error("Linux profile not expected to support ICNS")
	}
}

func TestFormat_SupportsAlpha(t *testing.T) {
	withAlpha := []Format{FormatPNG, FormatICO, FormatICNS}
	withoutAlpha := []Format{FormatJPG, FormatBMP, FormatPDF}

	for _, f := range withAlpha {
		if !f.SupportsAlpha() {
			t.Errorf("Format %v expected to support alpha", f)
		}
	}
	for _, f := range withoutAlpha {
		if f.SupportsAlpha() {
			t.Errorf("Format %v not expected to support alpha", f)
		}
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JPEG")
	if err != nil {
		t.Fatalf("Expected the format to parse. Got %v", err)
	}
	if f != FormatJPG {
		t.Errorf("Expected jpeg to parse as %v. Got %v", FormatJPG, f)
	}

	if _, err := ParseFormat("tiff"); err == nil {
		t.Error("Expected an unsupported format error")
	}
}
