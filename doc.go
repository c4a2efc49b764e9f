/*
Package iconforge converts SVG (and raster) source images into platform icon sets
and wallpapers. A named export profile is resolved into a list of target sizes,
each size is rasterized with a deterministic zoom/fit/background policy and the
resulting set is packaged either as loose files, a multi-size Windows .ico or a
macOS .icns container.

The package provides a command line interface, supporting various flags for the
different export profiles. To check the supported commands type:

	$ iconforge --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/iconforge/iconforge"
	)

	func main() {
		req := &iconforge.ExportRequest{
			Source:  "logo.svg",
			Profile: "windows-ico",
			Format:  iconforge.FormatICO,
			Zoom:    100,
			Dir:     "out",
		}

		res, err := iconforge.Export(req)
		if err != nil {
			fmt.Printf("Error exporting the image: %s", err.Error())
		}
		fmt.Println(res.Written)
	}
*/
package iconforge
