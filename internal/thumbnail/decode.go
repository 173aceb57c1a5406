// Package thumbnail turns product images into terminal cells.
package thumbnail

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imageorient"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// svgRasterSize is the edge length SVGs are rasterized at before resizing.
const svgRasterSize = 256

// Decode reads the image at path. Raster formats are rotated according to
// their EXIF orientation.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		icon, err := oksvg.ReadIconStream(f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse svg %s: %w", path, err)
		}
		icon.SetTarget(0, 0, svgRasterSize, svgRasterSize)
		img := image.NewRGBA(image.Rect(0, 0, svgRasterSize, svgRasterSize))
		scanner := rasterx.NewScannerGV(svgRasterSize, svgRasterSize, img, img.Bounds())
		icon.Draw(rasterx.NewDasher(svgRasterSize, svgRasterSize, scanner), 1)
		return img, nil
	}

	img, _, err := imageorient.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}
