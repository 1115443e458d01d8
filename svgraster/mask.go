// Package svgraster emits the raster outputs of a processing run: the
// binary masks marking clipped areas on the document canvas, and the
// cropped sub-images cut out of the embedded rasters. Masks are filled
// through a rasterx scanner so the drawing path matches how the rest of
// the ecosystem rasterizes vector shapes.
package svgraster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/Eryk-dev/svg-crop-api/svgdoc"
)

func toFixedP(x, y float64) (p fixed.Point26_6) {
	p.X = fixed.Int26_6(x * 64)
	p.Y = fixed.Int26_6(y * 64)
	return
}

// Mask rasterizes the clip rectangle as a filled region on a blank
// canvas-sized single-channel bitmap. The rectangle is rounded to the
// nearest integer document-space pixel; everything outside stays zero.
func Mask(width, height int, clip svgdoc.Box) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))

	x1 := math.Round(clip.X)
	y1 := math.Round(clip.Y)
	x2 := math.Round(clip.X + clip.W)
	y2 := math.Round(clip.Y + clip.H)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	scanner.SetColor(color.White)
	filler := rasterx.NewFiller(width, height, scanner)
	filler.Start(toFixedP(x1, y1))
	filler.Line(toFixedP(x2, y1))
	filler.Line(toFixedP(x2, y2))
	filler.Line(toFixedP(x1, y2))
	filler.Stop(true)
	filler.Draw()
	return img
}

// WriteMask encodes the mask for the given region index into dir and
// returns the written path. Mask files pair with crops through the shared
// region index in the name.
func WriteMask(dir string, regionIndex int, mask *image.Gray) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("mask_region%d.png", regionIndex))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, mask); err != nil {
		return "", err
	}
	return path, nil
}
