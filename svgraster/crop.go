package svgraster

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Output encodings for cropped rasters. Anything else is rejected before
// reaching the processing loop.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// jpegQuality matches the quality the service always emitted.
const jpegQuality = 95

// SupportedFormat reports whether format names one of the two supported
// output encodings.
func SupportedFormat(format string) bool {
	return format == FormatPNG || format == FormatJPEG
}

// OpenRaster decodes the raster image at path. The format is sniffed;
// besides the stdlib jpeg/png/gif decoders, bmp, tiff and webp are
// registered.
func OpenRaster(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop returns the sub-region r of img. Images whose concrete type
// supports SubImage share pixels with the source; others are copied.
func Crop(img image.Image, r image.Rectangle) image.Image {
	r = r.Add(img.Bounds().Min)
	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}

// WriteCrop encodes the cropped image into dir using the requested
// format. The file name embeds the region index and the source raster's
// base name so a consumer can pair the crop with its mask.
func WriteCrop(dir string, regionIndex int, srcName, format string, img image.Image) (string, error) {
	if !SupportedFormat(format) {
		return "", fmt.Errorf("svgraster: unsupported output format %q", format)
	}
	base := strings.TrimSuffix(filepath.Base(srcName), filepath.Ext(srcName))
	path := filepath.Join(dir, fmt.Sprintf("crop_region%d_%s.%s", regionIndex, base, format))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	switch format {
	case FormatPNG:
		err = png.Encode(f, img)
	case FormatJPEG:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
