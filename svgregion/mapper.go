package svgregion

import (
	"errors"
	"image"
	"math"

	"github.com/Eryk-dev/svg-crop-api/svgdoc"
)

var (
	// ErrSkewedTransform marks a placement transform with rotation or
	// shear components. The mapper only inverts pure scale+translate
	// transforms; anything else would silently mis-crop, so it is
	// rejected instead.
	ErrSkewedTransform = errors.New("svgregion: transform has rotation or shear components")

	// ErrDegenerateTransform marks a transform with a zero scale factor,
	// which cannot be inverted.
	ErrDegenerateTransform = errors.New("svgregion: transform scale factor is zero")

	// ErrEmptyPlacement marks an image whose declared placement box has
	// zero width or height.
	ErrEmptyPlacement = errors.New("svgregion: image placement box is empty")
)

// CropBox is an integer pixel rectangle in a raster image's own
// coordinate system. It is only usable when Valid reports true; an
// invalid box means the clip fell outside the image and the region is
// simply dropped.
type CropBox struct {
	X1, Y1, X2, Y2 int
}

// Valid reports whether the box still covers at least one pixel after
// clamping.
func (b CropBox) Valid() bool { return b.X2 > b.X1 && b.Y2 > b.Y1 }

// Rect converts the box to an image.Rectangle.
func (b CropBox) Rect() image.Rectangle { return image.Rect(b.X1, b.Y1, b.X2, b.Y2) }

// Map converts a clip rectangle from document space into the pixel space
// of the raster behind an image element.
//
// clip is the rectangle in document units, m the image's resolved
// ancestor transform, placement the box the document declares for the
// image, and rw/rh the raster's true pixel dimensions. The transform must
// be a pure scale plus translation (precondition of the documents this
// targets); its inverse brings the clip into the image group's local
// space, the placement offset is subtracted, and the declared-size to
// raster-resolution mismatch is corrected by rw/placement.W and
// rh/placement.H.
//
// The returned box is clamped to the raster bounds. A box that is empty
// after clamping is not an error: Valid is false and the caller drops the
// region.
func Map(clip svgdoc.Box, m svgdoc.Matrix2D, placement svgdoc.Box, rw, rh int) (CropBox, error) {
	if !m.AxisAligned() {
		return CropBox{}, ErrSkewedTransform
	}
	if m.A == 0 || m.D == 0 {
		return CropBox{}, ErrDegenerateTransform
	}
	if placement.W == 0 || placement.H == 0 {
		return CropBox{}, ErrEmptyPlacement
	}

	// Document space -> image group local space.
	localX := (clip.X - m.E) / m.A
	localY := (clip.Y - m.F) / m.D
	localW := clip.W / m.A
	localH := clip.H / m.D

	// Offset within the image's declared box.
	boxX := localX - placement.X
	boxY := localY - placement.Y

	// Declared display size -> true raster resolution.
	scaleX := float64(rw) / placement.W
	scaleY := float64(rh) / placement.H

	pixelX := boxX * scaleX
	pixelY := boxY * scaleY
	pixelW := localW * scaleX
	pixelH := localH * scaleY

	return CropBox{
		X1: int(math.Floor(math.Max(0, pixelX))),
		Y1: int(math.Floor(math.Max(0, pixelY))),
		X2: int(math.Floor(math.Min(float64(rw), pixelX+pixelW))),
		Y2: int(math.Floor(math.Min(float64(rh), pixelY+pixelH))),
	}, nil
}
